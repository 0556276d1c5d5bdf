package watch

import (
	"context"
	"fmt"

	"homewatch/internal/config"
	"homewatch/internal/notify"
	"homewatch/internal/quote"
	"homewatch/pkg/logx"
)

// Quote runs one quote pass and returns the process exit code: 0 when a
// quote was fetched and pushed, 1 when no usable price came back. Unlike the
// original cron script, a failed fetch exits non-zero so the scheduler can
// see it too, not just the error notification.
func Quote(ctx context.Context, cfg *config.Config, log logx.Logger, notifier *notify.Service, client *quote.Client) int {
	symbol := cfg.Quote.Symbol

	q, err := client.Fetch(ctx, symbol)
	if err != nil || !q.HasPrice {
		if err != nil {
			log.Error("quote fetch failed", logx.String("symbol", symbol), logx.Err(err))
		} else {
			log.Error("quote carried no price", logx.String("symbol", symbol))
		}
		notifier.Publish(ctx, notify.Message{
			Title:    symbol + " quote error",
			Body:     "Could not fetch a quote for " + symbol + ".",
			Priority: notify.PriorityHigh,
			Tags:     []string{"skull"},
		})
		return 1
	}

	price := fmt.Sprintf("$%.2f", q.Price)
	change := fmt.Sprintf("%.2f%%", q.ChangePercent)
	log.Info("quote fetched",
		logx.String("symbol", q.Symbol),
		logx.String("price", price),
		logx.String("change", change))

	notifier.Publish(ctx, notify.Message{
		Title: symbol + " quote",
		Body:  price + " / " + change,
		Tags:  []string{quote.Direction(q.ChangePercent)},
		Click: cfg.Quote.Click(),
	})
	return 0
}
