package watch

import (
	"strings"

	"homewatch/internal/config"
	"homewatch/internal/notify"
	"homewatch/pkg/logx"
)

// BuildNotifier assembles the notification pipeline for one watcher's topic.
// A misconfigured Telegram sink only disables itself; the ntfy sink is the
// primary channel and always present.
func BuildNotifier(cfg *config.Config, topic string, log logx.Logger) *notify.Service {
	sinks := []notify.Sink{
		notify.NewNtfy(notify.NtfyConfig{
			Host:     cfg.Ntfy.Host,
			Topic:    topic,
			Username: cfg.Ntfy.Username,
			Password: cfg.Ntfy.Password,
		}),
	}
	if tg := cfg.Telegram; tg != nil && strings.TrimSpace(tg.Token) != "" {
		sink, err := notify.NewTelegram(notify.TelegramConfig{Token: tg.Token, ChatID: tg.ChatID})
		if err != nil {
			log.Warn("telegram sink disabled", logx.Err(err))
		} else {
			sinks = append(sinks, sink)
		}
	}
	return notify.NewService(log, sinks...)
}
