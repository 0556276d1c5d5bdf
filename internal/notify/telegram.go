package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// TelegramConfig enables the optional send-only Telegram sink.
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Telegram mirrors notifications into a Telegram chat. Send-only: no poller
// is attached, the bot only calls sendMessage.
type Telegram struct {
	cfg TelegramConfig
	bot *tele.Bot
}

func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is not set")
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &Telegram{cfg: cfg, bot: b}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(_ context.Context, msg Message) error {
	var b strings.Builder
	b.WriteString(levelPrefix(msg.Priority))
	b.WriteString(msg.Title)
	if msg.Body != "" {
		b.WriteString("\n")
		b.WriteString(msg.Body)
	}
	if msg.Click != "" {
		b.WriteString("\n")
		b.WriteString(msg.Click)
	}

	chat := &tele.Chat{ID: t.cfg.ChatID}
	_, err := t.bot.Send(chat, b.String(), &tele.SendOptions{DisableWebPagePreview: true})
	return err
}

// levelPrefix maps the ntfy priority scale onto a chat-friendly marker.
// Note the original scripts used priority 2 ("low") for warning alerts and
// 4 for genuine trouble; the prefixes follow that usage.
func levelPrefix(p Priority) string {
	switch {
	case p >= PriorityHigh:
		return "🚨 "
	case p == PriorityDefault || p <= 0:
		return "ℹ️ "
	default:
		return "⚠️ "
	}
}
