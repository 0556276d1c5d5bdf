package config

import (
	"fmt"
	"strconv"
	"strings"
)

// applyEnv overlays the environment variables the original cron scripts used
// onto cfg. Set variables win over file values; unset/empty ones are ignored.
//
// getenv is injected so tests don't have to mutate the process environment.
func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("NTFY_HOST", &cfg.Ntfy.Host)
	str("NTFY_USERNAME", &cfg.Ntfy.Username)
	str("NTFY_PASSWORD", &cfg.Ntfy.Password)
	str("NTFY_SENSOR_TOPIC", &cfg.Sensors.Topic)
	str("NTFY_EOD_TOPIC", &cfg.Quote.Topic)

	str("SSH_HOST", &cfg.Sensors.SSH.Host)
	str("SSH_USERNAME", &cfg.Sensors.SSH.User)
	str("SSH_KEY_FILE", &cfg.Sensors.SSH.KeyFile)
	str("DATABASE_PATH", &cfg.Sensors.DatabasePath)
	str("SENSOR_SOURCE", &cfg.Sensors.Driver)

	str("QUOTE_SYMBOL", &cfg.Quote.Symbol)

	if v := strings.TrimSpace(getenv("MINUTES_AGO")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("MINUTES_AGO: invalid minute count %q", v)
		}
		cfg.Sensors.WindowMinutes = n
	}
	if v := strings.TrimSpace(getenv("MIN_CHECKINS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("MIN_CHECKINS: invalid count %q", v)
		}
		cfg.Sensors.MinCheckins = n
	}

	if v := strings.TrimSpace(getenv("TELEGRAM_TOKEN")); v != "" {
		if cfg.Telegram == nil {
			cfg.Telegram = &TelegramConfig{}
		}
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: invalid chat id %q", v)
		}
		if cfg.Telegram == nil {
			cfg.Telegram = &TelegramConfig{}
		}
		cfg.Telegram.ChatID = id
	}

	return nil
}
