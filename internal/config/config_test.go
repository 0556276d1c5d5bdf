package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Sensors.WindowMinutes != 45 || cfg.Sensors.MinCheckins != 2 {
		t.Fatalf("unexpected sensor defaults: %+v", cfg.Sensors)
	}
	if cfg.Quote.Symbol != "RKLB" {
		t.Fatalf("unexpected symbol default: %q", cfg.Quote.Symbol)
	}
	if !cfg.Logging.Console || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Sensors.Window() != 45*time.Minute {
		t.Fatalf("Window() = %v, want 45m", cfg.Sensors.Window())
	}
	if cfg.Sensors.SSH.QueryTimeout() != DefaultSSHTimeout {
		t.Fatalf("QueryTimeout() = %v, want %v", cfg.Sensors.SSH.QueryTimeout(), DefaultSSHTimeout)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homewatch.yaml")
	data := `
ntfy:
  host: https://ntfy.example.net
  username: bot
  password: hunter2
sensors:
  topic: sensors
  database_path: /var/lib/sensors/temp.db
  window_minutes: 30
  ssh:
    host: db-host
    user: monitor
    timeout: 20s
quote:
  topic: quotes
  symbol: ASTS
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ntfy.Host != "https://ntfy.example.net" {
		t.Fatalf("ntfy host = %q", cfg.Ntfy.Host)
	}
	if cfg.Sensors.Window() != 30*time.Minute {
		t.Fatalf("Window() = %v, want 30m", cfg.Sensors.Window())
	}
	if cfg.Sensors.SSH.QueryTimeout() != 20*time.Second {
		t.Fatalf("QueryTimeout() = %v, want 20s", cfg.Sensors.SSH.QueryTimeout())
	}
	// File did not set min_checkins; the default must survive the decode.
	if cfg.Sensors.MinCheckins != 2 {
		t.Fatalf("min_checkins = %d, want default 2", cfg.Sensors.MinCheckins)
	}
	if cfg.Quote.Symbol != "ASTS" {
		t.Fatalf("symbol = %q", cfg.Quote.Symbol)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homewatch.yaml")
	if err := os.WriteFile(path, []byte("sensros:\n  topic: oops\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestApplyEnvOverlay(t *testing.T) {
	env := map[string]string{
		"NTFY_HOST":         "https://ntfy.example.net",
		"NTFY_SENSOR_TOPIC": "sensors",
		"NTFY_EOD_TOPIC":    "quotes",
		"SSH_HOST":          "db-host",
		"SSH_USERNAME":      "monitor",
		"DATABASE_PATH":     "/var/lib/sensors/temp.db",
		"MINUTES_AGO":       "60",
		"MIN_CHECKINS":      "3",
		"TELEGRAM_TOKEN":    "123:abc",
		"TELEGRAM_CHAT_ID":  "-100200300",
	}
	cfg := defaults()
	if err := applyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if cfg.Ntfy.Host != "https://ntfy.example.net" {
		t.Fatalf("ntfy host = %q", cfg.Ntfy.Host)
	}
	if cfg.Sensors.Topic != "sensors" || cfg.Quote.Topic != "quotes" {
		t.Fatalf("topics = %q/%q", cfg.Sensors.Topic, cfg.Quote.Topic)
	}
	if cfg.Sensors.WindowMinutes != 60 || cfg.Sensors.MinCheckins != 3 {
		t.Fatalf("window/min = %d/%d", cfg.Sensors.WindowMinutes, cfg.Sensors.MinCheckins)
	}
	if cfg.Telegram == nil || cfg.Telegram.ChatID != -100200300 {
		t.Fatalf("telegram overlay missing: %+v", cfg.Telegram)
	}
	if err := cfg.ValidateSensors(); err != nil {
		t.Fatalf("env-only config should validate: %v", err)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		key string
		val string
	}{
		{"MINUTES_AGO", "soon"},
		{"MINUTES_AGO", "0"},
		{"MIN_CHECKINS", "-1"},
		{"TELEGRAM_CHAT_ID", "not-a-chat"},
	}
	for _, tt := range tests {
		cfg := defaults()
		err := applyEnv(cfg, func(k string) string {
			if k == tt.key {
				return tt.val
			}
			return ""
		})
		if err == nil {
			t.Fatalf("%s=%q: expected error", tt.key, tt.val)
		}
	}
}

func TestValidateSensors(t *testing.T) {
	cfg := defaults()
	err := cfg.ValidateSensors()
	if err == nil {
		t.Fatal("empty config must not validate")
	}

	cfg.Ntfy.Host = "https://ntfy.example.net"
	cfg.Sensors.Topic = "sensors"
	cfg.Sensors.DatabasePath = "/var/lib/sensors/temp.db"
	cfg.Sensors.SSH.Host = "db-host"
	cfg.Sensors.SSH.User = "monitor"
	if err := cfg.ValidateSensors(); err != nil {
		t.Fatalf("complete ssh config should validate: %v", err)
	}

	// The local driver does not need SSH settings.
	cfg.Sensors.SSH = SSHConfig{}
	cfg.Sensors.Driver = "sqlite"
	if err := cfg.ValidateSensors(); err != nil {
		t.Fatalf("sqlite driver should validate without ssh: %v", err)
	}

	cfg.Sensors.SSH.Timeout = "not-a-duration"
	cfg.Sensors.Driver = "sqlite"
	if err := cfg.ValidateSensors(); err == nil {
		t.Fatal("bad timeout must not validate")
	}
}

func TestValidateQuote(t *testing.T) {
	cfg := defaults()
	if err := cfg.ValidateQuote(); err == nil {
		t.Fatal("empty config must not validate")
	}
	cfg.Ntfy.Host = "https://ntfy.example.net"
	cfg.Quote.Topic = "quotes"
	if err := cfg.ValidateQuote(); err != nil {
		t.Fatalf("complete config should validate: %v", err)
	}
}

func TestQuoteClickDefault(t *testing.T) {
	q := QuoteConfig{Symbol: "RKLB"}
	if got := q.Click(); got != "https://finance.yahoo.com/quote/RKLB/" {
		t.Fatalf("Click() = %q", got)
	}
	q.ClickURL = "https://example.net/override"
	if got := q.Click(); got != "https://example.net/override" {
		t.Fatalf("Click() override = %q", got)
	}
}
