package config

import (
	"strings"
	"time"
)

// Config is the explicit configuration for both watchers.
//
// It is constructed once at process start (YAML file, then environment
// overlay) and passed by parameter into every component; nothing reads the
// process environment after Load returns.
type Config struct {
	Logging  LoggingConfig   `yaml:"logging"`
	Ntfy     NtfyConfig      `yaml:"ntfy"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
	Sensors  SensorsConfig   `yaml:"sensors"`
	Quote    QuoteConfig     `yaml:"quote"`
}

type LoggingConfig struct {
	Level   string      `yaml:"level"`
	Console bool        `yaml:"console"`
	File    LoggingFile `yaml:"file"`
	// Journal mirrors log lines to systemd-journald when available.
	// Useful when the watchers run from a systemd timer.
	Journal bool `yaml:"journal"`
}

type LoggingFile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NtfyConfig holds the shared ntfy endpoint; each watcher publishes to its
// own topic (SensorsConfig.Topic / QuoteConfig.Topic).
type NtfyConfig struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TelegramConfig enables the optional send-only Telegram sink.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// SSHConfig describes how the sensor watcher reaches the database host.
//
// Timeout is a Go duration string (e.g. "10s", "1m") and bounds the whole
// remote query, dial included. It defaults to 30s when omitted.
type SSHConfig struct {
	Host            string `yaml:"host"` // host or host:port, default port 22
	User            string `yaml:"user"`
	KeyFile         string `yaml:"key_file,omitempty"`
	KnownHostsFile  string `yaml:"known_hosts_file,omitempty"` // default ~/.ssh/known_hosts
	InsecureHostKey bool   `yaml:"insecure_host_key,omitempty"`
	Timeout         string `yaml:"timeout,omitempty"`
}

// SensorsConfig configures the sensor check-in watcher.
type SensorsConfig struct {
	Topic string `yaml:"topic"`

	// Driver selects how check-in rows are fetched:
	//   - "ssh" (default): sqlite3 -json over a remote shell
	//   - "sqlite": read the database file directly (watcher runs on the DB host)
	Driver       string    `yaml:"driver,omitempty"`
	SSH          SSHConfig `yaml:"ssh"`
	DatabasePath string    `yaml:"database_path"`

	// WindowMinutes is the trailing window to count check-ins over.
	// Kept as a minute count for MINUTES_AGO compatibility. Default 45.
	WindowMinutes int `yaml:"window_minutes,omitempty"`
	// MinCheckins is the count below which a sensor is alerted on. Default 2.
	MinCheckins int `yaml:"min_checkins,omitempty"`
}

// QuoteConfig configures the stock quote watcher.
type QuoteConfig struct {
	Topic  string `yaml:"topic"`
	Symbol string `yaml:"symbol,omitempty"` // default "RKLB"
	// ClickURL overrides the notification click target; defaults to the
	// Yahoo Finance quote page for Symbol.
	ClickURL string `yaml:"click_url,omitempty"`
}

const (
	DefaultWindowMinutes = 45
	DefaultMinCheckins   = 2
	DefaultSymbol        = "RKLB"
	DefaultSSHTimeout    = 30 * time.Second
)

// Window returns the trailing check-in window as a duration.
func (s SensorsConfig) Window() time.Duration {
	m := s.WindowMinutes
	if m <= 0 {
		m = DefaultWindowMinutes
	}
	return time.Duration(m) * time.Minute
}

// QueryTimeout returns the bound on the whole remote query.
func (s SSHConfig) QueryTimeout() time.Duration {
	d, err := ParseDurationOrDefault("sensors.ssh.timeout", s.Timeout, DefaultSSHTimeout)
	if err != nil {
		return DefaultSSHTimeout
	}
	return d
}

// Click returns the notification click target for the quote watcher.
func (q QuoteConfig) Click() string {
	if strings.TrimSpace(q.ClickURL) != "" {
		return q.ClickURL
	}
	return "https://finance.yahoo.com/quote/" + q.Symbol + "/"
}
