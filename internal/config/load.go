package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Load builds the Config: defaults, then the YAML file at path (if it
// exists), then the environment overlay.
//
// A missing file is not an error; the environment can carry everything the
// original scripts needed.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fine, env-only
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty file decodes to io.EOF; treat it like a missing one.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
		Sensors: SensorsConfig{
			WindowMinutes: DefaultWindowMinutes,
			MinCheckins:   DefaultMinCheckins,
		},
		Quote: QuoteConfig{
			Symbol: DefaultSymbol,
		},
	}
}

// ValidateSensors checks everything the sensor watcher needs up front.
// A failure here is fatal for the run; nothing can be notified without it.
func (c *Config) ValidateSensors() error {
	var missing []string
	if strings.TrimSpace(c.Ntfy.Host) == "" {
		missing = append(missing, "ntfy.host (NTFY_HOST)")
	}
	if strings.TrimSpace(c.Sensors.Topic) == "" {
		missing = append(missing, "sensors.topic (NTFY_SENSOR_TOPIC)")
	}
	if strings.TrimSpace(c.Sensors.DatabasePath) == "" {
		missing = append(missing, "sensors.database_path (DATABASE_PATH)")
	}

	driver := strings.ToLower(strings.TrimSpace(c.Sensors.Driver))
	if driver == "" || driver == "ssh" {
		if strings.TrimSpace(c.Sensors.SSH.Host) == "" {
			missing = append(missing, "sensors.ssh.host (SSH_HOST)")
		}
		if strings.TrimSpace(c.Sensors.SSH.User) == "" {
			missing = append(missing, "sensors.ssh.user (SSH_USERNAME)")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if _, err := ParseDurationField("sensors.ssh.timeout", c.Sensors.SSH.Timeout); err != nil {
		return err
	}
	if c.Sensors.MinCheckins < 1 {
		return errors.New("sensors.min_checkins must be >= 1")
	}
	return nil
}

// ValidateQuote checks everything the quote watcher needs up front.
func (c *Config) ValidateQuote() error {
	var missing []string
	if strings.TrimSpace(c.Ntfy.Host) == "" {
		missing = append(missing, "ntfy.host (NTFY_HOST)")
	}
	if strings.TrimSpace(c.Quote.Topic) == "" {
		missing = append(missing, "quote.topic (NTFY_EOD_TOPIC)")
	}
	if strings.TrimSpace(c.Quote.Symbol) == "" {
		missing = append(missing, "quote.symbol (QUOTE_SYMBOL)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
