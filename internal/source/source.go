// Package source fetches raw check-in rows from the sensor database.
//
// Both drivers return the same wire shape — the JSON array `sqlite3 -json`
// prints, or an empty string when no rows matched — so the analyzer path is
// identical regardless of where the database lives.
package source

import (
	"context"
	"errors"
	"strings"

	"homewatch/internal/config"
	"homewatch/pkg/logx"
)

// ErrConnect marks transport or authentication failures reaching the
// database. The caller must not parse output when it sees this; the run is
// over.
var ErrConnect = errors.New("connection failed")

// Source fetches the check-in rows for one trailing window.
type Source interface {
	// Fetch returns the raw JSON array of check-in rows, or an empty
	// string when no rows matched the window.
	Fetch(ctx context.Context) (string, error)
}

// Open selects the configured driver.
func Open(cfg config.SensorsConfig, log logx.Logger) (Source, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "ssh":
		return newSSHSource(cfg, log)
	case "sqlite", "sqlite3":
		return newSQLiteSource(cfg, log)
	default:
		return nil, errors.New("unknown source driver: " + driver)
	}
}
