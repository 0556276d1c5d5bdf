package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"homewatch/internal/checkin"
	"homewatch/internal/config"
	"homewatch/pkg/logx"
)

// sqliteSource reads the database file directly, for runs on the DB host
// itself. It emits the same JSON shape the sqlite3 CLI prints so the rest of
// the pipeline can't tell the drivers apart.
type sqliteSource struct {
	cfg config.SensorsConfig
	log logx.Logger
}

func newSQLiteSource(cfg config.SensorsConfig, log logx.Logger) (Source, error) {
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return nil, errors.New("sqlite source requires a database path")
	}
	return &sqliteSource{cfg: cfg, log: log}, nil
}

func (s *sqliteSource) Fetch(ctx context.Context) (string, error) {
	// Read-only open: the sensors own this database, we only look at it.
	dsn := "file:" + s.cfg.DatabasePath + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrConnect, s.cfg.DatabasePath, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	query := BuildQuery(time.Now(), s.cfg.Window())
	s.log.Debug("running local query", logx.String("db", s.cfg.DatabasePath))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: query %s: %v", ErrConnect, s.cfg.DatabasePath, err)
	}
	defer rows.Close()

	var records []checkin.Record
	for rows.Next() {
		var r checkin.Record
		if err := rows.Scan(&r.MAC, &r.Location, &r.Timestamp); err != nil {
			return "", fmt.Errorf("scan check-in row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: read rows: %v", ErrConnect, err)
	}

	// Match the CLI: no rows means no output at all.
	if len(records) == 0 {
		return "", nil
	}
	out, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode check-in rows: %w", err)
	}
	return string(out), nil
}
