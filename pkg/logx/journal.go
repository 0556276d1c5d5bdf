package logx

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
)

// journalWriter is a zerolog sink that forwards log lines to systemd-journald.
//
// The journal keeps its own timestamps, so the zerolog "time" field is
// dropped; remaining fields become uppercased journal variables.
type journalWriter struct{}

func (journalWriter) Write(p []byte) (int, error) {
	// Default to info when WriteLevel isn't used.
	return journalWriter{}.WriteLevel(zerolog.InfoLevel, p)
}

func (journalWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	msg, vars := splitJournalLine(p)
	if msg == "" {
		return len(p), nil
	}
	_ = journal.Send(msg, journalPriority(level), vars)
	return len(p), nil
}

func journalPriority(level zerolog.Level) journal.Priority {
	switch {
	case level >= zerolog.ErrorLevel:
		return journal.PriErr
	case level >= zerolog.WarnLevel:
		return journal.PriWarning
	case level >= zerolog.InfoLevel:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// splitJournalLine decodes one zerolog JSON line into a message plus
// journal variables. Non-JSON input is passed through as-is.
func splitJournalLine(p []byte) (string, map[string]string) {
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		return strings.TrimSpace(string(p)), nil
	}

	msg, _ := m["message"].(string)
	vars := make(map[string]string, len(m))
	for k, v := range m {
		switch k {
		case "time", "level", "message":
			continue
		}
		key := strings.ToUpper(strings.Map(journalSafe, k))
		if key == "" {
			continue
		}
		vars[key] = fmt.Sprint(v)
	}
	if len(vars) == 0 {
		vars = nil
	}
	return msg, vars
}

// journalSafe maps runes to the A-Z0-9_ alphabet journald field names require.
func journalSafe(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return r
	default:
		return '_'
	}
}
