package source

import (
	"fmt"
	"time"
)

// cutoffFormat matches the second-resolution DATETIME strings the sensors
// write; SQLite compares them lexically, which is why the layout matters.
const cutoffFormat = "2006-01-02 15:04:05"

// BuildQuery returns the window query for the temp_humidity table. The
// cutoff is computed in UTC to match the sensors' CURRENT_TIMESTAMP default.
func BuildQuery(now time.Time, window time.Duration) string {
	cutoff := now.UTC().Add(-window).Format(cutoffFormat)
	return fmt.Sprintf(
		"SELECT mac, location, timestamp FROM temp_humidity WHERE timestamp >= '%s' ORDER BY mac, timestamp",
		cutoff,
	)
}
