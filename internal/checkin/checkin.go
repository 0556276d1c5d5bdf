// Package checkin analyzes sensor check-in rows for silent sensors.
//
// The input is the JSON array produced by `sqlite3 -json` over the
// temp_humidity table: one row per check-in with the sensor's MAC address,
// its location, and a naive UTC-ish timestamp. Rows are already filtered to
// the trailing window by the query; this package only counts and compares.
package checkin

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one check-in row. Timestamp stays an opaque string; the analysis
// never interprets it (the query already applied the window cutoff).
type Record struct {
	MAC       string `json:"mac"`
	Location  string `json:"location"`
	Timestamp string `json:"timestamp"`
}

// Stat is the per-sensor tally over one window, in first-seen input order.
//
// Location is the location of the sensor's first row. Locations counts the
// distinct locations the sensor reported from; anything above 1 means the
// sensor moved mid-window and the first-location-wins rule applied.
type Stat struct {
	MAC       string
	Location  string
	Count     int
	Locations int
}

// Missing identifies a sensor whose check-in count fell below the minimum.
type Missing struct {
	MAC      string
	Location string
}

const unknownLocation = "unknown location"

// ParseRecords decodes the raw query output. Empty or whitespace-only input
// means no rows matched and yields (nil, nil); the caller treats that as the
// distinct "no data at all" condition before ever calling this.
func ParseRecords(raw string) ([]Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("parse check-in rows: %w", err)
	}
	return records, nil
}

// Tally groups records by MAC and counts check-ins, preserving first-seen
// input order so identical input always yields identical output. Rows
// without a MAC are skipped.
func Tally(records []Record) []Stat {
	index := make(map[string]int, len(records))
	seen := make(map[string]map[string]struct{}, len(records))
	stats := make([]Stat, 0, len(records))

	for _, r := range records {
		if r.MAC == "" {
			continue
		}
		i, ok := index[r.MAC]
		if !ok {
			loc := r.Location
			if loc == "" {
				loc = unknownLocation
			}
			i = len(stats)
			index[r.MAC] = i
			seen[r.MAC] = make(map[string]struct{}, 1)
			stats = append(stats, Stat{MAC: r.MAC, Location: loc})
		}
		stats[i].Count++
		seen[r.MAC][r.Location] = struct{}{}
		stats[i].Locations = len(seen[r.MAC])
	}
	return stats
}

// Analyze returns the sensors with fewer than minCount check-ins, each paired
// with its first-seen location, in first-seen input order. Empty input yields
// an empty result.
func Analyze(records []Record, minCount int) []Missing {
	var missing []Missing
	for _, st := range Tally(records) {
		if st.Count < minCount {
			missing = append(missing, Missing{MAC: st.MAC, Location: st.Location})
		}
	}
	return missing
}
