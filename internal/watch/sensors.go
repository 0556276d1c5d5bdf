package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homewatch/internal/checkin"
	"homewatch/internal/config"
	"homewatch/internal/notify"
	"homewatch/internal/source"
	"homewatch/pkg/logx"
)

const sensorAlertTitle = "Sensor Check-in Alert"

// Sensors runs one sensor check-in pass and returns the process exit code:
// 0 on a completed evaluation (even when sensors are missing — that is what
// the notification is for), 1 when the database could not be reached.
func Sensors(ctx context.Context, cfg *config.Config, log logx.Logger, notifier *notify.Service, src source.Source) int {
	window := cfg.Sensors.Window()
	log.Info("querying check-ins",
		logx.Time("since", time.Now().UTC().Add(-window)),
		logx.Duration("window", window))

	raw, err := src.Fetch(ctx)
	if err != nil {
		log.Error("sensor query failed", logx.Err(err))
		notifier.Publish(ctx, notify.Message{
			Title:    sensorAlertTitle,
			Body:     "Could not query the sensor database: " + err.Error(),
			Priority: notify.PriorityHigh,
			Tags:     []string{"skull"},
		})
		return 1
	}

	if strings.TrimSpace(raw) == "" {
		log.Warn("no check-ins in window, all sensors may be offline",
			logx.Int("window_minutes", windowMinutes(cfg)))
		notifier.Publish(ctx, notify.Message{
			Title: sensorAlertTitle,
			Body: fmt.Sprintf("No sensor data received in the last %d minutes. All sensors may be offline.",
				windowMinutes(cfg)),
			Priority: notify.PriorityHigh,
			Tags:     []string{"warning", "thermometer"},
		})
		return 0
	}

	records, err := checkin.ParseRecords(raw)
	if err != nil {
		// Degrade to zero records; a garbled query result should read as
		// "nothing to report", not crash the run.
		log.Error("malformed rows from database", logx.Err(err))
	}

	stats := checkin.Tally(records)
	for _, st := range stats {
		log.Info("sensor tally",
			logx.String("mac", st.MAC),
			logx.String("location", st.Location),
			logx.Int("checkins", st.Count))
		if st.Locations > 1 {
			log.Warn("sensor reported from multiple locations, keeping first",
				logx.String("mac", st.MAC),
				logx.Int("locations", st.Locations))
		}
	}

	missing := checkin.Analyze(records, cfg.Sensors.MinCheckins)
	if len(missing) == 0 {
		log.Info("all sensors have sufficient check-ins",
			logx.Int("sensors", len(stats)),
			logx.Int("min_checkins", cfg.Sensors.MinCheckins))
		return 0
	}

	lines := make([]string, 0, len(missing))
	for _, m := range missing {
		lines = append(lines, fmt.Sprintf("%s (%s)", m.MAC, m.Location))
	}
	log.Warn("missing check-ins detected", logx.Int("sensors", len(missing)))
	notifier.Publish(ctx, notify.Message{
		Title: sensorAlertTitle,
		Body: fmt.Sprintf("Missing check-ins detected for %d sensor(s):\n%s",
			len(missing), strings.Join(lines, "\n")),
		Priority: notify.PriorityLow,
		Tags:     []string{"warning", "thermometer"},
	})
	return 0
}

func windowMinutes(cfg *config.Config) int {
	return int(cfg.Sensors.Window() / time.Minute)
}
