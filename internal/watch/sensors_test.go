package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"homewatch/internal/config"
	"homewatch/internal/notify"
	"homewatch/internal/source"
	"homewatch/pkg/logx"
)

type recordingSink struct {
	got []notify.Message
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Send(_ context.Context, msg notify.Message) error {
	r.got = append(r.got, msg)
	return nil
}

type fakeSource struct {
	raw string
	err error
}

func (f fakeSource) Fetch(context.Context) (string, error) { return f.raw, f.err }

func sensorConfig() *config.Config {
	return &config.Config{
		Sensors: config.SensorsConfig{
			Topic:         "sensors",
			WindowMinutes: 45,
			MinCheckins:   2,
		},
	}
}

func row(mac, loc, ts string) string {
	return fmt.Sprintf(`{"mac":%q,"location":%q,"timestamp":%q}`, mac, loc, ts)
}

func TestSensorsConnectionErrorIsFatal(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	svc := notify.NewService(logx.Nop(), sink)
	src := fakeSource{err: fmt.Errorf("%w: dial db-host:22: refused", source.ErrConnect)}

	code := Sensors(context.Background(), sensorConfig(), logx.Nop(), svc, src)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(sink.got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sink.got))
	}
	msg := sink.got[0]
	if msg.Priority != notify.PriorityHigh {
		t.Fatalf("priority = %v, want high", msg.Priority)
	}
	if len(msg.Tags) != 1 || msg.Tags[0] != "skull" {
		t.Fatalf("tags = %v, want [skull]", msg.Tags)
	}
}

func TestSensorsEmptyWindowAlertsOffline(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	svc := notify.NewService(logx.Nop(), sink)

	code := Sensors(context.Background(), sensorConfig(), logx.Nop(), svc, fakeSource{raw: "  \n"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(sink.got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sink.got))
	}
	msg := sink.got[0]
	if msg.Priority != notify.PriorityHigh {
		t.Fatalf("priority = %v, want high", msg.Priority)
	}
	if !strings.Contains(msg.Body, "last 45 minutes") {
		t.Fatalf("body does not mention the window: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "offline") {
		t.Fatalf("body does not flag the offline condition: %q", msg.Body)
	}
}

func TestSensorsMissingCheckinsAlert(t *testing.T) {
	t.Parallel()

	raw := "[" + strings.Join([]string{
		row("A", "wine", "2025-06-30 00:01:55.000000"),
		row("A", "wine", "2025-06-30 00:17:32.000000"),
		row("A", "wine", "2025-06-30 00:33:09.000000"),
		row("B", "attic", "2025-06-30 00:05:00.000000"),
	}, ",") + "]"

	sink := &recordingSink{}
	svc := notify.NewService(logx.Nop(), sink)

	code := Sensors(context.Background(), sensorConfig(), logx.Nop(), svc, fakeSource{raw: raw})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(sink.got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sink.got))
	}
	msg := sink.got[0]
	if msg.Priority != notify.PriorityLow {
		t.Fatalf("priority = %v, want low", msg.Priority)
	}
	if !strings.Contains(msg.Body, "B (attic)") {
		t.Fatalf("body missing quiet sensor: %q", msg.Body)
	}
	if strings.Contains(msg.Body, "A (wine)") {
		t.Fatalf("healthy sensor reported as missing: %q", msg.Body)
	}
}

func TestSensorsAllHealthyStaysQuiet(t *testing.T) {
	t.Parallel()

	raw := "[" + strings.Join([]string{
		row("A", "wine", "2025-06-30 00:01:55.000000"),
		row("A", "wine", "2025-06-30 00:17:32.000000"),
	}, ",") + "]"

	sink := &recordingSink{}
	svc := notify.NewService(logx.Nop(), sink)

	code := Sensors(context.Background(), sensorConfig(), logx.Nop(), svc, fakeSource{raw: raw})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(sink.got) != 0 {
		t.Fatalf("expected no notifications, got %v", sink.got)
	}
}

func TestSensorsMalformedRowsDegradeQuietly(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	svc := notify.NewService(logx.Nop(), sink)

	code := Sensors(context.Background(), sensorConfig(), logx.Nop(), svc, fakeSource{raw: `[{"mac": busted`})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(sink.got) != 0 {
		t.Fatalf("expected no notifications for malformed rows, got %v", sink.got)
	}
}

func TestSensorsErrConnectSentinelSurvivesWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("%w: handshake failed", source.ErrConnect)
	if !errors.Is(err, source.ErrConnect) {
		t.Fatal("wrapped connection error lost its sentinel")
	}
}
