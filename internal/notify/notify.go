// Package notify delivers best-effort push notifications.
//
// Delivery failures surface as Result values for the orchestrator to log;
// they never propagate as errors, so a failing notification cannot abort a
// run or be mistaken for the condition it was reporting.
package notify

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"homewatch/pkg/logx"
)

// Priority follows the ntfy scale the original scripts used: 0 lowest,
// 4 highest, 3 "normal". The zero value of a Message means "unset" and is
// sent as PriorityDefault.
type Priority int

const (
	PriorityLow     Priority = 2
	PriorityDefault Priority = 3
	PriorityHigh    Priority = 4
)

func (p Priority) String() string {
	if p <= 0 || p > PriorityHigh {
		return strconv.Itoa(int(PriorityDefault))
	}
	return strconv.Itoa(int(p))
}

// Message is one notification. Tags are sink-specific hints (ntfy renders
// them as emojis); Click is an optional URL to open on tap.
type Message struct {
	Title    string
	Body     string
	Tags     []string
	Priority Priority
	Click    string
}

// Sink delivers a Message over one channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Result reports one sink's delivery outcome.
type Result struct {
	Sink string
	Err  error
}

func (r Result) OK() bool { return r.Err == nil }

// Service fans a message out to every configured sink.
type Service struct {
	sinks   []Sink
	limiter *rate.Limiter
	log     logx.Logger
}

func NewService(log logx.Logger, sinks ...Sink) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		sinks: sinks,
		// Single-shot runs send at most a couple of messages; the limiter
		// only guards against a future caller looping by mistake.
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
		log:     log,
	}
}

// Publish delivers msg to every sink, best effort. Failures are logged and
// reported per sink; Publish itself never fails.
func (s *Service) Publish(ctx context.Context, msg Message) []Result {
	results := make([]Result, 0, len(s.sinks))
	for _, sink := range s.sinks {
		if err := s.limiter.Wait(ctx); err != nil {
			results = append(results, Result{Sink: sink.Name(), Err: err})
			continue
		}
		err := sink.Send(ctx, msg)
		if err != nil {
			s.log.Warn("notification send failed",
				logx.String("sink", sink.Name()), logx.String("title", msg.Title), logx.Err(err))
		} else {
			s.log.Info("notification sent",
				logx.String("sink", sink.Name()), logx.String("title", msg.Title),
				logx.String("priority", msg.Priority.String()))
		}
		results = append(results, Result{Sink: sink.Name(), Err: err})
	}
	return results
}
