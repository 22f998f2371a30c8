package report

import (
	"context"
)

// Sink receives the statistics of a finished run.
type Sink interface {
	Name() string
	Publish(ctx context.Context, st Stats) error
}

// Logger is the logging surface used by Publish.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Publish hands st to every sink in order. Failures are logged as warnings
// and do not stop the remaining sinks. It returns the number of sinks that
// failed.
func Publish(ctx context.Context, log Logger, st Stats, sinks ...Sink) int {
	failed := 0
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, st); err != nil {
			failed++
			log.Warn("report sink failed", "sink", s.Name(), "error", err)
			continue
		}
		log.Info("report published", "sink", s.Name())
	}
	return failed
}
