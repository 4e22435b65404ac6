package session

import (
	"time"

	"github.com/kilianp07/castplan/core/logger"
	"github.com/kilianp07/castplan/core/metrics"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the sink receiving fetch, save and edit events.
func WithMetrics(m metrics.MetricsSink) Option {
	return func(s *Session) {
		if m != nil {
			s.sink = m
		}
	}
}

// WithEvents sets the publisher receiving session events.
func WithEvents(p Publisher) Option {
	return func(s *Session) {
		if p != nil {
			s.events = p
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
