package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/castplan/config"
	coremon "github.com/kilianp07/castplan/core/monitoring"
)

// NewSentryMonitor initializes Sentry and returns a Monitor reporting
// data-access failures. An empty DSN yields a NopMonitor.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		ServerName:       "castplan",
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{}, nil
}

type sentryMonitor struct{}

// CaptureException reports err unless it only records an abandoned request:
// a superseded schedule fetch or a client that went away.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if !reportable(err) {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func (s *sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }

func reportable(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}
