// Package app wires the castplan server: data source, session, metrics,
// notifications and the HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/castplan/api"
	"github.com/kilianp07/castplan/api/middleware"
	"github.com/kilianp07/castplan/config"
	"github.com/kilianp07/castplan/core/journal"
	coremetrics "github.com/kilianp07/castplan/core/metrics"
	"github.com/kilianp07/castplan/core/model"
	coremon "github.com/kilianp07/castplan/core/monitoring"
	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/core/source"
	"github.com/kilianp07/castplan/infra/logger"
	"github.com/kilianp07/castplan/infra/metrics"
	"github.com/kilianp07/castplan/infra/monitoring"
	"github.com/kilianp07/castplan/infra/mqtt"
	_ "github.com/kilianp07/castplan/infra/source"
	"github.com/kilianp07/castplan/internal/eventbus"
)

// Service owns the long-lived components of castplan serve.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	src     source.Source
	journal journal.Store
	sink    coremetrics.MetricsSink
	bus     *eventbus.Bus[session.Event]
	session *session.Session
	mqtt    *mqtt.PahoPublisher
	handler http.Handler
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	store, err := openJournal(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	if store != nil {
		src = journal.WrapSource(src, store, logger.New("journal"))
	}
	var pub *mqtt.PahoPublisher
	if cfg.MQTT.Broker != "" {
		pub, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		notifier := mqtt.NewNotifier(pub, cfg.MQTT.TopicPrefix).WithRateLimit(cfg.MQTT.RatePerSec)
		src = notifier.WrapSource(src)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New[session.Event](0)
	sess := session.New(src, model.Today(),
		session.WithLogger(logger.New("session")),
		session.WithMetrics(sink),
		session.WithEvents(bus),
	)

	svc := &Service{
		cfg: cfg, log: logg, src: src, journal: store, sink: sink, bus: bus, session: sess,
		mqtt: pub,
	}

	httpMetrics, err := middleware.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}
	deps := api.Deps{
		Source:  src,
		Logger:  logger.Zerolog("http"),
		Metrics: httpMetrics,

		Journal:      store,
		JournalToken: cfg.Journal.Token,
	}
	if !cfg.Server.DisableForm {
		deps.Form = sess
	}
	if cfg.Metrics.PrometheusPort == "" {
		deps.Exposition = promhttp.Handler()
	}
	svc.handler = api.NewRouter(deps)
	return svc, nil
}

// Handler returns the HTTP handler served by Run.
func (s *Service) Handler() http.Handler { return s.handler }

// Session returns the form state shared by the HTTP handlers.
func (s *Service) Session() *session.Session { return s.session }

// Run starts the background workers and the HTTP server and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if ec := eventCounter(s.sink); ec != nil {
		metrics.StartEventCollector(ctx, s.bus, ec)
	}
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go func() {
		if err := s.session.Start(ctx); err != nil {
			s.log.Warnf("initial load: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if m, ok := s.sink.(*coremetrics.MultiSink); ok {
		for _, sub := range m.Sinks {
			if c, ok := sub.(interface{ Close() }); ok {
				c.Close()
			}
		}
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.log.Errorf("journal close: %v", err)
		}
	}
	coremon.Flush(2 * time.Second)
	if d := s.bus.Dropped(); d > 0 {
		s.log.Warnf("%d session events were dropped by slow subscribers", d)
	}
	return nil
}

func eventCounter(sink coremetrics.MetricsSink) metrics.EventCounter {
	if ec, ok := sink.(metrics.EventCounter); ok {
		return ec
	}
	if m, ok := sink.(*coremetrics.MultiSink); ok {
		for _, sub := range m.Sinks {
			if ec, ok := sub.(metrics.EventCounter); ok {
				return ec
			}
		}
	}
	return nil
}
