package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/castplan/core/metrics"
)

// PromSink records schedule form activity in Prometheus metrics.
type PromSink struct {
	fetches   *prometheus.CounterVec
	fetchTime *prometheus.HistogramVec
	saves     *prometheus.CounterVec
	saveTime  prometheus.Histogram
	edits     *prometheus.CounterVec
	records   prometheus.Gauge
	events    *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately, see StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castplan_fetch_total",
			Help: "Data source reads by resource and outcome",
		}, []string{"resource", "success", "stale"}),
		fetchTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "castplan_fetch_duration_seconds",
			Help:    "Duration of data source reads",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castplan_save_total",
			Help: "Schedule submissions by outcome",
		}, []string{"success"}),
		saveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "castplan_save_duration_seconds",
			Help:    "Duration of schedule submissions",
			Buckets: prometheus.DefBuckets,
		}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castplan_edit_total",
			Help: "Reconciled schedule edits by field",
		}, []string{"field", "appended"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "castplan_saved_records",
			Help: "Number of records in the last successful save",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castplan_session_events_total",
			Help: "Session events seen on the event bus",
		}, []string{"kind"}),
	}

	var err error
	if s.fetches, err = register(reg, s.fetches); err != nil {
		return nil, err
	}
	if s.fetchTime, err = register(reg, s.fetchTime); err != nil {
		return nil, err
	}
	if s.saves, err = register(reg, s.saves); err != nil {
		return nil, err
	}
	if s.saveTime, err = register(reg, s.saveTime); err != nil {
		return nil, err
	}
	if s.edits, err = register(reg, s.edits); err != nil {
		return nil, err
	}
	if s.records, err = register(reg, s.records); err != nil {
		return nil, err
	}
	if s.events, err = register(reg, s.events); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordFetch counts the read and observes its duration.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.fetches.WithLabelValues(ev.Resource, strconv.FormatBool(ev.Success), strconv.FormatBool(ev.Stale)).Inc()
	s.fetchTime.WithLabelValues(ev.Resource).Observe(ev.Duration.Seconds())
	return nil
}

// RecordSave counts the submission and tracks the size of successful ones.
func (s *PromSink) RecordSave(ev coremetrics.SaveEvent) error {
	s.saves.WithLabelValues(strconv.FormatBool(ev.Success)).Inc()
	s.saveTime.Observe(ev.Duration.Seconds())
	if ev.Success {
		s.records.Set(float64(ev.Records))
	}
	return nil
}

// RecordEdit counts reconciled edits.
func (s *PromSink) RecordEdit(ev coremetrics.EditEvent) error {
	s.edits.WithLabelValues(ev.Field, strconv.FormatBool(ev.Appended)).Inc()
	return nil
}

// CountEvent increments the session event counter.
func (s *PromSink) CountEvent(kind string) {
	s.events.WithLabelValues(kind).Inc()
}
