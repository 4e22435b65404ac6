package metrics

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFetch forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordFetch(ev FetchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordFetch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSave forwards save events.
func (m *MultiSink) RecordSave(ev SaveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSave(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEdit forwards edit events when supported by the sink.
func (m *MultiSink) RecordEdit(ev EditEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(EditRecorder); ok {
			if err := rec.RecordEdit(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
