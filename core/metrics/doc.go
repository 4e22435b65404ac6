// Package metrics defines the recorders fed by the schedule session: catalog
// and schedule fetches, saves and edits. Sinks like PromSink and InfluxSink
// live in infra/metrics and can be combined with NewMultiSink. The factory
// helpers return a MultiSink automatically when multiple sinks are configured.
package metrics
