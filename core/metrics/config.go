package metrics

import "github.com/kilianp07/castplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusPort exposes /metrics on a dedicated listener when non-empty.
	PrometheusPort string `json:"prometheus_port" yaml:"prometheus_port"`
}
