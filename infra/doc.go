// Package infra holds the adapters behind the core contracts: the stub and
// HTTP data sources, the Prometheus and InfluxDB metrics sinks, the MQTT save
// notifier, Sentry monitoring and zerolog logging.
package infra
