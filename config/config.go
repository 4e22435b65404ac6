package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/castplan/core/factory"
	"github.com/kilianp07/castplan/core/metrics"
	"github.com/kilianp07/castplan/infra/mqtt"
)

// DefaultSourceType is used when source.type is left empty.
const DefaultSourceType = "stub"

type Config struct {
	Server  ServerConfig         `json:"server"`
	Source  factory.ModuleConfig `json:"source"`
	Metrics metrics.Config       `json:"metrics"`
	// MQTT is enabled when a broker is set.
	MQTT    mqtt.Config   `json:"mqtt"`
	Journal JournalConfig `json:"journal"`
	Logging LoggingConfig `json:"logging"`
	Sentry  SentryConfig  `json:"sentry"`
}

// Load reads the configuration file at path and applies K_ prefixed
// environment overrides, K_SERVER__ADDRESS setting server.address for
// example. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides. The callback maps K_SERVER__ADDRESS to
	// server.address, so the provider splits on ".".
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section's defaults.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Journal.SetDefaults()
	c.Logging.SetDefaults()
	if c.Source.Type == "" {
		c.Source.Type = DefaultSourceType
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Source.Type == "http" {
		if u, _ := c.Source.Conf["base_url"].(string); u == "" {
			return fmt.Errorf("source: http requires conf.base_url")
		}
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics: sink %d has no type", i)
		}
	}
	if c.MQTT.UseTLS && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: use_tls requires a broker")
	}
	return nil
}
