package source

import "github.com/kilianp07/castplan/core/factory"

var registry = factory.NewRegistry[Source]()

// Register adds a source factory identified by name.
func Register(name string, f factory.Factory[Source]) error {
	return registry.Register(name, f)
}

// New creates the Source described by cfg. An empty type selects "stub".
func New(cfg factory.ModuleConfig) (Source, error) {
	if cfg.Type == "" {
		cfg.Type = "stub"
	}
	return registry.Create(cfg)
}
