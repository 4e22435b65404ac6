package source

import (
	"github.com/kilianp07/castplan/core/factory"
	coresource "github.com/kilianp07/castplan/core/source"
)

// init registers the built-in data sources.
func init() {
	_ = coresource.Register("stub", func(conf map[string]any) (coresource.Source, error) {
		c := DefaultStubConfig()
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewStub(c), nil
	})

	_ = coresource.Register("http", func(conf map[string]any) (coresource.Source, error) {
		var c HTTPConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewHTTPSource(c)
	})
}
