// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[source.Source]()
//	reg.Register("http", func(conf map[string]any) (source.Source, error) {
//	    var c struct{ BaseURL string `json:"base_url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewHTTPSource(c.BaseURL), nil
//	})
//	src, err := reg.Create(factory.ModuleConfig{Type: "http", Conf: map[string]any{"base_url": "http://localhost:8080"}})
package factory
