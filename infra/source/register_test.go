package source

import (
	"testing"

	"github.com/kilianp07/castplan/core/factory"
	coresource "github.com/kilianp07/castplan/core/source"
)

func TestRegistryBuiltins(t *testing.T) {
	s, err := coresource.New(factory.ModuleConfig{Conf: map[string]any{"save_delay": "0s"}})
	if err != nil {
		t.Fatalf("stub: %v", err)
	}
	stub, ok := s.(*Stub)
	if !ok {
		t.Fatalf("expected *Stub got %T", s)
	}
	if stub.cfg.SaveDelay != 0 || stub.cfg.CatalogDelay == 0 {
		t.Fatalf("defaults not merged: %#v", stub.cfg)
	}

	h, err := coresource.New(factory.ModuleConfig{Type: "http", Conf: map[string]any{"base_url": "http://localhost:8080", "timeout": "2s"}})
	if err != nil {
		t.Fatalf("http: %v", err)
	}
	if _, ok := h.(*HTTPSource); !ok {
		t.Fatalf("expected *HTTPSource got %T", h)
	}
	if _, err := coresource.New(factory.ModuleConfig{Type: "grpc"}); err == nil {
		t.Fatal("expected unknown type error")
	}
}
