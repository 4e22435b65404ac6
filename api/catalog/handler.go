// Package catalog exposes the program, caster and forecaster lists over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kilianp07/castplan/core/source"
)

// NewProgramsHandler serves GET /api/programs.
func NewProgramsHandler(src source.CatalogSource) http.Handler {
	return listHandler(src.FetchPrograms)
}

// NewCastersHandler serves GET /api/casters.
func NewCastersHandler(src source.CatalogSource) http.Handler {
	return listHandler(src.FetchCasters)
}

// NewForecastersHandler serves GET /api/forecasters.
func NewForecastersHandler(src source.CatalogSource) http.Handler {
	return listHandler(src.FetchForecasters)
}

func listHandler[T any](fetch func(context.Context) ([]T, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		items, err := fetch(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		if items == nil {
			items = []T{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(items); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
