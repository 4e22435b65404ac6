// Package api assembles the HTTP surface of the castplan server.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kilianp07/castplan/api/catalog"
	"github.com/kilianp07/castplan/api/form"
	apijournal "github.com/kilianp07/castplan/api/journal"
	"github.com/kilianp07/castplan/api/middleware"
	"github.com/kilianp07/castplan/api/schedule"
	"github.com/kilianp07/castplan/core/journal"
	"github.com/kilianp07/castplan/core/source"
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Source source.Source
	// Form is optional; without it only the JSON API is served.
	Form    form.Controller
	Logger  *zerolog.Logger
	Metrics *middleware.Metrics
	// Journal is mounted at /api/journal when set.
	Journal      journal.Store
	JournalToken string
	// Exposition is mounted at /metrics when set.
	Exposition http.Handler
}

// NewRouter returns the application handler with middleware applied.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	m := d.Metrics
	mux.Handle("GET /api/programs", m.Route("programs", catalog.NewProgramsHandler(d.Source)))
	mux.Handle("GET /api/casters", m.Route("casters", catalog.NewCastersHandler(d.Source)))
	mux.Handle("GET /api/forecasters", m.Route("forecasters", catalog.NewForecastersHandler(d.Source)))
	mux.Handle("/api/schedule", m.Route("schedule", schedule.NewHandler(d.Source)))
	if d.Journal != nil {
		mux.Handle("GET /api/journal", m.Route("journal", apijournal.NewHandler(d.Journal, d.JournalToken)))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if d.Exposition != nil {
		mux.Handle("GET /metrics", d.Exposition)
	}
	if d.Form != nil {
		fh := m.Route("form", form.NewHandler(d.Form))
		mux.Handle("GET /{$}", fh)
		mux.Handle("POST /form/", fh)
	}

	log := d.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recovery(log),
	)(mux)
}
