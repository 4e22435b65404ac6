package journal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kilianp07/castplan/core/journal"
	"github.com/kilianp07/castplan/core/model"
)

// NewHandler returns an HTTP handler exposing the save journal via GET /api/journal.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
//
// Query parameters: from and to (YYYY-MM-DD, inclusive), program and failed.
func NewHandler(store journal.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entries, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func parseQuery(r *http.Request) (journal.Query, error) {
	v := r.URL.Query()
	q := journal.Query{ProgramID: v.Get("program")}
	var err error
	if s := v.Get("from"); s != "" {
		if q.From, err = model.ParseDate(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("to"); s != "" {
		if q.To, err = model.ParseDate(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("failed"); s != "" {
		if q.Failed, err = strconv.ParseBool(s); err != nil {
			return q, err
		}
	}
	return q, nil
}
