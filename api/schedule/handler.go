// Package schedule exposes the schedule of a day over HTTP.
package schedule

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/castplan/core/model"
	coreschedule "github.com/kilianp07/castplan/core/schedule"
	"github.com/kilianp07/castplan/core/source"
	"github.com/kilianp07/castplan/infra/logger"
)

const maxBody = 1 << 20

// NewHandler serves GET and PUT /api/schedule?date=YYYY-MM-DD.
//
// GET returns the records of the day. PUT replaces them with the JSON array in
// the body and answers 204. Malformed dates or bodies and duplicate program
// ids are rejected with 400; source failures map to 502.
func NewHandler(src source.ScheduleSource) http.Handler {
	log := logger.New("api_schedule")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		day, err := model.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet:
			recs, err := src.FetchSchedule(r.Context(), day)
			if err != nil {
				log.Errorf("fetch schedule %s: %v", day, err)
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			if recs == nil {
				recs = []model.ScheduleRecord{}
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(recs); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		case http.MethodPut:
			var recs []model.ScheduleRecord
			dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
			if err := dec.Decode(&recs); err != nil {
				http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
				return
			}
			if recs == nil {
				http.Error(w, "invalid body: expected an array", http.StatusBadRequest)
				return
			}
			if err := coreschedule.Validate(recs); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := src.SaveSchedule(r.Context(), day, recs); err != nil {
				log.Errorf("save schedule %s: %v", day, err)
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Allow", "GET, PUT")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
