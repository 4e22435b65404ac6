// Package form renders the schedule form as server-side HTML and turns its
// submissions into session transitions.
package form

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/schedule"
	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/infra/logger"
)

//go:embed templates/page.html
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/page.html"))

// Status codes carried in the redirect after a POST.
const (
	StatusSaved      = "saved"
	StatusSaveFailed = "save_failed"
	StatusBusy       = "busy"
	StatusLoadFailed = "load_failed"
	StatusBadInput   = "bad_input"
)

var statusText = map[string]string{
	StatusSaved:      "保存しました",
	StatusSaveFailed: "保存に失敗しました",
	StatusBusy:       "処理中です",
	StatusLoadFailed: "読み込みに失敗しました",
	StatusBadInput:   "入力が正しくありません",
}

// Controller is the part of the session the form drives.
type Controller interface {
	Snapshot() session.State
	SelectDate(ctx context.Context, day model.Date) error
	Apply(e schedule.Edit) model.ScheduleRecord
	Save(ctx context.Context) error
}

// Handler serves the form page and its POST endpoints.
type Handler struct {
	ctl Controller
	log logger.Logger
	mux *http.ServeMux
}

// NewHandler returns the form handler for ctl.
func NewHandler(ctl Controller) *Handler {
	h := &Handler{ctl: ctl, log: logger.New("form"), mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.page)
	h.mux.HandleFunc("POST /form/date", h.selectDate)
	h.mux.HandleFunc("POST /form/edit", h.edit)
	h.mux.HandleFunc("POST /form/save", h.save)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type row struct {
	Program      model.Program
	CasterID     string
	ForecasterID string
	Crosstalk    bool
}

type view struct {
	Date         string
	Status       string
	Loading      bool
	SaveDisabled bool
	Rows         []row
	Casters      []model.Caster
	Forecasters  []model.Forecaster
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	st := h.ctl.Snapshot()
	v := view{
		Date:         st.Date.String(),
		Status:       statusText[r.URL.Query().Get("status")],
		Loading:      st.Loading,
		SaveDisabled: st.Loading || st.Saving,
		Casters:      st.Catalogs.Casters,
		Forecasters:  st.Catalogs.Forecasters,
		Rows:         make([]row, 0, len(st.Catalogs.Programs)),
	}
	for _, p := range st.Catalogs.Programs {
		rec, _ := schedule.Find(st.Schedule, p.ID)
		v.Rows = append(v.Rows, row{
			Program:      p,
			CasterID:     rec.Caster(),
			ForecasterID: rec.Forecaster(),
			Crosstalk:    rec.HasCrosstalk,
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		h.log.Errorf("render form: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) selectDate(w http.ResponseWriter, r *http.Request) {
	day, err := model.ParseDate(r.FormValue("date"))
	if err != nil {
		redirect(w, r, StatusBadInput)
		return
	}
	if err := h.ctl.SelectDate(r.Context(), day); err != nil {
		redirect(w, r, StatusLoadFailed)
		return
	}
	redirect(w, r, "")
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	program := r.FormValue("program")
	if program == "" {
		redirect(w, r, StatusBadInput)
		return
	}
	e, err := schedule.ParseEdit(program, r.FormValue("field"), r.FormValue("value"))
	if err != nil {
		h.log.Warnf("edit rejected: %v", err)
		redirect(w, r, StatusBadInput)
		return
	}
	h.ctl.Apply(e)
	redirect(w, r, "")
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	err := h.ctl.Save(r.Context())
	switch {
	case err == nil:
		redirect(w, r, StatusSaved)
	case errors.Is(err, session.ErrSaveInProgress), errors.Is(err, session.ErrLoading):
		redirect(w, r, StatusBusy)
	default:
		redirect(w, r, StatusSaveFailed)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, status string) {
	target := "/"
	if status != "" {
		target += "?" + url.Values{"status": {status}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
