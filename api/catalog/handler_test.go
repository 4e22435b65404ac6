package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kilianp07/castplan/core/model"
)

type fakeCatalogs struct {
	err error
}

func (f fakeCatalogs) FetchPrograms(context.Context) ([]model.Program, error) {
	return []model.Program{{ID: "p1", Name: "モーニング"}}, f.err
}

func (f fakeCatalogs) FetchCasters(context.Context) ([]model.Caster, error) {
	return nil, f.err
}

func (f fakeCatalogs) FetchForecasters(context.Context) ([]model.Forecaster, error) {
	return []model.Forecaster{{ID: "f1", Name: "予報士X"}, {ID: "f2", Name: "予報士Y"}}, f.err
}

func TestProgramsHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewProgramsHandler(fakeCatalogs{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/programs", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	var out []model.Program
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p1" || out[0].Name != "モーニング" {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestCastersHandlerEncodesEmptyArray(t *testing.T) {
	rr := httptest.NewRecorder()
	NewCastersHandler(fakeCatalogs{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/casters", nil))
	if got := rr.Body.String(); got != "[]\n" {
		t.Fatalf("body %q", got)
	}
}

func TestForecastersHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewForecastersHandler(fakeCatalogs{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/forecasters", nil))
	var out []model.Forecaster
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestCatalogHandlerErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	NewProgramsHandler(fakeCatalogs{err: errors.New("down")}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/programs", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	NewProgramsHandler(fakeCatalogs{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/programs", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rr.Code)
	}
}
