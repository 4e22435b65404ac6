package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kilianp07/castplan/core/model"
	coresource "github.com/kilianp07/castplan/core/source"
)

// HTTPConfig points the client at a castplan API.
type HTTPConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// HTTPSource implements the source contract against the JSON API served by api/catalog and api/schedule.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates a client for the API rooted at cfg.BaseURL.
func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("base_url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPSource{
		base:   strings.TrimSuffix(cfg.BaseURL, "/"),
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (h *HTTPSource) FetchPrograms(ctx context.Context) ([]model.Program, error) {
	var out []model.Program
	if err := h.do(ctx, http.MethodGet, "/api/programs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPSource) FetchCasters(ctx context.Context) ([]model.Caster, error) {
	var out []model.Caster
	if err := h.do(ctx, http.MethodGet, "/api/casters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPSource) FetchForecasters(ctx context.Context) ([]model.Forecaster, error) {
	var out []model.Forecaster
	if err := h.do(ctx, http.MethodGet, "/api/forecasters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPSource) FetchSchedule(ctx context.Context, day model.Date) ([]model.ScheduleRecord, error) {
	out := []model.ScheduleRecord{}
	if err := h.do(ctx, http.MethodGet, schedulePath(day), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.ScheduleRecord{}
	}
	return out, nil
}

func (h *HTTPSource) SaveSchedule(ctx context.Context, day model.Date, records []model.ScheduleRecord) error {
	if records == nil {
		records = []model.ScheduleRecord{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return h.do(ctx, http.MethodPut, schedulePath(day), body, nil)
}

func schedulePath(day model.Date) string {
	return "/api/schedule?date=" + url.QueryEscape(day.String())
}

func (h *HTTPSource) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", coresource.ErrUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", coresource.ErrUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
