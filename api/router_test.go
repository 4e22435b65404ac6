package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/castplan/api/middleware"
	"github.com/kilianp07/castplan/core/journal"
	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/core/source"
	"github.com/kilianp07/castplan/infra/logger"
	"github.com/kilianp07/castplan/infra/mqtt"
	infrasource "github.com/kilianp07/castplan/infra/source"
)

func newServer(t *testing.T, withForm bool) *httptest.Server {
	t.Helper()
	stub := infrasource.NewStub(infrasource.StubConfig{})
	m, err := middleware.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	d := Deps{Source: stub, Metrics: m}
	if withForm {
		s := session.New(stub, model.Date{Year: 2025, Month: time.May, Day: 2})
		require.NoError(t, s.Start(context.Background()))
		d.Form = s
	}
	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterHealthz(t *testing.T) {
	srv := newServer(t, false)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRouterWithoutForm(t *testing.T) {
	srv := newServer(t, false)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouterServesForm(t *testing.T) {
	srv := newServer(t, true)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

// The HTTP client source must honour the same contract as the stub it talks to.
func TestHTTPSourceAgainstRouter(t *testing.T) {
	srv := newServer(t, false)
	src, err := infrasource.NewHTTPSource(infrasource.HTTPConfig{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	ctx := context.Background()

	programs, err := src.FetchPrograms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Program{{ID: "p1", Name: "モーニング"}, {ID: "p2", Name: "アフタヌーン"}, {ID: "p3", Name: "イブニング"}}, programs)

	casters, err := src.FetchCasters(ctx)
	require.NoError(t, err)
	assert.Len(t, casters, 3)
	forecasters, err := src.FetchForecasters(ctx)
	require.NoError(t, err)
	assert.Len(t, forecasters, 3)

	even, err := src.FetchSchedule(ctx, model.Date{Year: 2025, Month: time.May, Day: 2})
	require.NoError(t, err)
	require.Len(t, even, 3)
	assert.Equal(t, "p2", even[1].ProgramID)
	assert.Equal(t, "c2", even[1].Caster())
	assert.False(t, even[1].HasCrosstalk)

	odd, err := src.FetchSchedule(ctx, model.Date{Year: 2025, Month: time.May, Day: 3})
	require.NoError(t, err)
	assert.NotNil(t, odd)
	assert.Empty(t, odd)

	require.NoError(t, src.SaveSchedule(ctx, model.Date{Year: 2025, Month: time.May, Day: 3}, even))

	dup := []model.ScheduleRecord{{ProgramID: "p1"}, {ProgramID: "p1"}}
	err = src.SaveSchedule(ctx, model.Date{Year: 2025, Month: time.May, Day: 3}, dup)
	assert.ErrorIs(t, err, source.ErrUnavailable)
}

func TestRouterMountsExposition(t *testing.T) {
	d := Deps{
		Source: infrasource.NewStub(infrasource.StubConfig{}),
		Exposition: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("castplan_up 1\n"))
		}),
	}
	rr := httptest.NewRecorder()
	NewRouter(d).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "castplan_up 1\n", rr.Body.String())
}

func TestRouterJournalsAPISaves(t *testing.T) {
	store := journal.NewMemoryStore()
	src := journal.WrapSource(infrasource.NewStub(infrasource.StubConfig{}), store, logger.NopLogger{})
	srv := httptest.NewServer(NewRouter(Deps{Source: src, Journal: store, JournalToken: "t0k"}))
	defer srv.Close()

	body := strings.NewReader(`[{"programId":"p1","casterId":"c2","forecasterId":null,"hasCrosstalk":false}]`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/schedule?date=2025-05-02", body)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/journal")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/journal?program=p1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer t0k")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out []journal.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.True(t, out[0].Success)
	assert.Equal(t, "2025-05-02", out[0].Date.String())
}

type topicRecorder struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
}

func (r *topicRecorder) Publish(_ context.Context, topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestRouterPublishesAPISaves(t *testing.T) {
	pub := &topicRecorder{}
	src := mqtt.NewNotifier(pub, "").WrapSource(infrasource.NewStub(infrasource.StubConfig{}))
	srv := httptest.NewServer(NewRouter(Deps{Source: src}))
	defer srv.Close()

	body := strings.NewReader(`[{"programId":"p2","casterId":null,"forecasterId":"f1","hasCrosstalk":true}]`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/schedule?date=2025-05-02", body)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.topics, 1)
	assert.Equal(t, "castplan/schedule/2025-05-02/saved", pub.topics[0])
	var msg mqtt.SavedMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	require.Len(t, msg.Records, 1)
	assert.Equal(t, "p2", msg.Records[0].ProgramID)
	assert.Equal(t, "f1", msg.Records[0].Forecaster())
	assert.True(t, msg.Records[0].HasCrosstalk)
}
