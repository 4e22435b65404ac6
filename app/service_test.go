package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/castplan/config"
	"github.com/kilianp07/castplan/core/factory"
	"github.com/kilianp07/castplan/core/journal"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Address: "127.0.0.1:0"},
		Source: factory.ModuleConfig{Type: "stub", Conf: map[string]any{
			"catalog_delay":  "0s",
			"schedule_delay": "0s",
			"save_delay":     "0s",
		}},
	}
	cfg.SetDefaults()
	return cfg
}

func TestServiceServesAPIAndForm(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	require.NoError(t, svc.Session().Start(context.Background()))

	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	// /metrics last so the request counters have samples
	for _, c := range []struct{ path, want string }{
		{"/api/programs", "モーニング"},
		{"/", "番組放送スケジュール"},
		{"/healthz", "ok"},
		{"/metrics", "castplan_http_requests_total"},
	} {
		path, want := c.path, c.want
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), want, path)
	}
}

func TestServiceWithoutForm(t *testing.T) {
	cfg := testConfig()
	cfg.Server.DisableForm = true
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "prometheus"}, {Type: "nop"}}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return len(svc.Session().Snapshot().Catalogs.Programs) == 3
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := testConfig()
	cfg.Source.Type = "ftp"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestEventCounterLookup(t *testing.T) {
	assert.Nil(t, eventCounter(nil))
}

func TestServiceJournalsFormSaves(t *testing.T) {
	cfg := testConfig()
	cfg.Journal.Backend = "sqlite"
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	require.NoError(t, svc.Session().Start(ctx))
	require.NoError(t, svc.Session().Save(ctx))

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/journal", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var out []journal.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, svc.Session().Snapshot().Date, out[0].Date)
	assert.True(t, out[0].Success)
}

func TestOpenJournal(t *testing.T) {
	s, err := openJournal(config.JournalConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = openJournal(config.JournalConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &journal.MemoryStore{}, s)

	_, err = openJournal(config.JournalConfig{Backend: "csv"})
	assert.Error(t, err)
}
