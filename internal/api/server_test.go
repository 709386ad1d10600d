package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dailyreader/internal/archive"
	"dailyreader/internal/config"
	"dailyreader/internal/digest"
	"dailyreader/internal/monitoring"
	"dailyreader/internal/selector"
	"dailyreader/internal/source"
	"dailyreader/internal/tracker"
)

// A single metrics instance per test binary; promauto registers globally.
var testMetrics = monitoring.NewMetrics()

type fakeRunner struct {
	report *digest.Report
	err    error
}

func (f *fakeRunner) Run(ctx context.Context) (*digest.Report, error) {
	return f.report, f.err
}

func newTestServer(t *testing.T, runner Runner) (*Server, *tracker.FileStore) {
	t.Helper()
	store := tracker.NewFileStore(filepath.Join(t.TempDir(), "sent_links.json"), zap.NewNop())
	cfg := &config.Config{ServerPort: "8080"}
	logger := zap.NewNop()
	return NewServer(cfg, runner, store, archive.Noop{}, testMetrics, logger), store
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleRun(t *testing.T) {
	report := &digest.Report{
		RunID:     uuid.New(),
		URL:       "https://example.com/a",
		Title:     "Article A",
		TotalSent: 1,
	}
	server, _ := newTestServer(t, &fakeRunner{report: report})

	rr := doRequest(t, server.Handler(), http.MethodPost, "/api/run")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var got digest.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.URL != report.URL || got.Title != report.Title {
		t.Fatalf("response = %+v", got)
	}
}

func TestHandleRunErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"source unavailable", source.ErrSourceUnavailable, http.StatusBadGateway},
		{"no candidates", selector.ErrNoCandidates, http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, &fakeRunner{err: tt.err})
			rr := doRequest(t, server.Handler(), http.MethodPost, "/api/run")
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleReset(t *testing.T) {
	server, store := newTestServer(t, &fakeRunner{})

	links := tracker.New()
	links.MarkSent("https://example.com/a", "")
	if err := store.Save(context.Background(), links); err != nil {
		t.Fatal(err)
	}

	rr := doRequest(t, server.Handler(), http.MethodPost, "/api/reset")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if loaded := store.Load(context.Background()); loaded.Len() != 0 {
		t.Fatal("reset endpoint did not clear the store")
	}
}

func TestHandleHistoryAndStats(t *testing.T) {
	server, store := newTestServer(t, &fakeRunner{})

	links := tracker.New()
	links.MarkSent("https://example.com/a", "Article A")
	links.MarkSent("https://example.com/b", "Article B")
	if err := store.Save(context.Background(), links); err != nil {
		t.Fatal(err)
	}

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/history?limit=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("history status = %d", rr.Code)
	}
	var history []tracker.HistoryEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].URL != "https://example.com/b" {
		t.Fatalf("history = %+v", history)
	}

	rr = doRequest(t, server.Handler(), http.MethodGet, "/api/history?limit=0")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid limit: status = %d", rr.Code)
	}

	rr = doRequest(t, server.Handler(), http.MethodGet, "/api/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rr.Code)
	}
	var stats map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if string(stats["total_sent"]) != "2" {
		t.Fatalf("stats = %s", rr.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t, &fakeRunner{})
	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t, &fakeRunner{})
	rr := doRequest(t, server.Handler(), http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}
