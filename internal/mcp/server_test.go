package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mbernardes19/torre-matheus/internal/config"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/export"
	"github.com/mbernardes19/torre-matheus/internal/storage/memory"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":0,"offset":0,"size":20,"results":[]}`))
	}))
	t.Cleanup(upstream.Close)

	svc, err := opportunity.NewService(
		opportunity.WithSearcher(torre.NewClient(torre.Config{BaseURL: upstream.URL, Timeout: time.Second})),
		opportunity.WithRepository(memory.NewSessionRepository(time.Minute)),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	cfg := config.Default()
	cfg.Port = "0"
	return NewServer(logging.NewNop(), cfg, newResources(svc, export.NewExporter(nil)))
}

func TestServerHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestServerMountsAPI(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/search", strings.NewReader(`{"term":"go"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("search = %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestInitializeResourcesInMemory(t *testing.T) {
	cfg := config.Default()
	res, cleanup, err := InitializeResources(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("InitializeResources: %v", err)
	}
	defer cleanup()

	if res.Opportunities == nil {
		t.Fatal("opportunity service not wired")
	}
	if res.Exporter.Configured() {
		t.Fatal("exporter should be unconfigured without credentials")
	}
}
