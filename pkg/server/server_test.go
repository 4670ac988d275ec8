package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spyglass-hq/spyglass/pkg/config"
	"spyglass-hq/spyglass/pkg/logquery"
	"spyglass-hq/spyglass/pkg/telemetry/health"
	"spyglass-hq/spyglass/pkg/telemetry/logging"
	"spyglass-hq/spyglass/pkg/telemetry/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "server-test-secret"

// newTestServer wires a full server against a temp log file and returns
// it with its logger so tests can emit lines.
func newTestServer(t *testing.T, adminSecret string) (*Server, *logging.Logger) {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Telemetry.Logging.File.Path = filepath.Join(t.TempDir(), "app.log")
	cfg.Telemetry.Logging.File.MaxSizeMB = 5
	cfg.Telemetry.Logging.File.MaxBackups = 3
	cfg.Auth.AdminSecret = adminSecret

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	logger, err := logging.New(&cfg.Telemetry.Logging, collector)
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	engine := logquery.NewEngine(logger.FilePath())
	logs := logquery.NewHandler(engine, logger.Slog())

	return New(cfg, collector, logs, health.New(time.Second), logger.Slog()), logger
}

func adminToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin": true,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")
	handler := srv.Handler()

	// Generate some traffic first
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/route/5", nil))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain exposition", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{
		`http_requests_total{endpoint="/healthz",method="GET",status_code="200"} 3`,
		`http_requests_total{endpoint="/missing/route/{id}",method="GET",status_code="404"} 1`,
		`http_errors_total{endpoint="/missing/route/{id}",method="GET",status_code="404"} 1`,
		`http_request_duration_seconds_bucket{endpoint="/healthz",method="GET",le="0.01"}`,
		`http_request_duration_seconds_bucket{endpoint="/healthz",method="GET",le="+Inf"} 3`,
		`active_connections`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestServer_LogsRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t, testSecret)
	handler := srv.Handler()

	for _, path := range []string{"/logs", "/logs/json"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, rr.Code)
		}

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s with admin token: status = %d, want 200", path, rr.Code)
		}
	}
}

func TestServer_EndToEndLogFlow(t *testing.T) {
	srv, logger := newTestServer(t, "")
	handler := srv.Handler()

	logger.Slog().Info("start")
	logger.Slog().Error("boom")
	logger.Slog().Warn("retry")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/logs/json?level=ERROR", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp struct {
		Count int `json:"count"`
		Logs  []struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		} `json:"logs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 || resp.Logs[0].Message != "boom" {
		t.Errorf("level=ERROR: %+v", resp)
	}

	// The emitted lines also show up in log_messages_total
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{
		`log_messages_total{level="INFO"}`,
		`log_messages_total{level="ERROR"} 1`,
		`log_messages_total{level="WARNING"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestServer_HealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "")
	handler := srv.Handler()

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, rr.Code)
		}
	}
}

func TestServer_InvalidLevelIs400(t *testing.T) {
	srv, _ := newTestServer(t, "")
	handler := srv.Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/logs/json?level=FATAL", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
