package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	if rr := serve(r, http.MethodGet, "/health"); rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200")); got != before+1 {
		t.Errorf("http_requests_total = %v, want %v", got, before+1)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in flight = %v after request, want 0", got)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("case") {
		case "bad":
			w.WriteHeader(http.StatusBadRequest)
		case "auth":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})

	tests := []struct {
		query  string
		status string
	}{
		{"", "200"},
		{"?case=bad", "400"},
		{"?case=auth", "401"},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/messages", tc.status))
			serve(r, http.MethodPost, "/api/messages"+tc.query)
			got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/messages", tc.status))
			if got != before+1 {
				t.Errorf("requests_total{status=%s} = %v, want %v", tc.status, got, before+1)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))
	serve(r, http.MethodGet, "/nope/12345")
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404")); got != before+1 {
		t.Errorf("unmatched requests = %v, want %v", got, before+1)
	}
}

func TestMiddleware_CountsStreamFlushes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/messages", func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("middleware writer must implement http.Flusher")
		}
		for _, line := range []string{`{"type":"message"}`, `{"type":"typing"}`, `{"type":"message"}`} {
			_, _ = w.Write([]byte(line + "\n"))
			f.Flush()
		}
	})

	before := testutil.ToFloat64(httpStreamFlushes.WithLabelValues("/api/messages"))
	rr := serve(r, http.MethodPost, "/api/messages")

	if !rr.Flushed {
		t.Error("expected flush to reach the recorder")
	}
	if got := testutil.ToFloat64(httpStreamFlushes.WithLabelValues("/api/messages")); got != before+3 {
		t.Errorf("flushes = %v, want %v", got, before+3)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/api/messages", "/api/messages"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestRegisterHTTPMetrics_Exposed(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics() // idempotent

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	serve(r, http.MethodGet, "/metrics")
	rr := serve(r, http.MethodGet, "/metrics")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "hoover_http_requests_total") {
		t.Error("expected hoover_http_requests_total in exposition")
	}
}
