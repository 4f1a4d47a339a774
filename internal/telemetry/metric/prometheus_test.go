package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.registry == nil {
		t.Fatal("registry field is nil")
	}
	if r.TokensCreated == nil || r.TokensRead == nil || r.StoreOperations == nil {
		t.Error("metrics not initialised")
	}
}

func TestGlobal(t *testing.T) {
	if Global() != Global() {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler_RuntimeCollectors(t *testing.T) {
	body := scrape(t, NewRegistry())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestTokenMetrics(t *testing.T) {
	r := NewRegistry()

	r.IncTokenCreated()
	r.IncTokenCreated()
	r.RecordTokenRead("valid")
	r.RecordTokenRead("invalid")
	r.RecordTokenRead("invalid")
	r.RecordVerification("ok")

	body := scrape(t, r)

	for _, want := range []string{
		"sigtok_tokens_created_total 2",
		`sigtok_tokens_read_total{result="valid"} 1`,
		`sigtok_tokens_read_total{result="invalid"} 2`,
		`sigtok_signature_verifications_total{result="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestStoreAndRequestMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordStoreOperation("put", "ok", 0.001)
	r.RecordStoreOperation("get", "not_found", 0.002)
	r.RecordRequest("GET", "/v1/tokens/{token}", "200", 0.01)

	body := scrape(t, r)

	for _, want := range []string{
		`sigtok_store_operations_total{op="put",result="ok"} 1`,
		`sigtok_store_operations_total{op="get",result="not_found"} 1`,
		"sigtok_store_operation_duration_seconds_bucket",
		`sigtok_requests_total{method="GET",route="/v1/tokens/{token}",status="200"} 1`,
		"sigtok_request_duration_seconds_count",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestRegisterer_ExtraCollector(t *testing.T) {
	r := NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "sigtok_extra_gauge", Help: "test"})
	r.Registerer().MustRegister(g)
	g.Set(3)

	if body := scrape(t, r); !strings.Contains(body, "sigtok_extra_gauge 3") {
		t.Error("expected extra gauge in output")
	}
}
