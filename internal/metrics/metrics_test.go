package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_RegistersMetrics はメトリクスがレジストリに登録されることを検証する。
func TestNewCollector_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(15 * time.Millisecond)
	c.RecordAssignment("percent")
	c.RecordMembershipsCreated(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"segmenter_http_status_total",
		"segmenter_request_latency_seconds",
		"segmenter_assignments_total",
		"segmenter_memberships_created_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected metric %s to be registered", name)
		}
	}
}

// TestNewCollector_DuplicateRegistrationPanics は二重登録がpanicすることを検証する。
func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}

// TestHandler_ServesMetrics は/metricsハンドラーがテキスト形式でメトリクスを返すことを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordMembershipsCreated(7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "segmenter_memberships_created_total 7") {
		t.Errorf("expected memberships counter in output, got:\n%s", w.Body.String())
	}
}
