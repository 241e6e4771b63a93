package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nbekov/bookshelf/internal/health"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c := health.NewChecker(&mockPinger{err: errors.New("db is gone")}, testLogger(), prometheus.NewRegistry())

	got := c.Liveness(context.Background())
	if got.Status != "up" {
		t.Errorf("liveness status = %q, want up", got.Status)
	}
}

func TestReadiness_DatabaseUp(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := health.NewChecker(&mockPinger{}, testLogger(), reg)

	got := c.Readiness(context.Background())
	if got.Status != "up" {
		t.Errorf("status = %q, want up", got.Status)
	}
	check, ok := got.Checks["postgres"]
	if !ok || check.Status != "up" || check.Error != "" {
		t.Errorf("postgres check = %+v", check)
	}

	if v := gaugeValue(t, reg, "postgres"); v != 1 {
		t.Errorf("gauge = %v, want 1", v)
	}
}

func TestReadiness_DatabaseDown(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := health.NewChecker(&mockPinger{err: errors.New("connection refused")}, testLogger(), reg)

	got := c.Readiness(context.Background())
	if got.Status != "down" {
		t.Errorf("status = %q, want down", got.Status)
	}
	check := got.Checks["postgres"]
	if check.Status != "down" || check.Error != "connection refused" {
		t.Errorf("postgres check = %+v", check)
	}

	if v := gaugeValue(t, reg, "postgres"); v != 0 {
		t.Errorf("gauge = %v, want 0", v)
	}
}

func TestReadinessHandler_DownReturns503(t *testing.T) {
	c := health.NewChecker(&mockPinger{err: errors.New("connection refused")}, testLogger(), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	c.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	var body health.HealthResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Status != "down" {
		t.Errorf("body status = %q, want down", body.Status)
	}
}

func TestLivenessHandler_Returns200(t *testing.T) {
	c := health.NewChecker(&mockPinger{err: errors.New("db is gone")}, testLogger(), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	c.LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, dependency string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "bookshelf_health_check_up" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "dependency" && label.GetValue() == dependency {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric bookshelf_health_check_up{dependency=%q} not found", dependency)
	return 0
}
