package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if labelsMatch(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	if len(m.GetLabel()) != len(want) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if want[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.AddFallbacks(map[string]int64{"skills_malformed": 2, "role_missing": 0})
	m.AddFallbacks(map[string]int64{"skills_malformed": 1})
	m.JobRanked("succeeded")
	m.JobRanked("succeeded")
	m.JobRanked("failed")
	m.MatchesWritten(5)
	m.ObserveRun(150 * time.Millisecond)

	if got := counterValue(t, m, "matcher_normalization_fallbacks_total", map[string]string{"kind": "skills_malformed"}); got != 3 {
		t.Fatalf("expected 3 skills_malformed, got %v", got)
	}
	if got := counterValue(t, m, "matcher_jobs_ranked_total", map[string]string{"status": "succeeded"}); got != 2 {
		t.Fatalf("expected 2 succeeded, got %v", got)
	}
	if got := counterValue(t, m, "matcher_matches_written_total", nil); got != 5 {
		t.Fatalf("expected 5 matches written, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.JobRanked("succeeded")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `matcher_jobs_ranked_total{status="succeeded"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", rec.Body.String())
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.AddFallbacks(map[string]int64{"x": 1})
	m.JobRanked("failed")
	m.MatchesWritten(1)
	m.ObserveRun(time.Second)
}
