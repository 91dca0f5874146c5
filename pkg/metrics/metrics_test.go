package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveEvaluation("pending", time.Millisecond)
	m.ObserveEvaluation("pending", time.Millisecond)
	m.ObserveEvaluation("complete", time.Millisecond)
	m.IncTranscript("rows", 2)
	m.IncCache("hit")

	if got := testutil.ToFloat64(m.Evaluations.WithLabelValues("pending")); got != 2 {
		t.Errorf("pending 판정 2건 기대, 실제=%v", got)
	}
	if got := testutil.ToFloat64(m.TranscriptRowErrors); got != 2 {
		t.Errorf("행 오류 2건 기대, 실제=%v", got)
	}
	if got := testutil.ToFloat64(m.EvaluationCacheHits.WithLabelValues("hit")); got != 1 {
		t.Errorf("캐시 hit 1건 기대, 실제=%v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/health", "200", time.Millisecond)
	m.ObserveEvaluation("complete", time.Millisecond)
	m.IncCache("miss")
	m.IncTranscript("json", 0)
}
