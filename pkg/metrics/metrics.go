package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 애플리케이션 Prometheus 지표. nil 이어도 메서드 호출은 안전하다.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	Evaluations         *prometheus.CounterVec
	EvaluationDuration  prometheus.Histogram
	EvaluationCacheHits *prometheus.CounterVec
	TranscriptsIngested *prometheus.CounterVec
	TranscriptRowErrors prometheus.Counter
}

// New 지표를 생성해 reg 에 등록한다
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gradcheck_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradcheck_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gradcheck_evaluations_total",
			Help: "Graduation evaluations by resulting status",
		}, []string{"status"}), // complete | pending

		EvaluationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradcheck_evaluation_duration_seconds",
			Help:    "Duration of a graduation evaluation excluding I/O",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),

		EvaluationCacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gradcheck_evaluation_cache_total",
			Help: "Evaluation cache lookups by result",
		}, []string{"result"}), // hit | miss | error

		TranscriptsIngested: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gradcheck_transcripts_ingested_total",
			Help: "Transcripts stored by source",
		}, []string{"source"}),

		TranscriptRowErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "gradcheck_transcript_row_errors_total",
			Help: "Transcript table rows rejected during parsing",
		}),
	}
}

// ObserveHTTP HTTP 요청 1건 기록
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveEvaluation 판정 1건 기록
func (m *Metrics) ObserveEvaluation(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(status).Inc()
	m.EvaluationDuration.Observe(d.Seconds())
}

// IncCache 캐시 조회 결과 기록
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.EvaluationCacheHits.WithLabelValues(result).Inc()
}

// IncTranscript 저장된 성적표 기록
func (m *Metrics) IncTranscript(source string, rowErrors int) {
	if m == nil {
		return
	}
	m.TranscriptsIngested.WithLabelValues(source).Inc()
	if rowErrors > 0 {
		m.TranscriptRowErrors.Add(float64(rowErrors))
	}
}
