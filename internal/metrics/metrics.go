// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus         *prometheus.CounterVec
	requestLatency     prometheus.Histogram
	assignments        *prometheus.CounterVec
	membershipsCreated prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segmenter_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "segmenter_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segmenter_assignments_total",
			Help: "選択ルール別の一括割り当て実行数",
		}, []string{"rule"}),
		membershipsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "segmenter_memberships_created_total",
			Help: "新規作成されたメンバーシップの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.assignments,
		c.membershipsCreated,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAssignment は一括割り当ての実行を選択ルール別に記録する。
func (c *Collector) RecordAssignment(rule string) {
	c.assignments.WithLabelValues(rule).Inc()
}

// RecordMembershipsCreated は新規作成されたメンバーシップ数を記録する。
func (c *Collector) RecordMembershipsCreated(count int) {
	c.membershipsCreated.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
