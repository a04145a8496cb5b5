// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はクライアントの動作メトリクスを収集する。
type Collector struct {
	requests        *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	transportFails  prometheus.Counter
	csrfRotations   prometheus.Counter
	notifications   *prometheus.CounterVec
	authTransitions *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projectmatch_client_requests_total",
			Help: "送信HTTPリクエストのメソッド・ステータス区分別の合計数",
		}, []string{"method", "status_class"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "projectmatch_client_request_latency_seconds",
			Help:    "送信HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		transportFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmatch_client_transport_failures_total",
			Help: "レスポンスが得られなかったネットワーク障害の合計数",
		}),
		csrfRotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmatch_client_csrf_rotations_total",
			Help: "レスポンスヘッダー経由で取り込んだCSRFトークンローテーションの合計数",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projectmatch_client_notifications_total",
			Help: "ユーザー向け通知の重要度別の合計数",
		}, []string{"severity"}),
		authTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projectmatch_client_auth_transitions_total",
			Help: "認証状態遷移の遷移先状態別の合計数",
		}, []string{"state"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.transportFails,
		c.csrfRotations,
		c.notifications,
		c.authTransitions,
	)

	return c
}

// RecordRequest は送信リクエストの完了を記録する。
func (c *Collector) RecordRequest(method string, statusCode int) {
	c.requests.WithLabelValues(method, statusClass(statusCode)).Inc()
}

// RecordRequestLatency は送信リクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(d time.Duration) {
	c.requestLatency.Observe(d.Seconds())
}

// RecordTransportFailure はネットワーク障害を記録する。
func (c *Collector) RecordTransportFailure() {
	c.transportFails.Inc()
}

// RecordCSRFRotation はCSRFトークンのローテーション取り込みを記録する。
func (c *Collector) RecordCSRFRotation() {
	c.csrfRotations.Inc()
}

// RecordNotification はユーザー向け通知を記録する。
func (c *Collector) RecordNotification(severity string) {
	c.notifications.WithLabelValues(severity).Inc()
}

// RecordAuthTransition は認証状態遷移を記録する。
func (c *Collector) RecordAuthTransition(state string) {
	c.authTransitions.WithLabelValues(state).Inc()
}

// statusClass はHTTPステータスコードを"2xx"のような区分に丸める。
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
