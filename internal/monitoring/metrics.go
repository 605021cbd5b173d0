package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 邮箱指标
	MailboxesCreated prometheus.Counter
	MailboxesDeleted prometheus.Counter

	// IMAP 取信指标
	IMAPFetchesTotal  *prometheus.CounterVec
	IMAPFetchDuration prometheus.Histogram
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailsy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailsy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		MailboxesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mailsy_mailboxes_created_total",
				Help: "Total number of mailboxes created",
			},
		),
		MailboxesDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mailsy_mailboxes_deleted_total",
				Help: "Total number of mailboxes deleted",
			},
		),
		IMAPFetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailsy_imap_fetches_total",
				Help: "Total number of IMAP inbox fetches",
			},
			[]string{"result"},
		),
		IMAPFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mailsy_imap_fetch_duration_seconds",
				Help:    "IMAP inbox fetch duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
	}
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIMAPFetch 记录一次 IMAP 取信
func (m *Metrics) RecordIMAPFetch(result string, duration time.Duration) {
	m.IMAPFetchesTotal.WithLabelValues(result).Inc()
	m.IMAPFetchDuration.Observe(duration.Seconds())
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
