// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 送信結果のラベル値。
const (
	OutcomeSaved      = "saved"
	OutcomeInvalid    = "invalid"
	OutcomeOwnership  = "ownership"
	OutcomeStoreError = "store_error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordSubmission(outcome string)
	RecordPersonResolution(created bool)
	RecordGroupResolution(created bool)
	RecordPostCreated()
	RecordSearch(results int)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	submissions    *prometheus.CounterVec
	personResolved *prometheus.CounterVec
	groupResolved  *prometheus.CounterVec
	postsCreated   prometheus.Counter
	searches       prometheus.Counter
	searchResults  prometheus.Histogram
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profilebook_submissions_total",
			Help: "送信（save-data）の結果別件数",
		}, []string{"outcome"}),
		personResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profilebook_person_resolutions_total",
			Help: "人物の解決件数（既存再利用/新規作成）",
		}, []string{"result"}),
		groupResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profilebook_group_resolutions_total",
			Help: "グループの解決件数（既存再利用/新規作成）",
		}, []string{"result"}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profilebook_posts_created_total",
			Help: "作成された投稿の合計数",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profilebook_person_searches_total",
			Help: "人物検索の合計数",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "profilebook_person_search_results",
			Help:    "人物検索1回あたりの結果件数",
			Buckets: []float64{0, 1, 2, 5, 10},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profilebook_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "profilebook_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.submissions,
		c.personResolved,
		c.groupResolved,
		c.postsCreated,
		c.searches,
		c.searchResults,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSubmission は送信結果を記録する。
func (c *Collector) RecordSubmission(outcome string) {
	c.submissions.WithLabelValues(outcome).Inc()
}

// RecordPersonResolution は人物の解決結果を記録する。
func (c *Collector) RecordPersonResolution(created bool) {
	c.personResolved.WithLabelValues(resolutionLabel(created)).Inc()
}

// RecordGroupResolution はグループの解決結果を記録する。
func (c *Collector) RecordGroupResolution(created bool) {
	c.groupResolved.WithLabelValues(resolutionLabel(created)).Inc()
}

// RecordPostCreated は投稿作成を記録する。
func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

// RecordSearch は人物検索と結果件数を記録する。
func (c *Collector) RecordSearch(results int) {
	c.searches.Inc()
	c.searchResults.Observe(float64(results))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

func resolutionLabel(created bool) string {
	if created {
		return "created"
	}
	return "reused"
}

// Nop は何も記録しないMetricsCollector。メトリクス無効時とテストで使用する。
type Nop struct{}

func (Nop) RecordSubmission(string)            {}
func (Nop) RecordPersonResolution(bool)        {}
func (Nop) RecordGroupResolution(bool)         {}
func (Nop) RecordPostCreated()                 {}
func (Nop) RecordSearch(int)                   {}
func (Nop) RecordHTTPStatus(int)               {}
func (Nop) RecordRequestLatency(time.Duration) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
