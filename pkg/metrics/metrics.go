// Package metrics 提供基于Prometheus的指标收集
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、书评创建总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的请求数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、评分聚合耗时、每次聚合的图书数量
//
// # 使用示例
//
//	// 1. 启动时初始化（重复调用是安全的）
//	metrics.InitMetrics()
//
//	// 2. 在路由上暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 在业务代码中记录指标
//	metrics.IncCounterVec(metrics.ReviewsCreatedTotal, map[string]string{"result": "success"})
//
// # 命名规范
//
// 1. Counter以`_total`结尾
// 2. Histogram以单位结尾（`_seconds`）
// 3. 避免高基数标签：不要用book_id、user_id作为标签
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookreview"

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method、path（路由模板，非原始URL）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// RateLimitedTotal 被限流拒绝的请求数（Counter）
	// 标签：path
	RateLimitedTotal *prometheus.CounterVec

	// 业务指标

	// BooksCreatedTotal 图书创建总数（Counter）
	// 标签：result（success/failure）
	BooksCreatedTotal *prometheus.CounterVec

	// ReviewsCreatedTotal 书评创建总数（Counter）
	// 标签：result（success/failure）
	ReviewsCreatedTotal *prometheus.CounterVec

	// AuthAttemptsTotal 认证请求总数（Counter）
	// 标签：action（signup/login/refresh/logout）、result（success/failure）
	AuthAttemptsTotal *prometheus.CounterVec

	// 评分聚合指标

	// RatingAggregationDuration 评分聚合耗时（Histogram）
	// 标签：mode（single/batch）
	RatingAggregationDuration *prometheus.HistogramVec

	// RatingAggregationBatchSize 每次批量聚合的图书数量（Histogram）
	RatingAggregationBatchSize prometheus.Histogram

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. sync.Once保证只注册一次（重复注册会panic）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	initOnce.Do(func() {
		// HTTP请求指标
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP请求耗时（秒）",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_progress",
				Help:      "正在处理的HTTP请求数",
			},
		)

		RateLimitedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "被限流拒绝的请求数",
			},
			[]string{"path"},
		)

		// 业务指标
		BooksCreatedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "books_created_total",
				Help:      "图书创建总数",
			},
			[]string{"result"},
		)

		ReviewsCreatedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reviews_created_total",
				Help:      "书评创建总数",
			},
			[]string{"result"},
		)

		AuthAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "认证请求总数",
			},
			[]string{"action", "result"},
		)

		// 评分聚合指标
		RatingAggregationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rating_aggregation_duration_seconds",
				Help:      "评分聚合耗时（秒）",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"mode"},
		)

		RatingAggregationBatchSize = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rating_aggregation_batch_size",
				Help:      "每次批量聚合的图书数量",
				Buckets:   []float64{1, 5, 10, 20, 50, 100},
			},
		)

		// 消息队列指标
		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_published_total",
				Help:      "消息发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// Result 将error转换为result标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// 以下辅助函数在InitMetrics之前调用时不做任何事（指标尚未注册）

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
