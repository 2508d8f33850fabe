package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器。nil Collector 的所有方法都是空操作，
// 组件可以把指标当可选依赖。
type Collector struct {
	// 检索指标
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec

	// 激活指标
	activationOpsTotal *prometheus.CounterVec

	// 目录指标
	catalogRefreshesTotal *prometheus.CounterVec
	catalogSkills         prometheus.Gauge

	logger *zap.Logger
}

// NewCollector 创建指标收集器并向给定 registry 注册；
// registry 为 nil 时使用默认 registry。
func NewCollector(namespace string, registry prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.searchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of skill searches",
		},
		[]string{"intent", "matched"},
	)

	c.searchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Skill search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"intent"},
	)

	c.activationOpsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activation_ops_total",
			Help:      "Total number of skill activation operations",
		},
		[]string{"op", "status"},
	)

	c.catalogRefreshesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refreshes_total",
			Help:      "Total number of catalog refreshes",
		},
		[]string{"status"},
	)

	c.catalogSkills = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_skills",
			Help:      "Number of skills in the current catalog",
		},
	)

	return c
}

// RecordSearch 记录一次检索。
func (c *Collector) RecordSearch(intent string, matched bool, duration time.Duration) {
	if c == nil {
		return
	}
	matchedLabel := "false"
	if matched {
		matchedLabel = "true"
	}
	c.searchesTotal.WithLabelValues(intent, matchedLabel).Inc()
	c.searchDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

// RecordActivationOp 记录一次激活操作。
func (c *Collector) RecordActivationOp(op, status string) {
	if c == nil {
		return
	}
	c.activationOpsTotal.WithLabelValues(op, status).Inc()
}

// RecordCatalogRefresh 记录一次目录刷新。
func (c *Collector) RecordCatalogRefresh(success bool, skills int) {
	if c == nil {
		return
	}
	status := "error"
	if success {
		status = "success"
		c.catalogSkills.Set(float64(skills))
	}
	c.catalogRefreshesTotal.WithLabelValues(status).Inc()
}
