package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MapRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewmap_map_requests_total",
		Help: "Total number of /map requests by view status",
	}, []string{"status"})
	UniqueVisitorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewmap_unique_visitors_total",
		Help: "Visitors not seen within the dedupe window",
	})
	GateWaitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewmap_ready_gate_total",
		Help: "Readiness gate outcomes",
	}, []string{"gate", "outcome"})
	GateWaitDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crewmap_ready_gate_duration_ms",
		Help:    "Time spent waiting on the readiness gate in milliseconds",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 2000, 5000, 10000, 20000},
	})
	BoundaryLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewmap_boundary_loads_total",
		Help: "Boundary load attempts by result",
	}, []string{"result"})
	BoundaryFeaturesSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewmap_boundary_features_skipped_total",
		Help: "Boundary features or sub-polygons skipped by reason",
	}, []string{"reason"})
	BoundaryShapes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crewmap_boundary_shapes",
		Help: "Shapes produced by the last boundary load",
	})
	BoundaryDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crewmap_boundary_duration_ms",
		Help:    "Boundary fetch and parse duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	RankingRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewmap_ranking_requests_total",
		Help: "Total ranking function invocations",
	})
	RankingFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewmap_ranking_fail_total",
		Help: "Total failed ranking function invocations",
	})
	RankingUnmatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewmap_ranking_unmatched_total",
		Help: "Ranking records dropped for unknown district names",
	})
	RankingDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crewmap_ranking_duration_ms",
		Help:    "Ranking function call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	ViewMountsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewmap_view_mounts_total",
		Help: "Total view mounts including reloads",
	})
)

func init() {
	prometheus.MustRegister(MapRequestsTotal)
	prometheus.MustRegister(UniqueVisitorsTotal)
	prometheus.MustRegister(GateWaitTotal)
	prometheus.MustRegister(GateWaitDurationMs)
	prometheus.MustRegister(BoundaryLoadsTotal)
	prometheus.MustRegister(BoundaryFeaturesSkipped)
	prometheus.MustRegister(BoundaryShapes)
	prometheus.MustRegister(BoundaryDurationMs)
	prometheus.MustRegister(RankingRequestsTotal)
	prometheus.MustRegister(RankingFailTotal)
	prometheus.MustRegister(RankingUnmatchedTotal)
	prometheus.MustRegister(RankingDurationMs)
	prometheus.MustRegister(ViewMountsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
