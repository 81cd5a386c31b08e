package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EntriesLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierapi_entries_loaded_total",
		Help: "Total hierarchy entries successfully loaded",
	})
	BadLinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hierapi_bad_lines_total",
		Help: "Total rejected input lines by failure class",
	}, []string{"class"})
	ReadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hierapi_read_duration_ms",
		Help:    "Full read+merge duration in milliseconds",
		Buckets: []float64{100, 500, 1000, 5000, 10000, 30000, 60000, 120000},
	})
	LookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierapi_lookups_total",
		Help: "Total number of /api/object requests",
	})
	LookupDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hierapi_lookup_duration_ms",
		Help:    "Object lookup duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	EmptyLookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierapi_empty_lookups_total",
		Help: "Total lookups that matched no entry",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierapi_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hierapi_redis_misses_total",
		Help: "Total redis cache misses",
	})
)

func init() {
	prometheus.MustRegister(EntriesLoadedTotal)
	prometheus.MustRegister(BadLinesTotal)
	prometheus.MustRegister(ReadDurationMs)
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(LookupDurationMs)
	prometheus.MustRegister(EmptyLookupsTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供抓取；在主入口挂载
func Handler() http.Handler { return promhttp.Handler() }
