// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"hier-api/internal/hierarchy"
	"hier-api/internal/index"
	"hier-api/internal/metrics"
	"hier-api/internal/telemetry"
	"hier-api/internal/tileutil"

	"github.com/redis/go-redis/v9"
)

// Deps：路由依赖集合；rc/eye 允许为 nil（缓存/遥测禁用）
type Deps struct {
	Index *index.Index
	Stats hierarchy.StatsSnapshot
	Redis *redis.Client
	Eye   *telemetry.Eye
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}

// parseObjectID：查询参数中的对象标识
// 约束：与数据面保持同一怪癖——先按有符号 int64 解码再按位重解释为无符号，
// 这样 dump 中出现的负数形式同样可以直接查询
func parseObjectID(s string) (hierarchy.GeoObjectID, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return hierarchy.GeoObjectID(uint64(v)), true
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return hierarchy.GeoObjectID(v), true
	}
	return 0, false
}

func cacheTTL() time.Duration {
	if s := os.Getenv("REDIS_CACHE_TTL_S"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Hour * 24
}

// BuildRoutes：构建并返回 API 路由，独立 ServeMux 便于挂载到前缀
func BuildRoutes(d Deps) *http.ServeMux {
	apiMux := http.NewServeMux()
	ttl := cacheTTL()

	apiMux.HandleFunc("/object", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		metrics.LookupsTotal.Inc()

		id, ok := parseObjectID(r.URL.Query().Get("id"))
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "bad id"})
			return
		}
		key := "hier:" + strconv.FormatUint(uint64(id), 10)
		if d.Redis != nil {
			if s, _ := d.Redis.Get(ctx, key).Result(); s != "" {
				metrics.RedisHitsTotal.Inc()
				w.Header().Set("content-type", "application/json; charset=utf-8")
				w.Header().Set("cache-control", "no-store")
				_, _ = w.Write([]byte(s))
				metrics.LookupDurationMs.Observe(float64(time.Since(start).Milliseconds()))
				return
			}
			metrics.RedisMissesTotal.Inc()
		}

		found := d.Index.Get(id)
		if len(found) == 0 {
			metrics.EmptyLookupsTotal.Inc()
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"error": "not found"})
			return
		}
		res := make([]objectResult, 0, len(found))
		for _, e := range found {
			res = append(res, objectResult{
				ID:      strconv.FormatUint(uint64(e.ID), 10),
				Kind:    string(e.Kind),
				Name:    e.Name,
				Payload: e.Raw,
			})
		}
		if d.Eye != nil {
			d.Eye.RegisterLookup(string(found[0].Kind))
		}
		if d.Redis != nil {
			if b, err := json.Marshal(res); err == nil {
				d.Redis.Set(ctx, key, string(b)+"\n", ttl)
			}
		}
		writeJSON(w, res)
		metrics.LookupDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	})

	apiMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, statsResult{
			NumLoaded: d.Stats.NumLoaded,
			BadIDs:    d.Stats.BadIDs,
			BadJSONs:  d.Stats.BadJSONs,
			Entries:   d.Index.Len(),
		})
	})

	// 瓦片覆盖调试端点：矩形 + 缩放 -> 覆盖范围
	apiMux.HandleFunc("/tiles", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		getF := func(k string) float64 {
			v, _ := strconv.ParseFloat(q.Get(k), 64)
			return v
		}
		zoom, err := strconv.Atoi(q.Get("zoom"))
		if err != nil || zoom < 0 {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "bad zoom"})
			return
		}
		zoom = tileutil.ClipZoomByMaxDataZoom(zoom)
		cov := tileutil.CalcCoverage(getF("minx"), getF("miny"), getF("maxx"), getF("maxy"), zoom, nil)
		writeJSON(w, map[string]any{"zoom": zoom, "coverage": cov})
	})

	apiMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return apiMux
}
