// 程序入口：读取配置、装载层级数据并启动查询服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hier-api/internal/api"
	"hier-api/internal/hierarchy"
	"hier-api/internal/index"
	"hier-api/internal/logger"
	"hier-api/internal/metrics"
	"hier-api/internal/middleware"
	"hier-api/internal/telemetry"
	"hier-api/internal/utils"
	"hier-api/internal/version"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Info("service_start", "version", version.Version)

	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	hierPath := os.Getenv("HIER_PATH")
	if hierPath == "" {
		hierPath = filepath.Join("data", "hierarchy.jsonl")
	}
	readers := 4
	if s := os.Getenv("HIER_WORKERS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			readers = n
		}
	}

	// 数据源不可读是唯一致命错误
	rd, err := hierarchy.Open(hierPath)
	if err != nil {
		os.Exit(1)
	}
	start := time.Now()
	entries, stats := rd.ReadEntries(readers)
	_ = rd.Close()
	snap := stats.Snapshot()
	metrics.ReadDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	metrics.EntriesLoadedTotal.Add(float64(snap.NumLoaded))
	metrics.BadLinesTotal.WithLabelValues("bad_id").Add(float64(snap.BadIDs))
	metrics.BadLinesTotal.WithLabelValues("bad_json").Add(float64(snap.BadJSONs))
	l.Info("hier_loaded",
		"entries", len(entries),
		"num_loaded", snap.NumLoaded,
		"bad_ids", snap.BadIDs,
		"bad_jsons", snap.BadJSONs,
	)

	idx := index.Build(entries)

	eye := telemetry.Open(os.Getenv("TELEMETRY_DIR"))
	eye.RegisterIngest(snap.NumLoaded, snap.BadIDs, snap.BadJSONs)

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(context.Background()).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(api.Deps{Index: idx, Stats: snap, Redis: rc, Eye: eye})
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle("/metrics", metrics.Handler())

	h := middleware.Wrap(logger.AccessMiddleware(l)(mux))
	addr := ":" + envOr("PORT", "8080")
	l.Info("http_listen", "addr", addr, "base", apiBase)
	if err := http.ListenAndServe(addr, h); err != nil {
		l.Error("http_serve_error", "err", err)
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
