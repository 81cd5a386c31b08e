// 数据导入工具：读取层级 dump，并行解析归并后批量写入 PostgreSQL
package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hier-api/internal/hierarchy"
	"hier-api/internal/logger"
	"hier-api/internal/migrate"
	"hier-api/internal/store"
	"hier-api/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()

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

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
		os.Exit(1)
	}
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	rd, err := hierarchy.Open(hierPath)
	if err != nil {
		os.Exit(1)
	}
	start := time.Now()
	entries, stats := rd.ReadEntries(readers)
	_ = rd.Close()
	snap := stats.Snapshot()
	// 本工具不挂载 /metrics，读取耗时走日志而非指标
	l.Info("hier_loaded",
		"entries", len(entries),
		"num_loaded", snap.NumLoaded,
		"bad_ids", snap.BadIDs,
		"bad_jsons", snap.BadJSONs,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	st := store.AttachDB(db)
	ctx := context.Background()
	if err := st.BulkLoad(ctx, entries); err != nil {
		l.Error("pg_load_error", "err", err)
		os.Exit(1)
	}
	if err := st.SaveStats(ctx, snap); err != nil {
		l.Error("pg_stats_error", "err", err)
		os.Exit(1)
	}
	l.Info("ingest_done", "rows", len(entries))
}
