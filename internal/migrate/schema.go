package migrate

import (
	"database/sql"

	"hier-api/internal/logger"
)

// 背景：首次运行自动创建层级表与统计表，保障后续批量导入与查询
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
// NOTE: osm_id 以 BIGINT 存储，与上游有符号落盘一致；读出后按位重解释为无符号
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _geo_hierarchy (
            seq BIGINT PRIMARY KEY,
            osm_id BIGINT NOT NULL,
            kind TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            payload JSONB
        )`,
		`CREATE INDEX IF NOT EXISTS idx_geo_hierarchy_osm ON _geo_hierarchy(osm_id)`,
		`CREATE TABLE IF NOT EXISTS _geo_ingest_stats (
            id INT PRIMARY KEY,
            num_loaded BIGINT NOT NULL DEFAULT 0,
            bad_ids BIGINT NOT NULL DEFAULT 0,
            bad_jsons BIGINT NOT NULL DEFAULT 0,
            loaded_at TIMESTAMPTZ
        )`,
		`INSERT INTO _geo_ingest_stats(id, num_loaded, bad_ids, bad_jsons)
         VALUES(1, 0, 0, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
