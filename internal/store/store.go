// 包 store: 提供与 PostgreSQL 的数据访问层，负责层级序列的批量落库与读回
package store

import (
	"context"
	"database/sql"
	"time"

	"hier-api/internal/hierarchy"
	"hier-api/internal/logger"

	_ "github.com/lib/pq"
)

// 批量导入的事务批次大小；平衡写入延迟、锁持有与 WAL 压力
const loadBatch = 5000

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// BulkLoad: 将归并后的有序序列整体落库
// 背景：seq 为全局顺序位置，下游按 seq 读回即恢复归并输出的顺序；
// 每 loadBatch 行提交一次事务并输出进度
// 约束：重新导入前先清空旧序列，保证两次导入结果可比（幂等）
func (s *Store) BulkLoad(ctx context.Context, entries []hierarchy.Entry) error {
	l := logger.L()
	l.Info("pg_load_start", "entries", len(entries))
	if _, err := s.db.ExecContext(ctx, "TRUNCATE _geo_hierarchy"); err != nil {
		return err
	}

	const insert = "INSERT INTO _geo_hierarchy(seq,osm_id,kind,name,payload) VALUES($1,$2,$3,$4,$5)"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	// 批次提交会轮换 tx/stmt，错误路径必须释放当前批次，而非最初那个
	fail := func(err error) error {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}

	for i, e := range entries {
		payload := []byte(e.Raw)
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx, int64(i), int64(uint64(e.ID)), string(e.Kind), e.Name, payload); err != nil {
			return fail(err)
		}
		if (i+1)%loadBatch == 0 {
			if err := tx.Commit(); err != nil {
				return err
			}
			l.Info("pg_load_progress", "rows", i+1)
			tx, err = s.db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			stmt, err = tx.PrepareContext(ctx, insert)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	l.Info("pg_load_done", "rows", len(entries))
	return nil
}

// SaveStats: 以单行 upsert 记录最近一次导入的解析统计
func (s *Store) SaveStats(ctx context.Context, snap hierarchy.StatsSnapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO _geo_ingest_stats(id, num_loaded, bad_ids, bad_jsons, loaded_at)
         VALUES(1, $1, $2, $3, $4)
         ON CONFLICT (id) DO UPDATE
         SET num_loaded=$1, bad_ids=$2, bad_jsons=$3, loaded_at=$4`,
		int64(snap.NumLoaded), int64(snap.BadIDs), int64(snap.BadJSONs), time.Now())
	return err
}

// GetStats: 读回最近一次导入统计；从未导入时返回零值
func (s *Store) GetStats(ctx context.Context) (hierarchy.StatsSnapshot, error) {
	var snap hierarchy.StatsSnapshot
	var loaded, badIDs, badJSONs int64
	row := s.db.QueryRowContext(ctx,
		"SELECT num_loaded, bad_ids, bad_jsons FROM _geo_ingest_stats WHERE id=1")
	if err := row.Scan(&loaded, &badIDs, &badJSONs); err != nil {
		if err == sql.ErrNoRows {
			return snap, nil
		}
		return snap, err
	}
	snap.NumLoaded = uint64(loaded)
	snap.BadIDs = uint64(badIDs)
	snap.BadJSONs = uint64(badJSONs)
	return snap, nil
}

// GetByID: 按对象标识读回条目，同 id 多条时保持落库顺序（即归并顺序）
func (s *Store) GetByID(ctx context.Context, id hierarchy.GeoObjectID) ([]hierarchy.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT osm_id, kind, name, payload FROM _geo_hierarchy WHERE osm_id=$1 ORDER BY seq",
		int64(uint64(id)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []hierarchy.Entry
	for rows.Next() {
		var osm int64
		var kind, name string
		var payload []byte
		if err := rows.Scan(&osm, &kind, &name, &payload); err != nil {
			return nil, err
		}
		out = append(out, hierarchy.Entry{
			ID:   hierarchy.GeoObjectID(uint64(osm)),
			Kind: hierarchy.Kind(kind),
			Name: name,
			Raw:  payload,
		})
	}
	return out, rows.Err()
}

// CountEntries: 当前落库的序列长度
func (s *Store) CountEntries(ctx context.Context) (int64, error) {
	var c int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM _geo_hierarchy").Scan(&c)
	return c, err
}
