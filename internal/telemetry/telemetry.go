// 包 telemetry：服务使用情况的写时复制快照
// 背景：读多写少——查询路径只取当前快照，任何变更在副本上进行、落盘成功后
// 原子替换；读取方永远看到完整一致的版本，无需加锁
package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"hier-api/internal/logger"
)

const snapshotFile = "telemetry.json"

// IngestSummary：最近一次导入的概要
type IngestSummary struct {
	NumLoaded uint64    `json:"num_loaded"`
	BadIDs    uint64    `json:"bad_ids"`
	BadJSONs  uint64    `json:"bad_jsons"`
	At        time.Time `json:"at"`
}

// Info：不可变快照；写入方复制后修改，绝不原地变更
type Info struct {
	TotalLookups  uint64            `json:"total_lookups"`
	LookupsByKind map[string]uint64 `json:"lookups_by_kind"`
	LastIngest    *IngestSummary    `json:"last_ingest,omitempty"`
}

func (in *Info) clone() *Info {
	cp := &Info{
		TotalLookups:  in.TotalLookups,
		LookupsByKind: make(map[string]uint64, len(in.LookupsByKind)),
		LastIngest:    in.LastIngest,
	}
	for k, v := range in.LookupsByKind {
		cp.LookupsByKind[k] = v
	}
	return cp
}

// Eye：快照持有者；写入由互斥串行化，读取完全无锁
type Eye struct {
	info atomic.Value // *Info
	mu   sync.Mutex
	dir  string
	subs []func(Info)
}

// Open：从目录加载既有快照；文件损坏时记录错误并从空快照重新开始
// 约束：dir 为空表示不落盘，仅在内存维护
func Open(dir string) *Eye {
	e := &Eye{dir: dir}
	in := &Info{LookupsByKind: map[string]uint64{}}
	if dir != "" {
		if b, err := os.ReadFile(filepath.Join(dir, snapshotFile)); err == nil {
			if err := json.Unmarshal(b, in); err != nil {
				logger.L().Error("telemetry_load_error", "err", err)
				in = &Info{LookupsByKind: map[string]uint64{}}
			}
			if in.LookupsByKind == nil {
				in.LookupsByKind = map[string]uint64{}
			}
		}
	}
	e.info.Store(in)
	return e
}

// Info：当前快照的值拷贝
func (e *Eye) Info() Info { return *e.info.Load().(*Info) }

// Subscribe：注册变更回调；回调收到的是快照值，可安全留存
func (e *Eye) Subscribe(fn func(Info)) {
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

// RegisterLookup：记录一次按 kind 的查询
func (e *Eye) RegisterLookup(kind string) {
	e.update(func(in *Info) {
		in.TotalLookups++
		in.LookupsByKind[kind]++
	})
}

// RegisterIngest：记录一次导入概要
func (e *Eye) RegisterIngest(numLoaded, badIDs, badJSONs uint64) {
	e.update(func(in *Info) {
		in.LastIngest = &IngestSummary{
			NumLoaded: numLoaded,
			BadIDs:    badIDs,
			BadJSONs:  badJSONs,
			At:        time.Now(),
		}
	})
}

// update：复制-修改-落盘-替换；落盘失败时旧快照保持生效
// 约束：回调在锁外执行，订阅方可以安全地再次调用 Eye 的任何方法
func (e *Eye) update(mutate func(*Info)) {
	e.mu.Lock()
	next := e.info.Load().(*Info).clone()
	mutate(next)
	if !e.save(next) {
		e.mu.Unlock()
		return
	}
	e.info.Store(next)
	subs := make([]func(Info), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(*next)
	}
}

func (e *Eye) save(in *Info) bool {
	if e.dir == "" {
		return true
	}
	b, err := json.Marshal(in)
	if err != nil {
		logger.L().Error("telemetry_save_error", "err", err)
		return false
	}
	if err := os.WriteFile(filepath.Join(e.dir, snapshotFile), b, 0o644); err != nil {
		logger.L().Error("telemetry_save_error", "err", err)
		return false
	}
	return true
}
