// 包 hierarchy：离线地理编码层级数据的并行读取、解析与归并
package hierarchy

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
)

// GeoObjectID：外部地图数据集（OSM）对象标识，64 位无符号整数空间，定义归并键与相等性
type GeoObjectID uint64

// Kind：层级记录的判别类型（country/region/locality/street/building 等均为数据，不在此枚举）
// 约束：哨兵值表示"非真实记录"，解析成功但不进入结果，也不参与任何计数
type Kind string

// KindNone：哨兵判别值，保留名 "count"（上游以该值标记非真实记录）；
// payload 缺失 type 或显式为空时同样归一为哨兵
const KindNone Kind = "count"

// Entry：一条层级记录，配对对象标识与行政层级元数据
// 背景：payload 除判别类型与名称外按不透明处理，原始 JSON 保留给下游索引构建方
type Entry struct {
	ID      GeoObjectID       `json:"-"`
	Kind    Kind              `json:"type"`
	Name    string            `json:"name,omitempty"`
	Address map[string]string `json:"address,omitempty"`
	Raw     json.RawMessage   `json:"-"`
}

// 行级可恢复失败的分类；不向 worker 之外传播，仅用于计数与告警
var (
	ErrBadID   = errors.New("bad object id")
	ErrBadJSON = errors.New("bad hierarchy payload")
)

// ParseLine：纯函数，单行文本 -> (id, Entry) 或分类失败
// 格式：<有符号64位标识><单个空格><JSON payload>
// 约束：标识必须先按**有符号** int64 解码再按位重解释为无符号 —— 上游生成器以
// 有符号形式落盘，原生无符号解析在符号边界附近会接受/拒绝不同的输入集合，
// 该行为需逐位复现而非"修正"
func ParseLine(line string) (Entry, error) {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return Entry{}, ErrBadID
	}
	encoded, err := strconv.ParseInt(line[:i], 10, 64)
	if err != nil {
		return Entry{}, ErrBadID
	}
	id := GeoObjectID(uint64(encoded))

	payload := line[i+1:]
	var e Entry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return Entry{}, ErrBadJSON
	}
	if e.Kind == "" {
		e.Kind = KindNone
	}
	e.ID = id
	e.Raw = json.RawMessage(payload)
	return e, nil
}

// ParsingStats：单次读取的精确计数器；多 worker 并发自增，汇总不允许丢失更新
// 约束：字段仅通过 atomic 访问；对外读取走 Snapshot
type ParsingStats struct {
	numLoaded uint64
	badIDs    uint64
	badJSONs  uint64
}

func (s *ParsingStats) addLoaded() uint64 { return atomic.AddUint64(&s.numLoaded, 1) }

func (s *ParsingStats) addBadID() { atomic.AddUint64(&s.badIDs, 1) }

func (s *ParsingStats) addBadJSON() { atomic.AddUint64(&s.badJSONs, 1) }

// StatsSnapshot：计数器的一致读出，供 API/入库/日志使用
type StatsSnapshot struct {
	NumLoaded uint64 `json:"num_loaded"`
	BadIDs    uint64 `json:"bad_ids"`
	BadJSONs  uint64 `json:"bad_jsons"`
}

func (s *ParsingStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		NumLoaded: atomic.LoadUint64(&s.numLoaded),
		BadIDs:    atomic.LoadUint64(&s.badIDs),
		BadJSONs:  atomic.LoadUint64(&s.badJSONs),
	}
}
