package hierarchy

import (
	"errors"
	"sync"

	"hier-api/internal/logger"
)

// logBatch：每成功装载这么多条目输出一次进度日志；跨 worker 最终一致，仅供观测
const logBatch = 100000

// maxReaders：共享单游标下并发收益递减的上界
const maxReaders = 8

// Reader：层级数据读取编排器，负责 worker 数量钳制、派生/汇合与最终归并
type Reader struct {
	src *LineSource
}

// Open：以文件路径构造；打开失败即整个操作的致命错误
func Open(path string) (*Reader, error) {
	src, err := OpenLineSource(path)
	if err != nil {
		logger.L().Error("hier_open_error", "err", err)
		return nil, err
	}
	return &Reader{src: src}, nil
}

// New：以既有数据源构造，测试与手工注入场景
func New(src *LineSource) *Reader { return &Reader{src: src} }

// Close：释放底层数据源
func (r *Reader) Close() error { return r.src.Close() }

// clampReaders：请求数钳制到 [1, maxReaders]
func clampReaders(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxReaders {
		return maxReaders
	}
	return n
}

// ReadEntries：并行读取全部条目并归并为按 id 升序的单一序列
// 背景：派生钳制后的 worker 组共享一个行游标与一套计数器，各自填充私有分片；
// 全量汇合之后才进入单线程归并，分片在归并期间不会被并发访问
// 异常：行级失败只计数不中断；致命错误仅存在于构造期（见 Open）
func (r *Reader) ReadEntries(readers int) ([]Entry, *ParsingStats) {
	readers = clampReaders(readers)
	l := logger.L()
	l.Info("hier_read_start", "readers", readers)

	stats := &ParsingStats{}
	parts := make([]*partition, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		parts[i] = &partition{}
		wg.Add(1)
		go func(p *partition) {
			defer wg.Done()
			r.readEntryMap(p, stats)
		}(parts[i])
	}
	wg.Wait()

	// 末尾里程碑未整除时补一条最终进度
	if n := stats.Snapshot().NumLoaded; n%logBatch != 0 {
		l.Info("hier_read_progress", "entries", n)
	}

	l.Info("hier_sort_start")
	entries := unionEntries(parts)
	l.Info("hier_read_done", "entries", len(entries))
	return entries, stats
}

// readEntryMap：单 worker 的取行-解析-落入私有分片循环
// 约束：唯一的同步段是行游标的取行；任何 worker 不读写其他 worker 的分片
func (r *Reader) readEntryMap(p *partition, stats *ParsingStats) {
	l := logger.L()
	for {
		line, ok := r.src.NextLine()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		e, err := ParseLine(line)
		if err != nil {
			if errors.Is(err, ErrBadID) {
				l.Warn("hier_bad_id", "line", line)
				stats.addBadID()
			} else {
				l.Warn("hier_bad_payload", "line", line)
				stats.addBadJSON()
			}
			continue
		}
		if e.Kind == KindNone {
			// 哨兵判别值：解析成功但不是真实记录，不计入任何计数
			continue
		}

		n := stats.addLoaded()
		if n%logBatch == 0 {
			l.Info("hier_read_progress", "entries", (n/logBatch)*logBatch)
		}
		p.entries = append(p.entries, e)
	}
	p.seal()
}
