package hierarchy

import "sort"

// partition：单个 worker 私有的有序多重映射（按 id 升序，同 id 保留插入顺序）
// 约束：解析期间仅属主 worker 写入；worker 结束后所有权移交归并阶段，此后只读
type partition struct {
	entries []Entry
	head    int
}

func (p *partition) size() int { return len(p.entries) - p.head }

func (p *partition) empty() bool { return p.head >= len(p.entries) }

func (p *partition) front() *Entry { return &p.entries[p.head] }

func (p *partition) pop() Entry {
	e := p.entries[p.head]
	p.head++
	return e
}

// seal：worker 结束时按 id 稳定排序，使分片满足有序多重映射语义
// 约束：必须稳定——同 id 条目的相对顺序即其插入顺序，归并阶段依赖该顺序
func (p *partition) seal() {
	sort.SliceStable(p.entries, func(i, j int) bool { return p.entries[i].ID < p.entries[j].ID })
}

// unionEntries：k 路确定性归并
// 背景：每轮扫描所有非空分片，取全局最小队首 id；严格小于比较使同 id 时
// 自然偏向更低的分片下标，这一平局规则保证同等 worker 数下跨运行可复现
// 约束：k ≤ 8，扫描式选择为 O(k·n)，刻意不用堆；若 k 放开需换堆并保持相同平局序
// 后置条件：输出长度等于各分片长度之和，按 id 非递减
func unionEntries(parts []*partition) []Entry {
	total := 0
	for _, p := range parts {
		total += p.size()
	}
	out := make([]Entry, 0, total)

	for {
		best := -1
		for i, p := range parts {
			if p.empty() {
				continue
			}
			if best < 0 || p.front().ID < parts[best].front().ID {
				best = i
			}
		}
		if best < 0 {
			return out
		}
		out = append(out, parts[best].pop())
	}
}
