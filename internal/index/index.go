// 包 index：在归并输出的有序序列上提供按 id 的内存查找
// 背景：下游真正的索引构建在别处；此处仅为查询服务保留一个二分查找视图，
// 不复制条目、不改变顺序
package index

import (
	"sort"

	"hier-api/internal/hierarchy"
)

type Index struct {
	entries []hierarchy.Entry
}

// Build：在有序序列上建立视图
// 约束：输入必须按 id 非递减（hierarchy.Reader 的输出即满足）；不拷贝切片
func Build(entries []hierarchy.Entry) *Index {
	return &Index{entries: entries}
}

func (x *Index) Len() int { return len(x.entries) }

// Get：返回该 id 的全部条目，保持归并输出中的相对顺序；无命中返回 nil
func (x *Index) Get(id hierarchy.GeoObjectID) []hierarchy.Entry {
	lo := sort.Search(len(x.entries), func(i int) bool { return x.entries[i].ID >= id })
	hi := lo
	for hi < len(x.entries) && x.entries[hi].ID == id {
		hi++
	}
	if lo == hi {
		return nil
	}
	return x.entries[lo:hi]
}
