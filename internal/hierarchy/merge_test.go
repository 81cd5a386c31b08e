package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func part(ids ...uint64) *partition {
	p := &partition{}
	for _, id := range ids {
		p.entries = append(p.entries, Entry{ID: GeoObjectID(id), Kind: "x"})
	}
	p.seal()
	return p
}

func mergedIDs(entries []Entry) []uint64 {
	out := make([]uint64, 0, len(entries))
	for _, e := range entries {
		out = append(out, uint64(e.ID))
	}
	return out
}

func TestUnionEntriesLengthAndOrder(t *testing.T) {
	parts := []*partition{
		part(5, 1, 9),
		part(2, 2, 8),
		part(7),
	}
	out := unionEntries(parts)
	require.Len(t, out, 7)
	assert.Equal(t, []uint64{1, 2, 2, 5, 7, 8, 9}, mergedIDs(out))
}

// 同 id 条目按分片下标升序输出
func TestUnionEntriesTieBreak(t *testing.T) {
	p0 := &partition{}
	p0.entries = append(p0.entries, Entry{ID: 10, Name: "p0-first"}, Entry{ID: 10, Name: "p0-second"})
	p1 := &partition{}
	p1.entries = append(p1.entries, Entry{ID: 10, Name: "p1"})
	out := unionEntries([]*partition{p0, p1})
	require.Len(t, out, 3)
	assert.Equal(t, "p0-first", out[0].Name)
	assert.Equal(t, "p0-second", out[1].Name)
	assert.Equal(t, "p1", out[2].Name)
}

func TestUnionEntriesEmptyPartitions(t *testing.T) {
	assert.Empty(t, unionEntries(nil))
	assert.Empty(t, unionEntries([]*partition{{}, {}}))

	out := unionEntries([]*partition{{}, part(3), {}})
	assert.Equal(t, []uint64{3}, mergedIDs(out))
}

// seal 必须稳定：同 id 的插入顺序在排序后保持不变
func TestPartitionSealStable(t *testing.T) {
	p := &partition{}
	p.entries = append(p.entries,
		Entry{ID: 2, Name: "b1"},
		Entry{ID: 1, Name: "a"},
		Entry{ID: 2, Name: "b2"},
	)
	p.seal()
	assert.Equal(t, "a", p.entries[0].Name)
	assert.Equal(t, "b1", p.entries[1].Name)
	assert.Equal(t, "b2", p.entries[2].Name)
}
