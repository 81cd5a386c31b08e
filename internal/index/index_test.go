package index

import (
	"testing"

	"hier-api/internal/hierarchy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexGet(t *testing.T) {
	entries := []hierarchy.Entry{
		{ID: 1, Name: "a"},
		{ID: 5, Name: "b1"},
		{ID: 5, Name: "b2"},
		{ID: 9, Name: "c"},
	}
	idx := Build(entries)
	assert.Equal(t, 4, idx.Len())

	got := idx.Get(5)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].Name)
	assert.Equal(t, "b2", got[1].Name)

	require.Len(t, idx.Get(1), 1)
	assert.Nil(t, idx.Get(4))
	assert.Nil(t, idx.Get(100))
}

func TestIndexEmpty(t *testing.T) {
	idx := Build(nil)
	assert.Zero(t, idx.Len())
	assert.Nil(t, idx.Get(1))
}
