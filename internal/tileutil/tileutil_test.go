package tileutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcCoverageWholeWorld(t *testing.T) {
	var visited [][2]int
	c := CalcCoverage(-180, -180, 180, 180, 1, func(x, y int) {
		visited = append(visited, [2]int{x, y})
	})
	assert.Equal(t, Coverage{MinTileX: -1, MaxTileX: 1, MinTileY: -1, MaxTileY: 1}, c)
	assert.Len(t, visited, 4)
	// 行序回调
	assert.Equal(t, [2]int{-1, -1}, visited[0])
	assert.Equal(t, [2]int{0, 0}, visited[3])
}

func TestCalcCoverageSmallRect(t *testing.T) {
	// zoom 3 下瓦片边长 45；矩形 [10,20]x[50,70] 落在 x 瓦片 0、y 瓦片 1..2
	c := CalcCoverage(10, 50, 20, 70, 3, nil)
	assert.Equal(t, Coverage{MinTileX: 0, MaxTileX: 1, MinTileY: 1, MaxTileY: 2}, c)
}

func TestIsNeighbours(t *testing.T) {
	a := TileKey{X: 3, Y: 3, Zoom: 10}
	assert.False(t, IsNeighbours(a, a))
	assert.True(t, IsNeighbours(a, TileKey{X: 4, Y: 3}))
	assert.True(t, IsNeighbours(a, TileKey{X: 2, Y: 4}))
	assert.False(t, IsNeighbours(a, TileKey{X: 5, Y: 3}))
	assert.False(t, IsNeighbours(a, TileKey{X: 3, Y: 1}))
}

func TestClipZoomByMaxDataZoom(t *testing.T) {
	assert.Equal(t, 5, ClipZoomByMaxDataZoom(5))
	assert.Equal(t, MaxDataZoom, ClipZoomByMaxDataZoom(MaxDataZoom))
	assert.Equal(t, MaxDataZoom, ClipZoomByMaxDataZoom(MaxDataZoom+5))
}
