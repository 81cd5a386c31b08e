// 包 tileutil：墨卡托矩形的瓦片覆盖计算，纯确定性算术，无状态
package tileutil

import "math"

// 墨卡托平面坐标范围与数据最大缩放级别
const (
	mercatorMinX = -180.0
	mercatorMaxX = 180.0

	// MaxDataZoom：数据侧可用的最大缩放级别，超过后瓦片内容不再细化
	MaxDataZoom = 17
)

// TileKey：某缩放级别下的瓦片坐标
type TileKey struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Zoom int `json:"zoom"`
}

// Coverage：矩形在目标缩放级别下覆盖的瓦片范围，[Min, Max) 半开区间
type Coverage struct {
	MinTileX int `json:"min_tile_x"`
	MaxTileX int `json:"max_tile_x"`
	MinTileY int `json:"min_tile_y"`
	MaxTileY int `json:"max_tile_y"`
}

// CalcCoverage：计算矩形覆盖的瓦片范围；visit 非空时按行序回调每个覆盖瓦片
func CalcCoverage(minX, minY, maxX, maxY float64, targetZoom int, visit func(x, y int)) Coverage {
	rectSize := (mercatorMaxX - mercatorMinX) / float64(int(1)<<uint(targetZoom))

	var c Coverage
	c.MinTileX = int(math.Floor(minX / rectSize))
	c.MaxTileX = int(math.Ceil(maxX / rectSize))
	c.MinTileY = int(math.Floor(minY / rectSize))
	c.MaxTileY = int(math.Ceil(maxY / rectSize))

	if visit != nil {
		for ty := c.MinTileY; ty < c.MaxTileY; ty++ {
			for tx := c.MinTileX; tx < c.MaxTileX; tx++ {
				visit(tx, ty)
			}
		}
	}
	return c
}

// IsNeighbours：两瓦片是否相邻（同一瓦片不算相邻）
func IsNeighbours(a, b TileKey) bool {
	return !(a.X == b.X && a.Y == b.Y) &&
		abs(a.X-b.X) < 2 &&
		abs(a.Y-b.Y) < 2
}

// ClipZoomByMaxDataZoom：将请求缩放钳制到数据最大级别
func ClipZoomByMaxDataZoom(zoom int) int {
	if zoom <= MaxDataZoom {
		return zoom
	}
	return MaxDataZoom
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
