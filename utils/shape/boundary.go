// 平面几何形状：道路/车道/路口边界多边形与中心线
package shape

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/samber/lo"
)

// Boundary 平面边界（多边形或多多边形）
// 功能：封装orb几何对象，提供点到边界的距离、包含判断与合法性检查
// 说明：距离语义为点在区域内部时为0，否则为到边界的最短距离
type Boundary struct {
	geom orb.Geometry
}

// NewPolygon 由若干环构造多边形边界，第一个环为外环，其余为洞
// 功能：将点列转换为orb.Polygon，未闭合的环会自动闭合
// 参数：rings-环列表
// 返回：边界，rings为空时返回nil
func NewPolygon(rings ...[]geometry.Point) *Boundary {
	if len(rings) == 0 {
		return nil
	}
	return &Boundary{geom: toPolygon(rings)}
}

// NewMultiPolygon 由若干多边形构造多多边形边界
// 功能：用于由多个不相连区域组成的路口边界
// 参数：polygons-多边形列表，每个多边形为环列表
// 返回：边界，polygons为空时返回nil
func NewMultiPolygon(polygons ...[][]geometry.Point) *Boundary {
	polygons = lo.Filter(polygons, func(p [][]geometry.Point, _ int) bool { return len(p) > 0 })
	if len(polygons) == 0 {
		return nil
	}
	if len(polygons) == 1 {
		return NewPolygon(polygons[0]...)
	}
	mp := make(orb.MultiPolygon, 0, len(polygons))
	for _, p := range polygons {
		mp = append(mp, toPolygon(p))
	}
	return &Boundary{geom: mp}
}

func toPolygon(rings [][]geometry.Point) orb.Polygon {
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		poly = append(poly, toRing(r))
	}
	return poly
}

func toRing(points []geometry.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Geometry 获取底层orb几何对象
func (b *Boundary) Geometry() orb.Geometry {
	return b.geom
}

// Bound 获取外接矩形
func (b *Boundary) Bound() orb.Bound {
	return b.geom.Bound()
}

// IsEmpty 是否为空边界
func (b *Boundary) IsEmpty() bool {
	if b == nil || b.geom == nil {
		return true
	}
	return len(b.polygons()) == 0
}

// Contains 点是否落在边界内（含边界线）
func (b *Boundary) Contains(p geometry.Point) bool {
	if b.IsEmpty() {
		return false
	}
	pt := orb.Point{p.X, p.Y}
	switch g := b.geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt) || planar.DistanceFrom(g, pt) == 0
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt) || planar.DistanceFrom(g, pt) == 0
	}
	return false
}

// Distance 点到边界的距离
// 功能：点在区域内时返回0，否则返回到最近边界线的欧氏距离
// 参数：p-查询点（仅使用XY）
// 返回：距离，空边界返回+Inf
func (b *Boundary) Distance(p geometry.Point) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	if b.Contains(p) {
		return 0
	}
	return planar.DistanceFrom(b.geom, orb.Point{p.X, p.Y})
}

// IsValid 边界是否为拓扑合法的多边形
// 功能：
// 1. 每个环坐标有限、闭合、点数足够且面积非零
// 2. 按OGC简单要素规则校验：环简单无自交，洞位于外环内且与外环至多交于孤立点，
// 多多边形的各部分内部互不相交
// 返回：true表示合法
func (b *Boundary) IsValid() bool {
	if b.IsEmpty() {
		return false
	}
	polygons := make([]geom.Polygon, 0, len(b.polygons()))
	for _, poly := range b.polygons() {
		if len(poly) == 0 {
			return false
		}
		rings := make([]geom.LineString, 0, len(poly))
		for _, ring := range poly {
			if !ringIsValid(ring) {
				return false
			}
			rings = append(rings, toLineString(ring))
		}
		polygons = append(polygons, geom.NewPolygon(rings))
	}
	if len(polygons) == 1 {
		if err := polygons[0].Validate(); err != nil {
			log.Debugf("invalid polygon: %v", err)
			return false
		}
		return true
	}
	if err := geom.NewMultiPolygon(polygons).Validate(); err != nil {
		log.Debugf("invalid multipolygon: %v", err)
		return false
	}
	return true
}

func (b *Boundary) polygons() []orb.Polygon {
	switch g := b.geom.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	}
	return nil
}

func toLineString(ring orb.Ring) geom.LineString {
	coords := make([]float64, 0, 2*len(ring))
	for _, p := range ring {
		coords = append(coords, p[0], p[1])
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

func ringIsValid(ring orb.Ring) bool {
	if len(ring) < 4 || !ring.Closed() {
		return false
	}
	for _, p := range ring {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			return false
		}
	}
	return planar.Area(ring) != 0
}
