package entity

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// Goal 导航目标
type Goal interface {
	Center() geometry.Point               // 目标中心
	Distance(curve *shape.Curve) float64  // 曲线到目标的距离
	Reached(p geometry.Point) bool        // 点是否已到达目标
	PassedThrough(curve *shape.Curve) bool // 曲线是否经过目标
}

// PointGoal 以点为中心、半径为容差的圆形目标
type PointGoal struct {
	center geometry.Point
	radius float64
}

func NewPointGoal(center geometry.Point, radius float64) *PointGoal {
	return &PointGoal{center: center, radius: radius}
}

func (g *PointGoal) String() string {
	return fmt.Sprintf("PointGoal{(%.2f,%.2f), r=%.2f}", g.center.X, g.center.Y, g.radius)
}

func (g *PointGoal) Center() geometry.Point {
	return g.center
}

func (g *PointGoal) Radius() float64 {
	return g.radius
}

// Distance 曲线到目标中心的最短距离，曲线为nil时为+Inf
func (g *PointGoal) Distance(curve *shape.Curve) float64 {
	if curve == nil {
		return math.Inf(1)
	}
	return curve.DistanceTo(g.center)
}

func (g *PointGoal) Reached(p geometry.Point) bool {
	return math.Hypot(p.X-g.center.X, p.Y-g.center.Y) <= g.radius
}

func (g *PointGoal) PassedThrough(curve *shape.Curve) bool {
	return g.Distance(curve) <= g.radius
}
