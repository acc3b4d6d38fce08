package shape

import (
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

// Curve 带弧长参数化的折线（道路/车道中心线）
// 功能：提供点到曲线的投影（s坐标）与按s坐标取位置、朝向
type Curve struct {
	line       []geometry.Point             // 折线点
	lengths    []float64                    // 折线点对应的累计长度
	directions []geometry.PolylineDirection // 折线段方向（atan2）
	length     float64                      // 总长度
}

// NewCurve 根据折线点构造曲线
// 功能：预计算累计长度与每段方向
// 参数：points-折线点，至少2个
// 返回：曲线，点数不足时返回nil
func NewCurve(points []geometry.Point) *Curve {
	if len(points) < 2 {
		return nil
	}
	c := &Curve{line: points}
	c.lengths = geometry.GetPolylineLengths2D(c.line)
	c.length = c.lengths[len(c.lengths)-1]
	c.directions = geometry.GetPolylineDirections(c.line)
	return c
}

// Length 曲线总长度
func (c *Curve) Length() float64 {
	return c.length
}

// Points 曲线的折线点
func (c *Curve) Points() []geometry.Point {
	return c.line
}

func (c *Curve) Start() geometry.Point {
	return c.line[0]
}

func (c *Curve) End() geometry.Point {
	return c.line[len(c.line)-1]
}

// Project 将点投影到曲线上，返回[0, length]内的s坐标
func (c *Curve) Project(p geometry.Point) float64 {
	s := geometry.GetClosestPolylineSToPoint2D(c.line, c.lengths, p)
	return lo.Clamp(s, 0, c.length)
}

// Calc 按s坐标计算曲线上的位置与切线朝向
// 功能：s超出范围时截断到端点
// 参数：s-弧长坐标
// 返回：位置、朝向（弧度）
func (c *Curve) Calc(s float64) (geometry.Point, float64) {
	if s < 0 || s > c.length {
		log.Tracef("calc with s %v out of range{0,%v}", s, c.length)
		s = lo.Clamp(s, 0, c.length)
	}
	i := sort.SearchFloat64s(c.lengths, s)
	if i == 0 {
		return c.line[0], c.directions[0].Direction
	}
	sHigh, sLow := c.lengths[i], c.lengths[i-1]
	if sHigh == sLow {
		return c.line[i], c.directions[i-1].Direction
	}
	k := (s - sLow) / (sHigh - sLow)
	return geometry.Blend(c.line[i-1], c.line[i], k), c.directions[i-1].Direction
}

// Heading 点投影处的切线朝向
func (c *Curve) Heading(p geometry.Point) float64 {
	_, h := c.Calc(c.Project(p))
	return h
}

// DistanceTo 点到曲线的最短距离
func (c *Curve) DistanceTo(p geometry.Point) float64 {
	q, _ := c.Calc(c.Project(p))
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Reversed 方向相反的曲线
func (c *Curve) Reversed() *Curve {
	return NewCurve(lo.Reverse(append([]geometry.Point{}, c.line...)))
}

// Sub 截取[from, to]区间内的折线点（含插值端点）
// 返回：折线点，区间过短时只含两个端点
func (c *Curve) Sub(from, to float64) []geometry.Point {
	from = lo.Clamp(from, 0, c.length)
	to = lo.Clamp(to, from, c.length)
	start, _ := c.Calc(from)
	end, _ := c.Calc(to)
	points := []geometry.Point{start}
	for i, s := range c.lengths {
		if s > from && s < to {
			points = append(points, c.line[i])
		}
	}
	return append(points, end)
}

// NormalizeAngle 将角度归一化到[-π, π]
func NormalizeAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// AngleGap 两个朝向间的最小夹角，范围[0, π]
func AngleGap(a, b float64) float64 {
	return math.Abs(NormalizeAngle(a - b))
}
