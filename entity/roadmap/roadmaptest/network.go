// 用于测试的合成路网描述
package roadmaptest

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// 车道宽度
const LaneWidth = 3.5

// Rect 轴对齐矩形边界（单环）
func Rect(x0, y0, x1, y1 float64) [][]input.XY {
	return [][]input.XY{{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}}
}

// Polygon 由坐标序列构造单环边界
func Polygon(xy ...float64) [][]input.XY {
	return [][]input.XY{Line(xy...)}
}

// Line 由坐标序列x0,y0,x1,y1...构造折线
func Line(xy ...float64) []input.XY {
	points := make([]input.XY, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		points = append(points, input.XY{X: xy[i], Y: xy[i+1]})
	}
	return points
}

// ToRoad 到道路的链接
func ToRoad(id int32) *input.LinkData {
	return &input.LinkData{ElementType: "road", ElementID: id}
}

// ToJunction 到路口的链接
func ToJunction(id int32) *input.LinkData {
	return &input.LinkData{ElementType: "junction", ElementID: id}
}

// HorizontalRoad 沿x轴正方向、中心线y=yc的双向道路，左右各一条机动车道
func HorizontalRoad(id int32, x0, x1, yc float64) input.RoadData {
	return input.RoadData{
		ID:       id,
		Boundary: Rect(x0, yc-LaneWidth, x1, yc+LaneWidth),
		Midline:  Line(x0, yc, x1, yc),
		LaneSections: []input.LaneSectionData{{Lanes: []input.LaneData{
			{ID: 1, Type: "driving", Boundary: Rect(x0, yc, x1, yc+LaneWidth), Midline: Line(x0, yc+LaneWidth/2, x1, yc+LaneWidth/2)},
			{ID: 0, Type: "none"},
			{ID: -1, Type: "driving", Boundary: Rect(x0, yc-LaneWidth, x1, yc), Midline: Line(x0, yc-LaneWidth/2, x1, yc-LaneWidth/2)},
		}}},
	}
}

// VerticalRoad 沿y轴正方向、中心线x=xc的双向道路，左右各一条机动车道
func VerticalRoad(id int32, y0, y1, xc float64) input.RoadData {
	return input.RoadData{
		ID:       id,
		Boundary: Rect(xc-LaneWidth, y0, xc+LaneWidth, y1),
		Midline:  Line(xc, y0, xc, y1),
		LaneSections: []input.LaneSectionData{{Lanes: []input.LaneData{
			{ID: 1, Type: "driving", Boundary: Rect(xc-LaneWidth, y0, xc, y1), Midline: Line(xc-LaneWidth/2, y0, xc-LaneWidth/2, y1)},
			{ID: 0, Type: "none"},
			{ID: -1, Type: "driving", Boundary: Rect(xc, y0, xc+LaneWidth, y1), Midline: Line(xc+LaneWidth/2, y0, xc+LaneWidth/2, y1)},
		}}},
	}
}

// Straight 单条100m直路，右侧另有一条人行道
//
//	y=3.5  ------------------------- lane 1
//	y=0    ------------------------- center
//	y=-3.5 ------------------------- lane -1
//	y=-5   ------------------------- sidewalk -2
func Straight() *input.MapData {
	r := HorizontalRoad(1, 0, 100, 0)
	r.Name = "straight"
	r.Boundary = Rect(0, -5, 100, LaneWidth)
	r.LaneSections[0].Lanes = append(r.LaneSections[0].Lanes, input.LaneData{
		ID: -2, Type: "sidewalk", Boundary: Rect(0, -5, 100, -LaneWidth), Midline: Line(0, -4.25, 100, -4.25),
	})
	return &input.MapData{
		Header: input.Header{Name: "straight", Date: "2024-01-01", North: LaneWidth, South: -5, East: 100, West: 0, GeoReference: "+proj=tmerc"},
		Roads:  []input.RoadData{r},
	}
}

// Crossing 两条不在路口内的交叉道路：道路1沿x轴（0..100），道路5沿y轴（x=50，-50..50）
func Crossing() *input.MapData {
	return &input.MapData{
		Header: input.Header{Name: "crossing"},
		Roads: []input.RoadData{
			HorizontalRoad(1, 0, 100, 0),
			VerticalRoad(5, -50, 50, 50),
		},
	}
}

// TripleCrossing 三条在(50, 1)处重叠的道路，按描述顺序依次为
// 道路7沿x轴（y=0），道路3沿y轴（x=50，-50..50），道路9沿x轴（y=1）
func TripleCrossing() *input.MapData {
	return &input.MapData{
		Header: input.Header{Name: "triple"},
		Roads: []input.RoadData{
			HorizontalRoad(7, 0, 100, 0),
			VerticalRoad(3, -50, 50, 50),
			HorizontalRoad(9, 0, 100, 1),
		},
	}
}

// 路口网络中的元素ID
const (
	RoadIn         int32 = 1   // 驶入道路，x 0..50
	RoadEast       int32 = 2   // 直行驶出道路，x 60..110
	RoadNorth      int32 = 3   // 左转驶出道路，x=55，y 5..55
	ConnectorEast  int32 = 10  // 路口内直行连接道路
	ConnectorNorth int32 = 11  // 路口内左转连接道路
	JunctionID     int32 = 100 // 路口，x 50..60，y -5..5
)

// Junction 一进两出的路口网络
//
//	             | 3 |
//	             |   |
//	   1     +---11--+     2
//	 ------->| 10 -> |------->
//	         +-------+
func Junction() *input.MapData {
	in := HorizontalRoad(RoadIn, 0, 50, 0)
	in.Successor = ToJunction(JunctionID)
	east := HorizontalRoad(RoadEast, 60, 110, 0)
	east.Predecessor = ToJunction(JunctionID)
	north := VerticalRoad(RoadNorth, 5, 55, 55)
	north.Predecessor = ToJunction(JunctionID)

	straight := input.RoadData{
		ID:          ConnectorEast,
		Junction:    lo.ToPtr(JunctionID),
		Boundary:    Rect(50, -LaneWidth, 60, 0),
		Midline:     Line(50, -LaneWidth/2, 60, -LaneWidth/2),
		Predecessor: ToRoad(RoadIn),
		Successor:   ToRoad(RoadEast),
		LaneSections: []input.LaneSectionData{{Lanes: []input.LaneData{
			{ID: 0, Type: "none"},
			{ID: -1, Type: "driving", Boundary: Rect(50, -LaneWidth, 60, 0), Midline: Line(50, -LaneWidth/2, 60, -LaneWidth/2)},
		}}},
	}
	turn := Polygon(50, -LaneWidth, 58.5, -LaneWidth, 58.5, 5, 55, 5, 55, 0, 50, 0)
	left := input.RoadData{
		ID:          ConnectorNorth,
		Junction:    lo.ToPtr(JunctionID),
		Boundary:    turn,
		Midline:     Line(50, -LaneWidth/2, 56.75, -LaneWidth/2, 56.75, 5),
		Predecessor: ToRoad(RoadIn),
		Successor:   ToRoad(RoadNorth),
		LaneSections: []input.LaneSectionData{{Lanes: []input.LaneData{
			{ID: 0, Type: "none"},
			{ID: -1, Type: "driving", Boundary: turn, Midline: Line(50, -LaneWidth/2, 56.75, -LaneWidth/2, 56.75, 5)},
		}}},
	}
	return &input.MapData{
		Header: input.Header{Name: "junction", North: 55, South: -5, East: 110, West: 0},
		Roads:  []input.RoadData{in, east, north, straight, left},
		Junctions: []input.JunctionData{
			{ID: JunctionID, Name: "j", Boundary: [][][]input.XY{Rect(50, -5, 60, 5)}},
		},
	}
}
