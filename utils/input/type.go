package input

import "git.fiblab.net/general/common/v2/geometry"

// XY 平面坐标点
type XY struct {
	X float64 `yaml:"x" bson:"x"`
	Y float64 `yaml:"y" bson:"y"`
}

// Point 转换为几何点
func (p XY) Point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// Points 点列转换
func Points(xys []XY) []geometry.Point {
	points := make([]geometry.Point, len(xys))
	for i, p := range xys {
		points[i] = p.Point()
	}
	return points
}

// Rings 环列表转换
func Rings(rings [][]XY) [][]geometry.Point {
	res := make([][]geometry.Point, len(rings))
	for i, r := range rings {
		res[i] = Points(r)
	}
	return res
}

// Header 地图元数据
type Header struct {
	Name         string  `yaml:"name" bson:"name"`
	Date         string  `yaml:"date,omitempty" bson:"date"`
	North        float64 `yaml:"north" bson:"north"`
	South        float64 `yaml:"south" bson:"south"`
	East         float64 `yaml:"east" bson:"east"`
	West         float64 `yaml:"west" bson:"west"`
	GeoReference string  `yaml:"geo_reference,omitempty" bson:"geo_reference"`
}

// LinkData 道路前驱/后继描述
type LinkData struct {
	ElementType string `yaml:"element_type" bson:"element_type" validate:"oneof=road junction"`
	ElementID   int32  `yaml:"element_id" bson:"element_id"`
}

// LaneMarkingData 车道标线描述
type LaneMarkingData struct {
	Type  string  `yaml:"type" bson:"type"`
	Color string  `yaml:"color,omitempty" bson:"color"`
	Width float64 `yaml:"width,omitempty" bson:"width"`
}

// LaneData 车道描述
type LaneData struct {
	ID       int32             `yaml:"id" bson:"id"`
	Type     string            `yaml:"type" bson:"type"`
	Boundary [][]XY            `yaml:"boundary,omitempty" bson:"boundary"` // 第一个环为外环
	Midline  []XY              `yaml:"midline,omitempty" bson:"midline"`
	Markings []LaneMarkingData `yaml:"markings,omitempty" bson:"markings"`
}

// LaneSectionData 车道段描述
type LaneSectionData struct {
	Lanes []LaneData `yaml:"lanes" bson:"lanes" validate:"unique=ID"`
}

// RoadData 道路描述
type RoadData struct {
	ID           int32             `yaml:"id" bson:"id"`
	Name         string            `yaml:"name,omitempty" bson:"name"`
	Junction     *int32            `yaml:"junction,omitempty" bson:"junction"` // 所属路口，非路口内道路为空
	Boundary     [][]XY            `yaml:"boundary" bson:"boundary"`
	Midline      []XY              `yaml:"midline" bson:"midline" validate:"min=2"`
	Predecessor  *LinkData         `yaml:"predecessor,omitempty" bson:"predecessor"`
	Successor    *LinkData         `yaml:"successor,omitempty" bson:"successor"`
	LaneSections []LaneSectionData `yaml:"lane_sections" bson:"lane_sections" validate:"dive"`
}

// JunctionData 路口描述
type JunctionData struct {
	ID       int32    `yaml:"id" bson:"id"`
	Name     string   `yaml:"name,omitempty" bson:"name"`
	Boundary [][][]XY `yaml:"boundary" bson:"boundary"` // 多多边形
}

// JunctionGroupData 路口组描述
type JunctionGroupData struct {
	ID          int32   `yaml:"id" bson:"id"`
	Name        string  `yaml:"name,omitempty" bson:"name"`
	Type        string  `yaml:"type" bson:"type"`
	JunctionIDs []int32 `yaml:"junctions" bson:"junctions"`
}

// MapData 已解析的路网描述
type MapData struct {
	Header         Header              `yaml:"header" bson:"header"`
	Roads          []RoadData          `yaml:"roads" bson:"roads" validate:"dive"`
	Junctions      []JunctionData      `yaml:"junctions,omitempty" bson:"junctions"`
	JunctionGroups []JunctionGroupData `yaml:"junction_groups,omitempty" bson:"junction_groups"`
}
