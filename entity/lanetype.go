package entity

import "fmt"

// LaneType 车道类型
type LaneType int32

const (
	LaneTypeNone LaneType = iota
	LaneTypeDriving
	LaneTypeSidewalk
	LaneTypeShoulder
	LaneTypeParking
	LaneTypeBorder
	LaneTypeBiking
	LaneTypeMedian
)

var laneTypeNames = map[LaneType]string{
	LaneTypeNone:     "none",
	LaneTypeDriving:  "driving",
	LaneTypeSidewalk: "sidewalk",
	LaneTypeShoulder: "shoulder",
	LaneTypeParking:  "parking",
	LaneTypeBorder:   "border",
	LaneTypeBiking:   "biking",
	LaneTypeMedian:   "median",
}

func (t LaneType) String() string {
	if name, ok := laneTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LaneType(%d)", int32(t))
}

// ParseLaneType 由名称解析车道类型，空字符串视为none
func ParseLaneType(name string) (LaneType, error) {
	if name == "" {
		return LaneTypeNone, nil
	}
	for t, n := range laneTypeNames {
		if n == name {
			return t, nil
		}
	}
	return LaneTypeNone, fmt.Errorf("unknown lane type %q", name)
}
