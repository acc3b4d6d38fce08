package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
)

// Clock 仿真时钟
// 功能：维护当前帧序号与仿真时间，模拟区间为[START_STEP, END_STEP)
type Clock struct {
	DT         float64 // 每帧时间间隔（秒）
	FPS        int     // 每秒帧数
	START_STEP int32   // 起始帧
	END_STEP   int32   // 结束帧

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前帧
}

// New 根据配置创建时钟
// 说明：FPS为1/interval四舍五入，宏动作与车辆模型均按该帧率离散
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		FPS:        max(1, int(1/stepConfig.Interval+0.5)),
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 回到起始帧
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Next 前进一帧
func (c *Clock) Next() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Finished 是否已到达结束帧
func (c *Clock) Finished() bool {
	return c.InternalStep >= c.END_STEP
}

// String 当前时间（HH:MM:SS）
func (c *Clock) String() string {
	h, m, s := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, int(s))
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒（秒为浮点数）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
