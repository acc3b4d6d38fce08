package macro

import (
	"math"

	"github.com/tsinghua-fib-lab/macrodrive/entity"
)

// Stop 原地刹停并保持StopDuration秒
type Stop struct {
	base
	duration float64
}

func newStop(agentID int32, state entity.AgentState, openLoop bool, args Args) *Stop {
	duration := args.StopDuration
	if duration <= 0 {
		duration = DefaultStopDuration
	}
	fps := args.fps()
	return &Stop{
		base: base{
			kind:      KindStop,
			agentID:   agentID,
			openLoop:  openLoop,
			maneuvers: []Maneuver{newStopManeuver(agentID, duration, fps)},
			final: entity.AgentState{
				Time:     state.Time + int32(math.Ceil(duration*float64(fps))),
				Position: state.Position,
				Heading:  state.Heading,
			},
		},
		duration: duration,
	}
}

func (s *Stop) Duration() float64 {
	return s.duration
}
