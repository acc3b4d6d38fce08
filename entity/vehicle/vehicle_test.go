package vehicle

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
	"github.com/tsinghua-fib-lab/macrodrive/utils/randengine"
)

func start(v float64) entity.AgentState {
	return entity.AgentState{Position: geometry.Point{X: 0, Y: 0}, Velocity: v}
}

func TestComputeVAndDistance(t *testing.T) {
	v, d := computeVAndDistance(10, 0, 0.1)
	assert.InDelta(t, 10, v, 1e-9)
	assert.InDelta(t, 1, d, 1e-9)

	v, d = computeVAndDistance(10, 2, 1)
	assert.InDelta(t, 12, v, 1e-9)
	assert.InDelta(t, 11, d, 1e-9)

	// 刹停
	v, d = computeVAndDistance(1, -5, 1)
	assert.Equal(t, 0.0, v)
	assert.InDelta(t, 0.1, d, 1e-9)
}

func TestKinematicStraight(t *testing.T) {
	k := NewKinematic(start(10), 10, config.Vehicle{}, nil)
	k.ExecuteAction(entity.Action{})
	s := k.State(1)
	assert.Equal(t, int32(1), s.Time)
	assert.InDelta(t, 1, s.Position.X, 1e-9)
	assert.InDelta(t, 0, s.Position.Y, 1e-9)
	assert.InDelta(t, 10, s.Velocity, 1e-9)
	assert.InDelta(t, 0, s.Heading, 1e-9)
}

func TestKinematicClamp(t *testing.T) {
	k := NewKinematic(start(0), 1, config.Vehicle{}, nil)
	k.ExecuteAction(entity.Action{Acceleration: 100, Steering: 3})
	s := k.State(1)
	assert.Equal(t, config.DefaultMaxAcceleration, s.Acceleration)
	assert.InDelta(t, config.DefaultMaxAcceleration, s.Velocity, 1e-9)
	// d=2.5, δ=0.6
	assert.InDelta(t, 2.5/config.DefaultWheelbase*math.Tan(config.DefaultMaxSteering), s.Heading, 1e-9)
	assert.Greater(t, s.Position.Y, 0.0)

	k.ExecuteAction(entity.Action{Acceleration: -100})
	assert.Equal(t, -config.DefaultMaxAcceleration, k.State(2).Acceleration)
	assert.Equal(t, 0.0, k.State(2).Velocity)
}

func TestKinematicSteering(t *testing.T) {
	k := NewKinematic(start(10), 20, config.Vehicle{}, nil)
	k.ExecuteAction(entity.Action{Steering: -0.1})
	s := k.State(1)
	assert.Less(t, s.Heading, 0.0)
	assert.Less(t, s.Position.Y, 0.0)
}

func TestKinematicReset(t *testing.T) {
	initial := start(3)
	k := NewKinematic(initial, 10, config.Vehicle{}, nil)
	for range 5 {
		k.ExecuteAction(entity.Action{Acceleration: 1, Steering: 0.1})
	}
	assert.NotEqual(t, initial, k.State(0))
	k.Reset()
	assert.Equal(t, initial, k.State(0))
}

func TestKinematicNoise(t *testing.T) {
	attr := config.Vehicle{NoiseStd: 0.2, Seed: 3}
	a := NewKinematic(start(10), 10, attr, randengine.New(attr.Seed))
	b := NewKinematic(start(10), 10, attr, randengine.New(attr.Seed))
	clean := NewKinematic(start(10), 10, attr, nil)
	for range 10 {
		a.ExecuteAction(entity.Action{})
		b.ExecuteAction(entity.Action{})
		clean.ExecuteAction(entity.Action{})
	}
	assert.Equal(t, a.State(10), b.State(10))
	assert.NotEqual(t, a.State(10), clean.State(10))
}

func TestNewKinematicInvalidFPS(t *testing.T) {
	assert.Panics(t, func() { NewKinematic(start(0), 0, config.Vehicle{}, nil) })
}
