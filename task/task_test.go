package task

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap/roadmaptest"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
)

func testConfig() config.Config {
	return config.Config{
		Control: config.Control{Step: config.ControlStep{Total: 400, Interval: 0.05}},
		Agents: []config.Agent{
			{
				ID: 2, Type: "traffic",
				Position: config.XY{X: 5, Y: -1.75}, Velocity: 5,
				Goal: config.Goal{X: 90, Y: -1.75, Radius: 2},
			},
			{
				ID: 1, Type: "ego",
				Position: config.XY{X: 95, Y: 1.75}, Heading: 3.141592653589793, Velocity: 5,
				Goal: config.Goal{X: 10, Y: 1.75, Radius: 2},
			},
			{
				ID: 3, Type: "traffic",
				Position: config.XY{X: 20, Y: -1.75}, Velocity: 5,
				Goal: config.Goal{X: 50, Y: 60, Radius: 1},
			},
		},
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestInit(t *testing.T) {
	ctx := NewContext("test", testConfig(), roadmaptest.Straight())
	ctx.Init()
	require.Len(t, ctx.Agents(), 3)
	assert.Equal(t, int32(1), ctx.Agents()[0].ID())
	assert.Equal(t, int32(3), ctx.Agents()[2].ID())
	assert.Len(t, ctx.Frame(), 3)
	assert.Equal(t, 20, ctx.Clock().FPS)
	assert.Equal(t, config.DefaultViewRadius, ctx.RuntimeConfig().All.Agents[1].ViewRadius)
}

func TestRun(t *testing.T) {
	ctx := NewContext("test", testConfig(), roadmaptest.Straight())
	ctx.Run()

	assert.Less(t, ctx.Clock().InternalStep, ctx.Clock().END_STEP)
	frame := ctx.Frame()
	assert.Greater(t, frame[2].Position.X, 90.0)
	assert.Less(t, frame[1].Position.X, 10.0)
	assert.Equal(t, 20.0, frame[3].Position.X)

	results := ctx.Results()
	assert.Equal(t, 1, results[3].Len())
	assert.Greater(t, results[2].PathLength(), 80.0)

	assert.Equal(t, statusDone, ctx.status[1])
	assert.Equal(t, statusDone, ctx.status[2])
	assert.Equal(t, statusFailed, ctx.status[3])
	assert.Equal(t, 1.0, counterValue(t, ctx.registry, "macrodrive_plan_failures_total"))
	assert.Equal(t, 2.0, counterValue(t, ctx.registry, "macrodrive_agents_done_total"))
	assert.Equal(t, float64(ctx.Clock().InternalStep), counterValue(t, ctx.registry, "macrodrive_steps_total"))
}

func TestStop(t *testing.T) {
	ctx := NewContext("test", testConfig(), roadmaptest.Straight())
	ctx.Stop()
	ctx.Run()
	assert.Equal(t, ctx.Clock().START_STEP, ctx.Clock().InternalStep)
}

func TestRouter(t *testing.T) {
	ctx := NewContext("test", testConfig(), roadmaptest.Straight())
	ctx.Init()
	ctx.Step()
	ts := httptest.NewServer(ctx.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/agents")
	require.NoError(t, err)
	var agents []AgentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
	resp.Body.Close()
	require.Len(t, agents, 3)
	assert.Equal(t, int32(1), agents[0].ID)
	assert.Equal(t, int32(1), agents[0].Step)
	assert.Equal(t, "running", agents[0].Status)
	assert.Equal(t, "failed", agents[2].Status)

	resp, err = http.Get(ts.URL + "/map/")
	require.NoError(t, err)
	var header roadmap.HeaderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&header))
	resp.Body.Close()
	assert.Equal(t, "straight", header.Name)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "macrodrive_steps_total 1")
	assert.Contains(t, string(body), "macrodrive_http_requests_total")
}
