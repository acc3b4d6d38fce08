package task

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/tsinghua-fib-lab/macrodrive/clock"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/route"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/entity/vehicle"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
	"github.com/tsinghua-fib-lab/macrodrive/utils/randengine"
)

// agentStatus 仿真循环中智能体的结束状态
type agentStatus int

const (
	statusRunning agentStatus = iota
	statusDone
	statusFailed
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：路网在NewContext中构建完成后只读；帧由仿真循环独占写入，HTTP查询通过frameMtx读取快照
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 路网
	network *roadmap.RoadNetwork

	// 按id升序排列的智能体
	agents []agent.Agent
	// 当前帧与智能体结束状态（缺省为运行中），写入时持有frameMtx
	frame    entity.Frame
	status   map[int32]agentStatus
	frameMtx sync.RWMutex

	registry *prometheus.Registry
	metrics  *Metrics
	server   *http.Server
	bar      *progressbar.ProgressBar
}

// NewContext 创建仿真任务上下文
// 参数：job-任务名，c-配置，mapData-路网描述
// 算法说明：
// 1. 初始化时钟与运行时配置
// 2. 构建路网
// 3. 创建指标注册表与HTTP服务（配置了监听地址时）
func NewContext(job string, c config.Config, mapData *input.MapData) *Context {
	ctx := &Context{
		job:           job,
		clock:         clock.New(c.Control.Step),
		runtimeConfig: config.NewRuntimeConfig(c),
		network:       roadmap.New(mapData),
		registry:      prometheus.NewRegistry(),
	}
	ctx.metrics = NewMetrics(ctx.registry)
	if !ctx.network.IsValid() {
		log.Warnf("map %s contains invalid geometry", ctx.network.Name())
	}
	if listen := c.Server.Listen; listen != "" {
		ctx.server = &http.Server{Addr: listen, Handler: ctx.Router()}
	}
	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Network() *roadmap.RoadNetwork {
	return ctx.network
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Agents() []agent.Agent {
	return ctx.agents
}

// Frame 当前帧的快照
func (ctx *Context) Frame() entity.Frame {
	ctx.frameMtx.RLock()
	defer ctx.frameMtx.RUnlock()
	return ctx.frame.Clone()
}

// newAgent 根据配置创建智能体
func (ctx *Context) newAgent(a config.Agent, step int32) agent.Agent {
	rc := ctx.runtimeConfig
	fps := ctx.clock.FPS
	initial := entity.AgentState{
		Time:     step,
		Position: geometry.Point{X: a.Position.X, Y: a.Position.Y},
		Velocity: a.Velocity,
		Heading:  a.Heading,
	}
	goal := entity.NewPointGoal(geometry.Point{X: a.Goal.X, Y: a.Goal.Y}, a.Goal.Radius)
	v := vehicle.NewKinematic(initial, fps, rc.Vehicle, randengine.New(rc.Vehicle.Seed+uint64(a.ID)))
	planner := route.NewAStar(fps)
	switch a.Type {
	case "ego":
		e := agent.NewEgoTrafficAgent(a.ID, initial, goal, fps, v, planner, a.ViewRadius)
		e.SetMaxIterations(rc.C.Planner.MaxIterations)
		return e
	case "traffic":
		t := agent.NewTrafficAgent(a.ID, initial, goal, fps, v, planner)
		t.SetMaxIterations(rc.C.Planner.MaxIterations)
		return t
	}
	log.Panicf("unknown agent type %s", a.Type)
	return nil
}

// Init 初始化时钟与智能体
func (ctx *Context) Init() {
	ctx.clock.Init()
	agents := ctx.runtimeConfig.All.Agents
	log.Infof("Road: %v", len(ctx.network.Roads()))
	log.Infof("Junction: %v", len(ctx.network.Junctions()))
	log.Infof("Agent: %v", len(agents))

	ctx.agents = make([]agent.Agent, 0, len(agents))
	ctx.frameMtx.Lock()
	ctx.status = make(map[int32]agentStatus, len(agents))
	ctx.frameMtx.Unlock()
	frame := make(entity.Frame, len(agents))
	for _, a := range agents {
		ag := ctx.newAgent(a, ctx.clock.InternalStep)
		ctx.agents = append(ctx.agents, ag)
		frame[a.ID], _ = ag.Trajectory().Last()
	}
	sort.Slice(ctx.agents, func(i, j int) bool { return ctx.agents[i].ID() < ctx.agents[j].ID() })
	ctx.commit(frame, nil)

	if ctx.runtimeConfig.C.Progress {
		ctx.bar = progressbar.NewOptions(int(ctx.clock.END_STEP-ctx.clock.START_STEP),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(ctx.job),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
		)
	}
}

// commit 写入新的一帧与状态变化
func (ctx *Context) commit(frame entity.Frame, changed map[int32]agentStatus) {
	ctx.frameMtx.Lock()
	defer ctx.frameMtx.Unlock()
	ctx.frame = frame
	for id, s := range changed {
		ctx.status[id] = s
	}
}

// Serve 启动HTTP服务（未配置监听地址时不做任何事）
func (ctx *Context) Serve() {
	if ctx.server == nil {
		return
	}
	go func() {
		log.Infof("listening on %s", ctx.server.Addr)
		if err := ctx.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("failed to serve: %v", err)
		}
	}()
}

// Stop 请求仿真循环在当前帧结束后退出
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}

// Close 关闭HTTP服务与进度条
func (ctx *Context) Close() {
	if ctx.bar != nil {
		_ = ctx.bar.Finish()
	}
	if ctx.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ctx.server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("failed to shutdown server: %v", err)
		}
		ctx.server = nil
	}
}
