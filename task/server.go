package task

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
)

// AgentResponse 智能体当前状态
type AgentResponse struct {
	ID       int32   `json:"id"`
	Step     int32   `json:"step"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Heading  float64 `json:"heading"`
	Velocity float64 `json:"velocity"`
	Status   string  `json:"status"`
}

var statusNames = map[agentStatus]string{
	statusRunning: "running",
	statusDone:    "done",
	statusFailed:  "failed",
}

// Router HTTP路由
// 功能：/map下为路网查询，/agents为智能体当前状态，/metrics为prometheus指标
func (ctx *Context) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestCounter(ctx.metrics))
	r.Route("/map", func(r chi.Router) {
		roadmap.Router(r, ctx.network)
	})
	r.Get("/agents", ctx.listAgents)
	r.Handle("/metrics", promhttp.HandlerFor(ctx.registry, promhttp.HandlerOpts{}))
	return r
}

func (ctx *Context) listAgents(w http.ResponseWriter, r *http.Request) {
	ctx.frameMtx.RLock()
	res := make([]AgentResponse, 0, len(ctx.frame))
	for id, s := range ctx.frame {
		res = append(res, AgentResponse{
			ID:       id,
			Step:     s.Time,
			X:        s.Position.X,
			Y:        s.Position.Y,
			Heading:  s.Heading,
			Velocity: s.Velocity,
			Status:   statusNames[ctx.status[id]],
		})
	}
	ctx.frameMtx.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	render.JSON(w, r, res)
}
