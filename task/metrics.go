package task

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// prometheus指标
type Metrics struct {
	Steps        prometheus.Counter
	StepDuration prometheus.Histogram
	AgentStates  *prometheus.GaugeVec
	AgentsDone   prometheus.Counter
	PlanFailures prometheus.Counter
	Requests     *prometheus.CounterVec
}

// NewMetrics 创建并注册指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrodrive",
			Name:      "steps_total",
			Help:      "The total number of simulated steps",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "macrodrive",
			Name:      "step_duration_seconds",
			Help:      "The wall time of one simulated step",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		AgentStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "macrodrive",
			Name:      "agents",
			Help:      "The number of agents in each execution state",
		}, []string{"state"}),
		AgentsDone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrodrive",
			Name:      "agents_done_total",
			Help:      "The total number of agents that finished their plan",
		}),
		PlanFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrodrive",
			Name:      "plan_failures_total",
			Help:      "The total number of agents that failed to plan a path",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "macrodrive",
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "status"}),
	}
	reg.MustRegister(m.Steps, m.StepDuration, m.AgentStates, m.AgentsDone, m.PlanFailures, m.Requests)
	return m
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestCounter 按方法与状态码统计HTTP请求
func requestCounter(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(rw, r)
			m.Requests.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).Inc()
		})
	}
}
