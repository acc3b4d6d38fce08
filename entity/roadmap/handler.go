package roadmap

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
)

// 只读HTTP查询接口

type HeaderResponse struct {
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	GeoReference string  `json:"geo_reference"`
	North        float64 `json:"north"`
	South        float64 `json:"south"`
	East         float64 `json:"east"`
	West         float64 `json:"west"`
	Roads        int     `json:"roads"`
	Junctions    int     `json:"junctions"`
	Valid        bool    `json:"valid"`
}

type RoadResponse struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	JunctionID *int32 `json:"junction_id,omitempty"`
	Drivable   bool   `json:"drivable"`
}

type LaneResponse struct {
	RoadID  int32  `json:"road_id"`
	Section int    `json:"section"`
	LaneID  int32  `json:"lane_id"`
	Type    string `json:"type"`
}

type JunctionResponse struct {
	ID      int32   `json:"id"`
	Name    string  `json:"name"`
	RoadIDs []int32 `json:"road_ids"`
	GroupID *int32  `json:"group_id,omitempty"`
}

type RoundaboutResponse struct {
	InRoundabout bool `json:"in_roundabout"`
}

type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func newRoadResponse(r entity.IRoad) RoadResponse {
	res := RoadResponse{ID: r.ID(), Name: r.Name(), Drivable: r.Drivable()}
	if j := r.Junction(); j != nil {
		res.JunctionID = lo.ToPtr(j.ID())
	}
	return res
}

func newLaneResponse(l entity.ILane) LaneResponse {
	k := l.Key()
	return LaneResponse{RoadID: k.RoadID, Section: k.Section, LaneID: k.LaneID, Type: l.Type().String()}
}

// Handler 地图查询HTTP处理器
type Handler struct {
	m *RoadNetwork
}

// Router 注册地图查询路由
// 功能：提供元数据、点位道路/车道/路口/环岛查询
func Router(r chi.Router, m *RoadNetwork) {
	h := &Handler{m: m}
	r.Get("/", h.header)
	r.Get("/roads", h.roadsAt)
	r.Get("/roads/{id}", h.road)
	r.Get("/lanes", h.lanesAt)
	r.Get("/best-lane", h.bestLaneAt)
	r.Get("/junction", h.junctionAt)
	r.Get("/roundabout", h.inRoundabout)
}

func (h *Handler) header(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HeaderResponse{
		Name:         h.m.Name(),
		Date:         h.m.Date(),
		GeoReference: h.m.GeoReference(),
		North:        h.m.North(),
		South:        h.m.South(),
		East:         h.m.East(),
		West:         h.m.West(),
		Roads:        len(h.m.Roads()),
		Junctions:    len(h.m.Junctions()),
		Valid:        h.m.IsValid(),
	})
}

func (h *Handler) road(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	road, err := h.m.RoadOrError(int32(id))
	if err != nil {
		render.Render(w, r, ErrNotFound(err))
		return
	}
	render.JSON(w, r, newRoadResponse(road))
}

func (h *Handler) roadsAt(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	roads := h.m.RoadsAt(q.point, q.drivable, q.maxDistance)
	render.JSON(w, r, lo.Map(roads, func(road entity.IRoad, _ int) RoadResponse { return newRoadResponse(road) }))
}

func (h *Handler) lanesAt(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	var lanes []entity.ILane
	if q.heading != nil && q.threshold > 0 {
		lanes = h.m.LanesWithinAngle(q.point, *q.heading, q.threshold, q.drivable, q.maxDistance)
	} else {
		lanes = h.m.LanesAt(q.point, q.drivable, q.maxDistance)
	}
	render.JSON(w, r, lo.Map(lanes, func(l entity.ILane, _ int) LaneResponse { return newLaneResponse(l) }))
}

func (h *Handler) bestLaneAt(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	l := h.m.BestLaneAt(q.point, q.heading, q.drivable, q.maxDistance, nil)
	if l == nil {
		render.Render(w, r, ErrNotFound(fmt.Errorf("no lane at (%v, %v)", q.point.X, q.point.Y)))
		return
	}
	render.JSON(w, r, newLaneResponse(l))
}

func (h *Handler) junctionAt(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	j := h.m.JunctionAt(q.point)
	if j == nil {
		render.Render(w, r, ErrNotFound(fmt.Errorf("no junction at (%v, %v)", q.point.X, q.point.Y)))
		return
	}
	res := JunctionResponse{
		ID:      j.ID(),
		Name:    j.Name(),
		RoadIDs: lo.Map(j.Roads(), func(road entity.IRoad, _ int) int32 { return road.ID() }),
	}
	if g := j.Group(); g != nil {
		res.GroupID = lo.ToPtr(g.ID())
	}
	render.JSON(w, r, res)
}

func (h *Handler) inRoundabout(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	in, err := h.m.InRoundabout(q.point, q.heading)
	if errors.Is(err, ErrNoRoad) {
		render.Render(w, r, ErrNotFound(err))
		return
	}
	render.JSON(w, r, RoundaboutResponse{InRoundabout: in})
}

// pointQuery 点位查询参数：x、y必填，heading、threshold、max_distance、drivable可选
type pointQuery struct {
	point       geometry.Point
	heading     *float64
	threshold   float64
	maxDistance float64
	drivable    bool
}

func parseQuery(r *http.Request) (pointQuery, error) {
	var q pointQuery
	values := r.URL.Query()
	parse := func(key string, required bool) (*float64, error) {
		s := values.Get(key)
		if s == "" {
			if required {
				return nil, fmt.Errorf("missing query parameter %s", key)
			}
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad query parameter %s: %w", key, err)
		}
		return &v, nil
	}
	x, err := parse("x", true)
	if err != nil {
		return q, err
	}
	y, err := parse("y", true)
	if err != nil {
		return q, err
	}
	q.point = geometry.Point{X: *x, Y: *y}
	if q.heading, err = parse("heading", false); err != nil {
		return q, err
	}
	threshold, err := parse("threshold", false)
	if err != nil {
		return q, err
	}
	q.threshold = lo.FromPtr(threshold)
	maxDistance, err := parse("max_distance", false)
	if err != nil {
		return q, err
	}
	q.maxDistance = lo.FromPtr(maxDistance)
	if s := values.Get("drivable"); s != "" {
		if q.drivable, err = strconv.ParseBool(s); err != nil {
			return q, fmt.Errorf("bad query parameter drivable: %w", err)
		}
	}
	return q, nil
}
