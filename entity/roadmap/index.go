package roadmap

import (
	"github.com/dhconnelly/rtreego"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
)

// 索引包围盒在查询距离之外的额外余量
const indexTolerance = 1e-6

// roadRect 道路包围盒，作为R树元素
type roadRect struct {
	road entity.IRoad
	rect rtreego.Rect
}

func (r *roadRect) Bounds() rtreego.Rect {
	return r.rect
}

// roadIndex 道路包围盒R树
type roadIndex struct {
	tree *rtreego.Rtree
}

func newRoadIndex(roads []entity.IRoad) *roadIndex {
	objs := make([]rtreego.Spatial, 0, len(roads))
	for _, r := range roads {
		if r.Boundary().IsEmpty() {
			continue
		}
		b := r.Boundary().Bound()
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{b.Min[0], b.Min[1]},
			rtreego.Point{b.Max[0], b.Max[1]},
		)
		if err != nil {
			log.Panicf("bad bound %v of %v: %v", b, r, err)
		}
		objs = append(objs, &roadRect{road: r, rect: rect})
	}
	return &roadIndex{tree: rtreego.NewTree(2, 25, 50, objs...)}
}

// candidates 包围盒与查询范围相交的道路ID
func (idx *roadIndex) candidates(x, y, maxDistance float64) map[int32]struct{} {
	query := rtreego.Point{x, y}.ToRect(maxDistance + indexTolerance)
	hits := idx.tree.SearchIntersect(query)
	res := make(map[int32]struct{}, len(hits))
	for _, h := range hits {
		res[h.(*roadRect).road.ID()] = struct{}{}
	}
	return res
}
