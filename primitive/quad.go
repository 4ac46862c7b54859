package primitive

import (
	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// A planar quad with corners given in winding order. It is intersected as the
// two triangles (P0, P1, P2) and (P0, P2, P3).
type Quad struct {
	P0, P1, P2, P3 types.Vec3
	N              types.Vec3

	tris [2]Triangle
}

// Create a new quad with an optional shading normal.
func NewQuad(p0, p1, p2, p3, n types.Vec3) *Quad {
	q := &Quad{P0: p0, P1: p1, P2: p2, P3: p3, N: n}
	q.tris = [2]Triangle{
		{V0: p0, V1: p1, V2: p2, N: n},
		{V0: p0, V1: p2, V2: p3, N: n},
	}
	return q
}

func (q *Quad) WorldBounds() types.BBox {
	return types.BBoxFromPoints(q.P0, q.P1, q.P2, q.P3)
}

func (q *Quad) Intersect(ray *types.Ray, hit *accel.Intersection) bool {
	found := false
	for i := range q.tris {
		if q.tris[i].Intersect(ray, hit) {
			found = true
		}
	}

	if found {
		hit.Prim = q
	}
	return found
}

func (q *Quad) IntersectP(ray *types.Ray) bool {
	return q.tris[0].IntersectP(ray) || q.tris[1].IntersectP(ray)
}
