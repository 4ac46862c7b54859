package primitive

import (
	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// Determinant threshold below which a ray is treated as parallel to the
// triangle plane.
const parallelEpsilon float32 = 1e-9

// A single triangle. If N is the zero vector the geometric normal
// (V1-V0) x (V2-V0) is used for shading.
type Triangle struct {
	V0, V1, V2 types.Vec3
	N          types.Vec3
}

// Create a new triangle with an optional shading normal.
func NewTriangle(v0, v1, v2, n types.Vec3) *Triangle {
	return &Triangle{V0: v0, V1: v1, V2: v2, N: n}
}

func (tri *Triangle) WorldBounds() types.BBox {
	return types.BBoxFromPoints(tri.V0, tri.V1, tri.V2)
}

// Get the normal reported for hits.
func (tri *Triangle) Normal() types.Vec3 {
	if !tri.N.IsZero() {
		return tri.N.Normalize()
	}
	return tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0)).Normalize()
}

// Moller-Trumbore ray/triangle test. Returns the hit distance and the
// barycentric coordinates of the hit relative to V1 and V2.
func (tri *Triangle) hitDistance(ray *types.Ray) (t, u, v float32, ok bool) {
	e1 := tri.V1.Sub(tri.V0)
	e2 := tri.V2.Sub(tri.V0)

	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < parallelEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	s := ray.Origin.Sub(tri.V0)
	u = s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	v = ray.Dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * invDet
	if !ray.InRange(t) {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func (tri *Triangle) Intersect(ray *types.Ray, hit *accel.Intersection) bool {
	t, u, v, ok := tri.hitDistance(ray)
	if !ok {
		return false
	}

	ray.TMax = t
	hit.T = t
	hit.Point = ray.At(t)
	hit.Normal = tri.Normal()
	hit.U, hit.V = u, v
	hit.Prim = tri
	return true
}

func (tri *Triangle) IntersectP(ray *types.Ray) bool {
	_, _, _, ok := tri.hitDistance(ray)
	return ok
}
