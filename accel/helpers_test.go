package accel

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/chg95211/Ray-Tracing-Core/types"
)

// A minimal sphere used to exercise the BVH without depending on the
// primitive package.
type testSphere struct {
	center types.Vec3
	radius float32

	// Number of Intersect/IntersectP calls.
	calls int64
}

func newTestSphere(center types.Vec3, radius float32) *testSphere {
	return &testSphere{center: center, radius: radius}
}

func (s *testSphere) WorldBounds() types.BBox {
	// Pad the bounds slightly so float32 rounding in the hit distance never
	// places a hit outside the box.
	r := s.radius*1.001 + 1e-3
	return types.BBox{
		Min: s.center.Sub(types.Splat3(r)),
		Max: s.center.Add(types.Splat3(r)),
	}
}

func (s *testSphere) hitDistance(ray *types.Ray) (float32, bool) {
	oc := ray.Origin.Sub(s.center)
	a := ray.Dir.Dot(ray.Dir)
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}

	sqrtD := float32(math.Sqrt(float64(disc)))
	root := (-halfB - sqrtD) / a
	if !ray.InRange(root) {
		root = (-halfB + sqrtD) / a
		if !ray.InRange(root) {
			return 0, false
		}
	}
	return root, true
}

func (s *testSphere) Intersect(ray *types.Ray, hit *Intersection) bool {
	atomic.AddInt64(&s.calls, 1)
	t, ok := s.hitDistance(ray)
	if !ok {
		return false
	}

	ray.TMax = t
	hit.T = t
	hit.Point = ray.At(t)
	hit.Normal = hit.Point.Sub(s.center).Mul(1 / s.radius)
	hit.Prim = s
	return true
}

func (s *testSphere) IntersectP(ray *types.Ray) bool {
	atomic.AddInt64(&s.calls, 1)
	_, ok := s.hitDistance(ray)
	return ok
}

// A primitive with fixed (possibly malformed) bounds that is never hit.
type boxOnlyPrim struct {
	bounds types.BBox
	calls  int64
}

func (p *boxOnlyPrim) WorldBounds() types.BBox { return p.bounds }

func (p *boxOnlyPrim) Intersect(_ *types.Ray, _ *Intersection) bool {
	atomic.AddInt64(&p.calls, 1)
	return false
}

func (p *boxOnlyPrim) IntersectP(_ *types.Ray) bool {
	atomic.AddInt64(&p.calls, 1)
	return false
}

func randVec3(rng *rand.Rand, min, max float32) types.Vec3 {
	span := max - min
	return types.Vec3{
		min + rng.Float32()*span,
		min + rng.Float32()*span,
		min + rng.Float32()*span,
	}
}

func randomSpheres(rng *rand.Rand, count int, extent float32) []Primitive {
	prims := make([]Primitive, count)
	for i := range prims {
		prims[i] = newTestSphere(randVec3(rng, -extent, extent), 0.1+rng.Float32()*2)
	}
	return prims
}

func randomRay(rng *rand.Rand, extent float32) types.Ray {
	origin := randVec3(rng, -extent*1.5, extent*1.5)
	target := randVec3(rng, -extent, extent)
	return types.NewRay(origin, target.Sub(origin).Normalize())
}

// Test every primitive individually and return the closest hit distance.
func bruteForceIntersect(prims []Primitive, ray types.Ray) (float32, bool) {
	var (
		closest float32
		found   bool
		hit     Intersection
	)
	for _, prim := range prims {
		r := ray
		if prim.Intersect(&r, &hit) && (!found || hit.T < closest) {
			closest = hit.T
			found = true
		}
	}
	return closest, found
}

func bruteForceIntersectP(prims []Primitive, ray types.Ray) bool {
	for _, prim := range prims {
		r := ray
		if prim.IntersectP(&r) {
			return true
		}
	}
	return false
}

func totalCalls(prims []Primitive) int64 {
	var total int64
	for _, prim := range prims {
		switch p := prim.(type) {
		case *testSphere:
			total += atomic.LoadInt64(&p.calls)
		case *boxOnlyPrim:
			total += atomic.LoadInt64(&p.calls)
		}
	}
	return total
}
