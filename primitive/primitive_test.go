package primitive

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

func approxEqual(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func vecApproxEqual(a, b types.Vec3) bool {
	return approxEqual(a[0], b[0]) && approxEqual(a[1], b[1]) && approxEqual(a[2], b[2])
}

func TestSphereIntersect(t *testing.T) {
	type spec struct {
		origin    types.Vec3
		dir       types.Vec3
		tMax      float32
		expHit    bool
		expT      float32
		expNormal types.Vec3
	}
	inf := math32.Inf(1)
	specs := []spec{
		// Head-on hit from outside
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, inf, true, 4, types.Vec3{0, 0, -1}},
		// Ray starting inside hits the far side
		{types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0}, inf, true, 1, types.Vec3{1, 0, 0}},
		// Sphere behind the ray
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, 1}, inf, false, 0, types.Vec3{}},
		// Clipped by TMax
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, 3.5, false, 0, types.Vec3{}},
		// Clean miss
		{types.Vec3{0, 2, -5}, types.Vec3{0, 0, 1}, inf, false, 0, types.Vec3{}},
	}

	sphere := NewSphere(types.Vec3{}, 1)
	for index, s := range specs {
		ray := types.NewSegment(s.origin, s.dir, types.RayEpsilon, s.tMax)
		var hit accel.Intersection
		gotHit := sphere.Intersect(&ray, &hit)
		if gotHit != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, gotHit)
		}

		ray = types.NewSegment(s.origin, s.dir, types.RayEpsilon, s.tMax)
		if gotP := sphere.IntersectP(&ray); gotP != s.expHit {
			t.Fatalf("[spec %d] expected IntersectP=%t; got %t", index, s.expHit, gotP)
		}

		if !s.expHit {
			continue
		}
		if !approxEqual(hit.T, s.expT) {
			t.Fatalf("[spec %d] expected t=%f; got %f", index, s.expT, hit.T)
		}
		if !vecApproxEqual(hit.Normal, s.expNormal) {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, hit.Normal)
		}
		if hit.Prim != sphere {
			t.Fatalf("[spec %d] expected hit primitive to be the sphere", index)
		}
		if hit.U < 0 || hit.U > 1 || hit.V < 0 || hit.V > 1 {
			t.Fatalf("[spec %d] expected uv in [0, 1]; got (%f, %f)", index, hit.U, hit.V)
		}
	}
}

func TestSphereShrinksTMax(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, 10}, 2)
	ray := types.NewRay(types.Vec3{}, types.Vec3{0, 0, 1})

	var hit accel.Intersection
	if !sphere.Intersect(&ray, &hit) {
		t.Fatal("expected ray to hit sphere")
	}
	if ray.TMax != hit.T || !approxEqual(hit.T, 8) {
		t.Fatalf("expected TMax to shrink to 8; got TMax=%f, t=%f", ray.TMax, hit.T)
	}

	// A second query with the shrunk ray must not report the far root.
	if sphere.Intersect(&ray, &hit) && hit.T > 8 {
		t.Fatalf("expected far root to be rejected; got t=%f", hit.T)
	}
}

func TestTriangleIntersect(t *testing.T) {
	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		expHit bool
		expT   float32
	}
	specs := []spec{
		{types.Vec3{0.25, 0.25, -1}, types.Vec3{0, 0, 1}, true, 1},
		{types.Vec3{0.25, 0.25, 1}, types.Vec3{0, 0, -1}, true, 1},
		// Outside the edges
		{types.Vec3{0.75, 0.75, -1}, types.Vec3{0, 0, 1}, false, 0},
		{types.Vec3{-0.1, 0.5, -1}, types.Vec3{0, 0, 1}, false, 0},
		// Parallel to the plane
		{types.Vec3{0.25, 0.25, -1}, types.Vec3{1, 0, 0}, false, 0},
		// Pointing away
		{types.Vec3{0.25, 0.25, -1}, types.Vec3{0, 0, -1}, false, 0},
	}

	tri := NewTriangle(types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}, types.Vec3{})
	for index, s := range specs {
		ray := types.NewRay(s.origin, s.dir)
		var hit accel.Intersection
		if got := tri.Intersect(&ray, &hit); got != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, got)
		}

		ray = types.NewRay(s.origin, s.dir)
		if got := tri.IntersectP(&ray); got != s.expHit {
			t.Fatalf("[spec %d] expected IntersectP=%t; got %t", index, s.expHit, got)
		}

		if s.expHit && !approxEqual(hit.T, s.expT) {
			t.Fatalf("[spec %d] expected t=%f; got %f", index, s.expT, hit.T)
		}
	}
}

func TestTriangleNormal(t *testing.T) {
	v0, v1, v2 := types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}

	geometric := NewTriangle(v0, v1, v2, types.Vec3{})
	if exp := (types.Vec3{0, 0, 1}); geometric.Normal() != exp {
		t.Fatalf("expected geometric normal %v; got %v", exp, geometric.Normal())
	}

	supplied := NewTriangle(v0, v1, v2, types.Vec3{0, 0, -2})
	if exp := (types.Vec3{0, 0, -1}); supplied.Normal() != exp {
		t.Fatalf("expected supplied normal %v; got %v", exp, supplied.Normal())
	}
}

func TestQuadIntersect(t *testing.T) {
	quad := NewQuad(
		types.Vec3{-1, -1, 0}, types.Vec3{1, -1, 0}, types.Vec3{1, 1, 0}, types.Vec3{-1, 1, 0},
		types.Vec3{0, 0, 1},
	)

	expBounds := types.BBox{Min: types.Vec3{-1, -1, 0}, Max: types.Vec3{1, 1, 0}}
	if quad.WorldBounds() != expBounds {
		t.Fatalf("expected bounds %v; got %v", expBounds, quad.WorldBounds())
	}

	type spec struct {
		x, y   float32
		expHit bool
	}
	specs := []spec{
		// One point in each of the two triangles
		{0.5, -0.5, true},
		{-0.5, 0.5, true},
		{0, 0, true},
		{1.5, 0, false},
	}

	for index, s := range specs {
		ray := types.NewRay(types.Vec3{s.x, s.y, 5}, types.Vec3{0, 0, -1})
		var hit accel.Intersection
		if got := quad.Intersect(&ray, &hit); got != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, got)
		}
		if !s.expHit {
			continue
		}
		if hit.Prim != quad {
			t.Fatalf("[spec %d] expected hit primitive to be the quad; got %T", index, hit.Prim)
		}
		if !approxEqual(hit.T, 5) || hit.Normal != (types.Vec3{0, 0, 1}) {
			t.Fatalf("[spec %d] expected hit at t=5 with normal (0, 0, 1); got t=%f, n=%v", index, hit.T, hit.Normal)
		}
	}
}

func TestGeometrySetsTopPrimitive(t *testing.T) {
	mat := Lambert("red", types.Vec3{0.9, 0.1, 0.1})
	geom := NewGeometry("spheres", mat)
	near := NewSphere(types.Vec3{0, 0, 5}, 1)
	far := NewSphere(types.Vec3{0, 0, 10}, 1)
	if err := geom.Add(far, near); err != nil {
		t.Fatal(err)
	}

	// Unbuilt geometry is never hit
	ray := types.NewRay(types.Vec3{}, types.Vec3{0, 0, 1})
	var hit accel.Intersection
	if geom.Intersect(&ray, &hit) || !geom.WorldBounds().IsEmpty() {
		t.Fatal("expected unbuilt geometry to report no hits and empty bounds")
	}

	if err := geom.Build(); err != nil {
		t.Fatal(err)
	}
	if err := geom.Build(); err != ErrGeometryBuilt {
		t.Fatalf("expected error %v; got %v", ErrGeometryBuilt, err)
	}
	if err := geom.Add(near); err != ErrGeometryBuilt {
		t.Fatalf("expected error %v; got %v", ErrGeometryBuilt, err)
	}

	if !geom.Intersect(&ray, &hit) {
		t.Fatal("expected ray to hit geometry")
	}
	if hit.Top != geom {
		t.Fatalf("expected hit.Top to be the geometry; got %v", hit.Top)
	}
	if hit.Prim != near {
		t.Fatal("expected hit.Prim to be the nearest sphere")
	}
	if !approxEqual(hit.T, 4) {
		t.Fatalf("expected t=4; got %f", hit.T)
	}

	expBounds := near.WorldBounds().Union(far.WorldBounds())
	if geom.WorldBounds() != expBounds {
		t.Fatalf("expected bounds %v; got %v", expBounds, geom.WorldBounds())
	}

	ray = types.NewRay(types.Vec3{}, types.Vec3{0, 0, 1})
	if !geom.IntersectP(&ray) {
		t.Fatal("expected occlusion query to hit geometry")
	}
}

func TestNestedGeometryInTopLevelBVH(t *testing.T) {
	left := NewGeometry("left", nil)
	right := NewGeometry("right", Emissive("light", types.Vec3{5, 5, 5}))
	left.Add(NewSphere(types.Vec3{-3, 0, 0}, 1))
	right.Add(
		NewTriangle(types.Vec3{2, -1, -1}, types.Vec3{2, 1, -1}, types.Vec3{2, 0, 1}, types.Vec3{}),
		NewSphere(types.Vec3{6, 0, 0}, 1),
	)
	left.Build()
	right.Build()

	if left.Material != DefaultMaterial {
		t.Fatal("expected nil material to select the default material")
	}
	if !right.Material.IsEmissive() || left.Material.IsEmissive() {
		t.Fatal("unexpected emissive flags")
	}

	top := accel.NewBVH([]accel.Primitive{left, right})

	ray := types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0})
	var hit accel.Intersection
	if !top.Intersect(&ray, &hit) || hit.Top != right || !approxEqual(hit.T, 2) {
		t.Fatalf("expected +x ray to hit the right geometry triangle at t=2; got top=%v t=%f", hit.Top, hit.T)
	}
	if _, isTri := hit.Prim.(*Triangle); !isTri {
		t.Fatalf("expected hit.Prim to be a triangle; got %T", hit.Prim)
	}

	ray = types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{-1, 0, 0})
	hit = accel.Intersection{}
	if !top.Intersect(&ray, &hit) || hit.Top != left || !approxEqual(hit.T, 2) {
		t.Fatalf("expected -x ray to hit the left geometry at t=2; got top=%v t=%f", hit.Top, hit.T)
	}
}
