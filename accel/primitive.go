package accel

import "github.com/chg95211/Ray-Tracing-Core/types"

// The Primitive interface is implemented by everything the BVH can partition:
// geometric shapes as well as aggregates that wrap another accelerator.
//
// Implementations must keep WorldBounds stable once handed to Build. Intersect
// must only report hits inside [ray.TMin, ray.TMax] and must shrink ray.TMax
// to the hit distance whenever it registers one.
type Primitive interface {
	// Get the world-space bounding box.
	WorldBounds() types.BBox

	// Intersect ray and fill in hit on success.
	Intersect(ray *types.Ray, hit *Intersection) bool

	// Test whether ray intersects the primitive without computing hit details.
	IntersectP(ray *types.Ray) bool
}

// A ray/primitive hit record.
type Intersection struct {
	// Parametric distance along the ray.
	T float32

	// World-space hit point and unit surface normal.
	Point  types.Vec3
	Normal types.Vec3

	// Surface parametrization at the hit point.
	U, V float32

	// The shape that was hit.
	Prim Primitive

	// The top-level aggregate that owns Prim, if any.
	Top Primitive
}
