package types

import "github.com/chewxy/math32"

// The default lower bound of a ray's parametric interval. It keeps secondary
// rays from re-hitting the surface they were spawned from.
const RayEpsilon float32 = 1e-4

// A ray with a valid parametric interval [TMin, TMax]. Intersection routines
// shrink TMax as they register closer hits.
//
// InvDir and DirIsNeg are derived from Dir by NewRay and must be refreshed
// with SetDir if Dir changes.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	TMin   float32
	TMax   float32

	InvDir   Vec3
	DirIsNeg [3]uint8
}

// Create a ray covering [RayEpsilon, +Inf).
func NewRay(origin, dir Vec3) Ray {
	return NewSegment(origin, dir, RayEpsilon, math32.Inf(1))
}

// Create a ray covering [tMin, tMax].
func NewSegment(origin, dir Vec3, tMin, tMax float32) Ray {
	r := Ray{
		Origin: origin,
		TMin:   tMin,
		TMax:   tMax,
	}
	r.SetDir(dir)
	return r
}

// Update the ray direction and its cached inverse and sign vector.
func (r *Ray) SetDir(dir Vec3) {
	r.Dir = dir
	for axis := 0; axis < 3; axis++ {
		r.InvDir[axis] = 1.0 / dir[axis]
		if r.InvDir[axis] < 0 {
			r.DirIsNeg[axis] = 1
		} else {
			r.DirIsNeg[axis] = 0
		}
	}
}

// Get the point at parametric distance t.
func (r *Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Returns true if t lies within the ray's valid interval.
func (r *Ray) InRange(t float32) bool {
	return t >= r.TMin && t <= r.TMax
}
