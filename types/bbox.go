package types

import "github.com/chewxy/math32"

// Error bound used to widen the far slab distance so that rays grazing a box
// edge are not lost to float32 rounding (3 ulp, see PBRT gamma(3)).
const slabGamma3 float32 = 3 * 0x1p-24 / (1 - 3*0x1p-24)

// An axis-aligned bounding box. A box with Min > Max on any axis is empty.
type BBox struct {
	Min Vec3
	Max Vec3
}

// Create an empty box. The union of an empty box with any box B is B.
func EmptyBBox() BBox {
	return BBox{
		Min: Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// Create a box that tightly encloses the given points.
func BBoxFromPoints(points ...Vec3) BBox {
	b := EmptyBBox()
	for _, p := range points {
		b = b.UnionPoint(p)
	}
	return b
}

// Returns true if the box encloses no points.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union of two boxes.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{
		Min: MinVec3(b.Min, b2.Min),
		Max: MaxVec3(b.Max, b2.Max),
	}
}

// Grow the box so it encloses p.
func (b BBox) UnionPoint(p Vec3) BBox {
	return BBox{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Get the box centroid.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the box side lengths.
func (b BBox) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the axis along which the box is longest.
func (b BBox) MaxExtentAxis() Axis {
	return b.Extent().MaxAxis()
}

// Get the box surface area. Empty boxes have zero area.
func (b BBox) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Extent()
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// Returns true if p lies inside or on the box.
func (b BBox) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Returns true if b fully encloses b2.
func (b BBox) ContainsBox(b2 BBox) bool {
	return b.Contains(b2.Min) && b.Contains(b2.Max)
}

// Slab test against the ray's current [TMin, TMax] interval. It uses the
// inverse direction and sign vector cached in the ray. Empty or inverted boxes
// never intersect.
func (b BBox) IntersectP(r *Ray) bool {
	tNear, tFar := r.TMin, r.TMax
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] > b.Max[axis] {
			return false
		}

		lo, hi := b.Min[axis], b.Max[axis]
		if r.DirIsNeg[axis] == 1 {
			lo, hi = hi, lo
		}

		t0 := (lo - r.Origin[axis]) * r.InvDir[axis]
		t1 := (hi - r.Origin[axis]) * r.InvDir[axis]
		t1 *= 1 + 2*slabGamma3

		// NaNs (origin on a slab plane with a zero direction component) fail
		// both comparisons and leave the interval untouched.
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return false
		}
	}
	return true
}
