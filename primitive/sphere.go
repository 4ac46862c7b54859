package primitive

import (
	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// A sphere defined by its world-space center and radius.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create a new sphere.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) WorldBounds() types.BBox {
	r := types.Splat3(s.Radius)
	return types.BBox{
		Min: s.Center.Sub(r),
		Max: s.Center.Add(r),
	}
}

// Solve the ray/sphere quadratic and return the nearest root that lies
// within the ray's valid range.
func (s *Sphere) hitDistance(ray *types.Ray) (float32, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.LenSquared()
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSquared() - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 || a == 0 {
		return 0, false
	}

	sqrtD := math32.Sqrt(disc)
	t := (-halfB - sqrtD) / a
	if !ray.InRange(t) {
		t = (-halfB + sqrtD) / a
		if !ray.InRange(t) {
			return 0, false
		}
	}
	return t, true
}

func (s *Sphere) Intersect(ray *types.Ray, hit *accel.Intersection) bool {
	t, ok := s.hitDistance(ray)
	if !ok {
		return false
	}

	ray.TMax = t
	hit.T = t
	hit.Point = ray.At(t)
	hit.Normal = hit.Point.Sub(s.Center).Mul(1 / s.Radius)
	hit.U, hit.V = sphereUV(hit.Normal)
	hit.Prim = s
	return true
}

func (s *Sphere) IntersectP(ray *types.Ray) bool {
	_, ok := s.hitDistance(ray)
	return ok
}

// Map a unit direction from the sphere center to spherical (u, v) coordinates
// in [0, 1]: u follows the azimuth around Z and v the polar angle from +Z.
func sphereUV(n types.Vec3) (float32, float32) {
	x, y := n[0], n[1]
	if x == 0 && y == 0 {
		x = 1e-5
	}

	phi := math32.Atan2(y, x)
	if phi < 0 {
		phi += 2 * math32.Pi
	}

	cosTheta := math32.Max(-1, math32.Min(1, n[2]))
	return phi / (2 * math32.Pi), math32.Acos(cosTheta) / math32.Pi
}
