package scene

import (
	"errors"
	"time"

	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/log"
	"github.com/chg95211/Ray-Tracing-Core/primitive"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

var ErrSceneAlreadyBuilt = errors.New("scene: scene already built")

// A Scene holds the camera, lights and the top-level primitives. After Build
// returns the scene is read-only and can be queried from multiple goroutines.
type Scene struct {
	logger log.Logger

	Camera *Camera
	Lights []PointLight

	// Radiance returned for rays that escape the scene.
	Background types.Vec3

	// Constant ambient term added to every shaded hit.
	Ambient types.Vec3

	// Top-level primitives; reordered in place by Build.
	Primitives []accel.Primitive

	accelerator *accel.BVH
}

// Create an empty scene.
func New() *Scene {
	return &Scene{
		logger: log.New("scene"),
	}
}

// Append top-level primitives.
func (sc *Scene) Add(prims ...accel.Primitive) error {
	if sc.accelerator != nil {
		return ErrSceneAlreadyBuilt
	}
	sc.Primitives = append(sc.Primitives, prims...)
	return nil
}

// Append a light source.
func (sc *Scene) AddLight(light PointLight) {
	sc.Lights = append(sc.Lights, light)
}

// Build the top-level BVH and refresh the camera basis.
func (sc *Scene) Build() error {
	if sc.accelerator != nil {
		return ErrSceneAlreadyBuilt
	}

	start := time.Now()
	sc.accelerator = accel.NewBVH(sc.Primitives)
	if sc.Camera != nil {
		sc.Camera.Update()
	}

	sc.logger.Infof("built scene BVH over %d primitives in %s", len(sc.Primitives), time.Since(start))
	return nil
}

// Returns true if Build has been called.
func (sc *Scene) IsBuilt() bool {
	return sc.accelerator != nil
}

// Get the top-level BVH or nil if the scene is not built.
func (sc *Scene) BVH() *accel.BVH {
	return sc.accelerator
}

// Find the closest hit along ray.
func (sc *Scene) Intersect(ray *types.Ray, hit *accel.Intersection) bool {
	return sc.accelerator != nil && sc.accelerator.Intersect(ray, hit)
}

// Test whether anything intersects ray.
func (sc *Scene) IntersectP(ray *types.Ray) bool {
	return sc.accelerator != nil && sc.accelerator.IntersectP(ray)
}

// Returns true if the segment between p0 and p1 is blocked. The end points
// themselves are excluded.
func (sc *Scene) Occluded(p0, p1 types.Vec3) bool {
	d := p1.Sub(p0)
	dist := d.Len()
	if dist <= 2*types.RayEpsilon {
		return false
	}

	ray := types.NewSegment(p0, d.Mul(1/dist), types.RayEpsilon, dist-types.RayEpsilon)
	return sc.IntersectP(&ray)
}

// Get the union of all primitive bounds.
func (sc *Scene) WorldBounds() types.BBox {
	if sc.accelerator == nil {
		return types.EmptyBBox()
	}
	return sc.accelerator.WorldBounds()
}

// Get a sphere enclosing the world bounds. An empty scene returns a zero sphere.
func (sc *Scene) BoundingSphere() (center types.Vec3, radius float32) {
	bounds := sc.WorldBounds()
	if bounds.IsEmpty() {
		return types.Vec3{}, 0
	}
	center = bounds.Center()
	return center, bounds.Max.Sub(center).Len()
}

// Get the material for a hit. Hits on primitives that are not part of a
// Geometry use the default material.
func (sc *Scene) Material(hit *accel.Intersection) *primitive.Material {
	if geom, ok := hit.Top.(*primitive.Geometry); ok && geom.Material != nil {
		return geom.Material
	}
	return primitive.DefaultMaterial
}

// Count the shapes reachable from the top-level primitives, descending into
// geometries.
func (sc *Scene) ShapeCount() int {
	count := 0
	for _, prim := range sc.Primitives {
		if geom, ok := prim.(*primitive.Geometry); ok {
			count += geom.Len()
			continue
		}
		count++
	}
	return count
}
