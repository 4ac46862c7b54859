package primitive

import (
	"errors"

	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

var ErrGeometryBuilt = errors.New("primitive: geometry already built")

// A Geometry groups a set of shapes that share a material. The shapes are
// stored in their own BVH so a Geometry can be placed in a top-level BVH like
// any other primitive.
type Geometry struct {
	Name     string
	Material *Material

	shapes []accel.Primitive
	bvh    *accel.BVH
}

// Create an empty geometry. A nil material selects DefaultMaterial.
func NewGeometry(name string, material *Material) *Geometry {
	if material == nil {
		material = DefaultMaterial
	}
	return &Geometry{
		Name:     name,
		Material: material,
	}
}

// Append shapes to the geometry. Shapes can only be added before Build.
func (g *Geometry) Add(shapes ...accel.Primitive) error {
	if g.bvh != nil {
		return ErrGeometryBuilt
	}
	g.shapes = append(g.shapes, shapes...)
	return nil
}

// Build the geometry BVH.
func (g *Geometry) Build() error {
	if g.bvh != nil {
		return ErrGeometryBuilt
	}
	g.bvh = accel.NewBVH(g.shapes)
	return nil
}

// Get the number of shapes in the geometry.
func (g *Geometry) Len() int {
	return len(g.shapes)
}

// Get the geometry's BVH or nil if Build has not been called.
func (g *Geometry) BVH() *accel.BVH {
	return g.bvh
}

// Get the world bounds. An unbuilt geometry reports an empty box and is never
// hit.
func (g *Geometry) WorldBounds() types.BBox {
	if g.bvh == nil {
		return types.EmptyBBox()
	}
	return g.bvh.WorldBounds()
}

func (g *Geometry) Intersect(ray *types.Ray, hit *accel.Intersection) bool {
	if g.bvh == nil || !g.bvh.Intersect(ray, hit) {
		return false
	}
	hit.Top = g
	return true
}

func (g *Geometry) IntersectP(ray *types.Ray) bool {
	return g.bvh != nil && g.bvh.IntersectP(ray)
}
