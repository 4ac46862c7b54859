package primitive

import "github.com/chg95211/Ray-Tracing-Core/types"

// A plain-color surface description.
type Material struct {
	Name string

	// Diffuse reflectance.
	Albedo types.Vec3

	// Emitted radiance. A material with a non-zero emission is a light source.
	Emission types.Vec3
}

// The material assigned to geometry that does not specify one.
var DefaultMaterial = &Material{
	Name:   "default",
	Albedo: types.Vec3{0.7, 0.7, 0.7},
}

// Create a diffuse material.
func Lambert(name string, albedo types.Vec3) *Material {
	return &Material{Name: name, Albedo: albedo}
}

// Create an emissive material.
func Emissive(name string, emission types.Vec3) *Material {
	return &Material{Name: name, Emission: emission}
}

// Returns true if the material emits light.
func (m *Material) IsEmissive() bool {
	return m.Emission.MaxComponent() > 0
}
