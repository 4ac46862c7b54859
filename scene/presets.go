package scene

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/primitive"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// The default number of spheres generated by the random preset.
const DefaultRandomSpheres = 1000

// Options for procedurally generated scenes.
type PresetOptions struct {
	// Number of spheres for the random preset. Zero selects DefaultRandomSpheres.
	Count int

	// Seed for the random preset.
	Seed int64
}

type presetFn func(opts PresetOptions) (*Scene, error)

var presets = map[string]presetFn{
	"cornell": cornellScene,
	"spheres": sphereLineScene,
	"random":  randomSpheresScene,
}

// Get the sorted list of available preset names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate and build a preset scene.
func Preset(name string, opts PresetOptions) (*Scene, error) {
	fn, exists := presets[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("scene: unknown preset %q; available presets: %s", name, strings.Join(PresetNames(), ", "))
	}

	sc, err := fn(opts)
	if err != nil {
		return nil, err
	}
	if err = sc.Build(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Wrap shapes into a built geometry.
func buildGeometry(name string, mat *primitive.Material, shapes ...accel.Primitive) (*primitive.Geometry, error) {
	geom := primitive.NewGeometry(name, mat)
	if err := geom.Add(shapes...); err != nil {
		return nil, err
	}
	if err := geom.Build(); err != nil {
		return nil, err
	}
	return geom, nil
}

// A closed box spanning [-1, 1] on every axis with the +Z side open, a small
// emissive panel below the ceiling and two spheres.
func cornellScene(_ PresetOptions) (*Scene, error) {
	p1 := types.Vec3{-1, -1, 1}
	p2 := types.Vec3{-1, 1, 1}
	p3 := types.Vec3{-1, 1, -1}
	p4 := types.Vec3{-1, -1, -1}
	p5 := types.Vec3{1, -1, 1}
	p6 := types.Vec3{1, 1, 1}
	p7 := types.Vec3{1, 1, -1}
	p8 := types.Vec3{1, -1, -1}

	white := types.Vec3{0.9, 0.9, 0.9}
	const (
		lightDisp  float32 = 0.05
		lightScale float32 = 0.2
	)
	lightY := 1 - lightDisp
	lightN := types.Vec3{0, -1, 0}

	type part struct {
		name   string
		mat    *primitive.Material
		shapes []accel.Primitive
	}
	parts := []part{
		{"back", primitive.Lambert("Back", white), []accel.Primitive{primitive.NewQuad(p4, p3, p7, p8, types.Vec3{0, 0, 1})}},
		{"left", primitive.Lambert("Left", types.Vec3{0.3, 0.3, 0.9}), []accel.Primitive{primitive.NewQuad(p1, p2, p3, p4, types.Vec3{1, 0, 0})}},
		{"right", primitive.Lambert("Right", types.Vec3{0.9, 0.3, 0.3}), []accel.Primitive{primitive.NewQuad(p5, p6, p7, p8, types.Vec3{-1, 0, 0})}},
		{"top", primitive.Lambert("Top", white), []accel.Primitive{primitive.NewQuad(p2, p3, p7, p6, types.Vec3{0, -1, 0})}},
		{"bottom", primitive.Lambert("Bottom", white), []accel.Primitive{primitive.NewQuad(p1, p4, p8, p5, types.Vec3{0, 1, 0})}},
		{"light", primitive.Emissive("Emission", types.Vec3{4, 4, 4}), []accel.Primitive{
			primitive.NewTriangle(
				types.Vec3{-lightScale, lightY, lightScale},
				types.Vec3{-lightScale, lightY, -lightScale},
				types.Vec3{lightScale, lightY, -lightScale},
				lightN,
			),
			primitive.NewTriangle(
				types.Vec3{-lightScale, lightY, lightScale},
				types.Vec3{lightScale, lightY, lightScale},
				types.Vec3{lightScale, lightY, -lightScale},
				lightN,
			),
		}},
		{"sphere1", primitive.Lambert("Sphere1", white), []accel.Primitive{primitive.NewSphere(types.Vec3{-0.45, 0.6, 0.4}, 0.3)}},
		{"sphere2", primitive.Lambert("Sphere2", white), []accel.Primitive{primitive.NewSphere(types.Vec3{-0.5, -0.6, -0.4}, 0.4)}},
	}

	sc := New()
	for _, p := range parts {
		geom, err := buildGeometry(p.name, p.mat, p.shapes...)
		if err != nil {
			return nil, err
		}
		if err = sc.Add(geom); err != nil {
			return nil, err
		}
	}

	sc.Camera = &Camera{
		Position: types.Vec3{0, 0, 3.4},
		LookAt:   types.Vec3{0, 0, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      40,
	}
	sc.AddLight(PointLight{Position: types.Vec3{0, 0.8, 0}, Intensity: types.Splat3(1.5)})
	sc.Ambient = types.Splat3(0.05)
	return sc, nil
}

// Three unit spheres on the X axis.
func sphereLineScene(_ PresetOptions) (*Scene, error) {
	albedos := []types.Vec3{
		{0.9, 0.2, 0.2},
		{0.2, 0.9, 0.2},
		{0.2, 0.2, 0.9},
	}

	sc := New()
	for index, x := range []float32{-5, 0, 5} {
		name := fmt.Sprintf("sphere%d", index)
		geom, err := buildGeometry(name, primitive.Lambert(name, albedos[index]), primitive.NewSphere(types.Vec3{x, 0, 0}, 1))
		if err != nil {
			return nil, err
		}
		if err = sc.Add(geom); err != nil {
			return nil, err
		}
	}

	sc.Camera = &Camera{
		Position: types.Vec3{0, 0, 15},
		LookAt:   types.Vec3{0, 0, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      45,
	}
	sc.AddLight(PointLight{Position: types.Vec3{0, 10, 10}, Intensity: types.Splat3(150)})
	sc.Ambient = types.Splat3(0.05)
	sc.Background = types.Vec3{0.1, 0.1, 0.15}
	return sc, nil
}

// Randomly placed spheres added directly to the top-level BVH.
func randomSpheresScene(opts PresetOptions) (*Scene, error) {
	count := opts.Count
	if count < 0 {
		return nil, fmt.Errorf("scene: invalid sphere count %d", count)
	} else if count == 0 {
		count = DefaultRandomSpheres
	}

	// Keep the density roughly constant as the count grows
	extent := 2 * math32.Pow(float32(count), 1.0/3.0)
	rng := rand.New(rand.NewSource(opts.Seed))

	sc := New()
	for i := 0; i < count; i++ {
		center := types.Vec3{
			(rng.Float32()*2 - 1) * extent,
			(rng.Float32()*2 - 1) * extent,
			(rng.Float32()*2 - 1) * extent,
		}
		if err := sc.Add(primitive.NewSphere(center, 0.1+rng.Float32()*0.4)); err != nil {
			return nil, err
		}
	}

	sc.Camera = &Camera{
		Position: types.Vec3{0, 0, 3 * extent},
		LookAt:   types.Vec3{0, 0, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      50,
	}
	sc.AddLight(PointLight{Position: types.Vec3{extent, 2 * extent, 2 * extent}, Intensity: types.Splat3(9 * extent * extent)})
	sc.Ambient = types.Splat3(0.1)
	return sc, nil
}
