package scene

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/asset"
	"github.com/chg95211/Ray-Tracing-Core/log"
	"github.com/chg95211/Ray-Tracing-Core/primitive"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// Object kinds supported by scene description files.
const (
	KindSphere   = "sphere"
	KindTriangle = "triangle"
	KindQuad     = "quad"
	KindMesh     = "mesh"
)

// The on-disk scene description.
type sceneDescription struct {
	Background *[3]float32           `toml:"background"`
	Ambient    *[3]float32           `toml:"ambient"`
	Camera     *cameraDescription    `toml:"camera"`
	Lights     []lightDescription    `toml:"light"`
	Materials  []materialDescription `toml:"material"`
	Objects    []objectDescription   `toml:"object"`
}

type cameraDescription struct {
	Position [3]float32  `toml:"position"`
	LookAt   [3]float32  `toml:"look-at"`
	Up       *[3]float32 `toml:"up"`
	FOV      float32     `toml:"fov"`

	// Angles in degrees.
	Pitch float32 `toml:"pitch"`
	Yaw   float32 `toml:"yaw"`
}

type lightDescription struct {
	Position  [3]float32 `toml:"position"`
	Intensity [3]float32 `toml:"intensity"`
}

type materialDescription struct {
	Name     string     `toml:"name"`
	Albedo   [3]float32 `toml:"albedo"`
	Emission [3]float32 `toml:"emission"`
}

type objectDescription struct {
	Kind     string `toml:"kind"`
	Name     string `toml:"name"`
	Material string `toml:"material"`

	// sphere
	Center [3]float32 `toml:"center"`
	Radius float32    `toml:"radius"`

	// triangle, quad
	Vertices [][3]float32 `toml:"vertices"`
	Normal   [3]float32   `toml:"normal"`

	// mesh
	Path      string      `toml:"path"`
	Translate [3]float32  `toml:"translate"`
	Scale     *[3]float32 `toml:"scale"`
	Rotate    [3]float32  `toml:"rotate"`
}

// A list of keys present in a scene file that do not map to any setting.
type ErrUnknownKeys []string

func (e ErrUnknownKeys) Error() string {
	return "scene: unknown keys: [" + strings.Join(e, ", ") + "]"
}

// Load and build a scene from a TOML description at the given local path or
// http/https URL.
func Load(location string) (*Scene, error) {
	res, err := asset.NewResource(location, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return ReadTOML(res)
}

// Parse a TOML scene description and build the scene. Mesh paths are
// resolved relative to res.
func ReadTOML(res *asset.Resource) (*Scene, error) {
	logger := log.New("scene reader")
	logger.Noticef(`parsing scene from "%s"`, res.Path())
	start := time.Now()

	var desc sceneDescription
	meta, err := toml.NewDecoder(res).Decode(&desc)
	if err != nil {
		return nil, fmt.Errorf("scene: could not parse %s: %w", res.Path(), err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var err ErrUnknownKeys
		for _, key := range undecoded {
			err = append(err, key.String())
		}
		return nil, err
	}

	sc, err := desc.toScene(res, logger)
	if err != nil {
		return nil, err
	}
	if err = sc.Build(); err != nil {
		return nil, err
	}

	logger.Noticef("parsed scene with %d top-level primitives and %d shapes in %s", len(sc.Primitives), sc.ShapeCount(), time.Since(start))
	return sc, nil
}

func vec3(v [3]float32) types.Vec3 {
	return types.Vec3{v[0], v[1], v[2]}
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

func (desc *sceneDescription) toScene(res *asset.Resource, logger log.Logger) (*Scene, error) {
	sc := New()

	if desc.Background != nil {
		sc.Background = vec3(*desc.Background)
	}
	if desc.Ambient != nil {
		sc.Ambient = vec3(*desc.Ambient)
	}

	if desc.Camera == nil {
		return nil, fmt.Errorf("scene: %s: missing [camera] section", res.Path())
	}
	sc.Camera = desc.Camera.toCamera()

	for _, light := range desc.Lights {
		sc.AddLight(PointLight{Position: vec3(light.Position), Intensity: vec3(light.Intensity)})
	}

	materials := make(map[string]*primitive.Material, len(desc.Materials))
	for index, mat := range desc.Materials {
		if mat.Name == "" {
			return nil, fmt.Errorf("scene: material %d has no name", index)
		}
		if _, exists := materials[mat.Name]; exists {
			return nil, fmt.Errorf("scene: material %q already defined", mat.Name)
		}
		materials[mat.Name] = &primitive.Material{
			Name:     mat.Name,
			Albedo:   vec3(mat.Albedo),
			Emission: vec3(mat.Emission),
		}
	}
	lookup := func(name string) (*primitive.Material, bool) {
		mat, ok := materials[name]
		return mat, ok
	}

	for index, obj := range desc.Objects {
		mat := primitive.DefaultMaterial
		if obj.Material != "" {
			var exists bool
			if mat, exists = materials[obj.Material]; !exists {
				return nil, fmt.Errorf("scene: object %d references undefined material %q", index, obj.Material)
			}
		}

		name := obj.Name
		if name == "" {
			kind := obj.Kind
			if kind == "" {
				kind = "object"
			}
			name = fmt.Sprintf("%s-%d", kind, index)
		}

		prims, err := obj.toPrimitives(name, mat, res, lookup)
		if err != nil {
			return nil, fmt.Errorf("scene: object %d (%s): %w", index, name, err)
		}
		logger.Debugf("object %d (%s): %d geometries", index, name, len(prims))
		if err = sc.Add(prims...); err != nil {
			return nil, err
		}
	}

	return sc, nil
}

func (cd *cameraDescription) toCamera() *Camera {
	up := types.Vec3{0, 1, 0}
	if cd.Up != nil {
		up = vec3(*cd.Up)
	}
	fov := cd.FOV
	if fov <= 0 {
		fov = 45
	}

	cam := &Camera{
		Position: vec3(cd.Position),
		LookAt:   vec3(cd.LookAt),
		Up:       up,
		FOV:      fov,
		Pitch:    radians(cd.Pitch),
		Yaw:      radians(cd.Yaw),
	}
	cam.Update()
	return cam
}

func (obj *objectDescription) toPrimitives(name string, mat *primitive.Material, res *asset.Resource, lookup func(string) (*primitive.Material, bool)) ([]accel.Primitive, error) {
	var shape accel.Primitive
	switch obj.Kind {
	case KindSphere:
		if obj.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be positive; got %f", obj.Radius)
		}
		shape = primitive.NewSphere(vec3(obj.Center), obj.Radius)
	case KindTriangle:
		if len(obj.Vertices) != 3 {
			return nil, fmt.Errorf("triangle requires 3 vertices; got %d", len(obj.Vertices))
		}
		shape = primitive.NewTriangle(vec3(obj.Vertices[0]), vec3(obj.Vertices[1]), vec3(obj.Vertices[2]), vec3(obj.Normal))
	case KindQuad:
		if len(obj.Vertices) != 4 {
			return nil, fmt.Errorf("quad requires 4 vertices; got %d", len(obj.Vertices))
		}
		shape = primitive.NewQuad(vec3(obj.Vertices[0]), vec3(obj.Vertices[1]), vec3(obj.Vertices[2]), vec3(obj.Vertices[3]), vec3(obj.Normal))
	case KindMesh:
		return obj.loadMesh(mat, res, lookup)
	case "":
		return nil, fmt.Errorf("missing object kind")
	default:
		return nil, fmt.Errorf("unknown object kind %q", obj.Kind)
	}

	geom, err := buildGeometry(name, mat, shape)
	if err != nil {
		return nil, err
	}
	return []accel.Primitive{geom}, nil
}

func (obj *objectDescription) loadMesh(mat *primitive.Material, res *asset.Resource, lookup func(string) (*primitive.Material, bool)) ([]accel.Primitive, error) {
	if obj.Path == "" {
		return nil, fmt.Errorf("mesh requires a path")
	}

	meshRes, err := asset.NewResource(obj.Path, res)
	if err != nil {
		return nil, err
	}
	defer meshRes.Close()

	mesh, err := ReadOBJ(meshRes)
	if err != nil {
		return nil, err
	}

	xf := IdentityTransform()
	xf.Translate = vec3(obj.Translate)
	if obj.Scale != nil {
		xf.Scale = vec3(*obj.Scale)
	}
	xf.Rotate = types.Vec3{radians(obj.Rotate[0]), radians(obj.Rotate[1]), radians(obj.Rotate[2])}
	mesh.Apply(xf)

	// An explicit object material overrides usemtl statements.
	if obj.Material != "" {
		lookup = nil
	}
	geoms, err := mesh.Geometries(mat, lookup)
	if err != nil {
		return nil, err
	}

	prims := make([]accel.Primitive, len(geoms))
	for index, geom := range geoms {
		prims[index] = geom
	}
	return prims, nil
}
