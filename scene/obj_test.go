package scene

import (
	"reflect"
	"strings"
	"testing"

	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/asset"
	"github.com/chg95211/Ray-Tracing-Core/primitive"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

func mockResource(name, payload string) *asset.Resource {
	return asset.NewResourceFromStream(name, strings.NewReader(payload))
}

func TestVec3Parser(t *testing.T) {
	expError := `unsupported syntax for "v"; expected 3 arguments; got 0`
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}

	expVal := types.Vec3{3.14, 0, 0.4}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in       string
		listLen  int
		out      int
		expError string
	}
	specs := []spec{
		{"2", 1, -1, expError},
		{"-2", 1, -1, expError},
		{"0", 5, -1, expError},
		{"1", 10, 0, ""}, // indices are 1-based
		{"-1", 10, 9, ""},
		{"-10", 10, 0, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestReadOBJGroups(t *testing.T) {
	payload := `
# two groups; the second uses negative indices and a quad face
mtllib ignored.mtl
o tri
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1

g empty

usemtl red
g quad
v 0 0 2
v 1 0 2
v 1 1 2
v 0 1 2
f -4 -3 -2 -1
s off
`
	mesh, err := ReadOBJ(mockResource("mesh.obj", payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(mesh.Groups) != 2 {
		t.Fatalf("expected 2 groups (empty groups dropped); got %d", len(mesh.Groups))
	}
	if mesh.Groups[0].Name != "tri" || len(mesh.Groups[0].Triangles) != 1 {
		t.Fatalf("expected group tri with 1 triangle; got %s with %d", mesh.Groups[0].Name, len(mesh.Groups[0].Triangles))
	}
	if mesh.Groups[1].Name != "quad" || len(mesh.Groups[1].Triangles) != 2 || mesh.Groups[1].Material != "red" {
		t.Fatalf("expected group quad with 2 triangles and material red; got %s with %d (%q)", mesh.Groups[1].Name, len(mesh.Groups[1].Triangles), mesh.Groups[1].Material)
	}
	if mesh.TriangleCount() != 3 {
		t.Fatalf("expected 3 triangles; got %d", mesh.TriangleCount())
	}

	tri := mesh.Groups[0].Triangles[0]
	if tri.N != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected normal from vn statements; got %v", tri.N)
	}

	// Quad split along the first-third vertex diagonal
	expQuad := [2][3]types.Vec3{
		{{0, 0, 2}, {1, 0, 2}, {1, 1, 2}},
		{{0, 0, 2}, {1, 1, 2}, {0, 1, 2}},
	}
	for index, qt := range mesh.Groups[1].Triangles {
		got := [3]types.Vec3{qt.V0, qt.V1, qt.V2}
		if got != expQuad[index] {
			t.Fatalf("expected quad triangle %d to be %v; got %v", index, expQuad[index], got)
		}
		if !qt.N.IsZero() {
			t.Fatalf("expected quad triangle %d to use the geometric normal", index)
		}
	}
}

func TestReadOBJDefaultGroup(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	mesh, err := ReadOBJ(mockResource("meshes/plane.obj", payload))
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Groups) != 1 || mesh.Groups[0].Name != "plane.obj" {
		t.Fatalf("expected a single group named after the file; got %d groups", len(mesh.Groups))
	}
}

func TestReadOBJErrors(t *testing.T) {
	type spec struct {
		payload  string
		expError string
	}
	specs := []spec{
		{"v 1 2\n", `[bad.obj: 1] error: unsupported syntax for "v"; expected 3 arguments; got 2`},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 1 2 4\n", "[bad.obj: 5] error: could not parse vertex coord for face argument 2: index out of bounds"},
		{"v 0 0 0\nf 1 1\n", `[bad.obj: 2] error: unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got 2`},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nv 2 2 0\nf 1 2 3 4 5\n", `[bad.obj: 6] error: unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got 5`},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2 3\n", "[bad.obj: 5] error: expected each face argument to contain 2 indices; arg 1 contains 1 indices"},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", "[bad.obj: 4] error: could not parse normal coord for face argument 0: index out of bounds"},
		{"g\n", `[bad.obj: 1] error: unsupported syntax for "g"; expected 1 argument for object name; got 0`},
	}

	for index, s := range specs {
		_, err := ReadOBJ(mockResource("bad.obj", s.payload))
		if err == nil || err.Error() != s.expError {
			t.Fatalf("[spec %d] expected error:\n%s\ngot:\n%v", index, s.expError, err)
		}
	}
}

func TestMeshTransformAndGeometries(t *testing.T) {
	payload := `
o a
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
usemtl blue
o b
f 1 3 2
`
	mesh, err := ReadOBJ(mockResource("mesh.obj", payload))
	if err != nil {
		t.Fatal(err)
	}

	xf := IdentityTransform()
	xf.Translate = types.Vec3{0, 0, -5}
	xf.Scale = types.Vec3{2, 2, 2}
	mesh.Apply(xf)

	tri := mesh.Groups[0].Triangles[0]
	if tri.V1 != (types.Vec3{2, 0, -5}) || tri.V2 != (types.Vec3{0, 2, -5}) {
		t.Fatalf("unexpected transformed vertices %v %v", tri.V1, tri.V2)
	}

	blue := primitive.Lambert("blue", types.Vec3{0, 0, 1})
	fallback := primitive.Lambert("fallback", types.Vec3{1, 1, 1})
	geoms, err := mesh.Geometries(fallback, func(name string) (*primitive.Material, bool) {
		if name == "blue" {
			return blue, true
		}
		return nil, false
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(geoms) != 2 || geoms[0].Material != fallback || geoms[1].Material != blue {
		t.Fatal("expected group materials to be resolved through the lookup")
	}

	ray := types.NewRay(types.Vec3{0.5, 0.5, 0}, types.Vec3{0, 0, -1})
	var hit accel.Intersection
	if !geoms[0].Intersect(&ray, &hit) || !approxEqual(hit.T, 5) {
		t.Fatalf("expected transformed mesh to be hit at t=5; got %f", hit.T)
	}
}

func TestTransformRotation(t *testing.T) {
	xf := IdentityTransform()
	xf.Rotate = types.Vec3{0, radians(90), 0}

	if got := xf.Point(types.Vec3{0, 0, -1}); !vecApproxEqual(got, types.Vec3{-1, 0, 0}) {
		t.Fatalf("expected rotated point (-1, 0, 0); got %v", got)
	}
	if got := xf.Normal(types.Vec3{0, 0, 2}); !vecApproxEqual(got, types.Vec3{1, 0, 0}) {
		t.Fatalf("expected rotated normal (1, 0, 0); got %v", got)
	}
}

func TestReadOBJMaterialSwitchWithinGroup(t *testing.T) {
	payload := `
g box
usemtl red
v 0 0 0
v 1 0 0
v 0 1 0
v 5 0 0
v 6 0 0
v 5 1 0
f 1 2 3
usemtl blue
f 4 5 6
usemtl blue
f 6 5 4
`
	mesh, err := ReadOBJ(mockResource("box.obj", payload))
	if err != nil {
		t.Fatal(err)
	}

	type groupSpec struct {
		name     string
		material string
		tris     int
	}
	expGroups := []groupSpec{
		{"box", "red", 1},
		{"box", "blue", 2},
	}
	if len(mesh.Groups) != len(expGroups) {
		t.Fatalf("expected %d groups; got %d", len(expGroups), len(mesh.Groups))
	}
	for index, exp := range expGroups {
		group := mesh.Groups[index]
		if group.Name != exp.name || group.Material != exp.material || len(group.Triangles) != exp.tris {
			t.Fatalf("[spec %d] expected group %s (%s) with %d triangles; got %s (%s) with %d", index, exp.name, exp.material, exp.tris, group.Name, group.Material, len(group.Triangles))
		}
	}

	materials := map[string]*primitive.Material{
		"red":  primitive.Lambert("red", types.Vec3{1, 0, 0}),
		"blue": primitive.Lambert("blue", types.Vec3{0, 0, 1}),
	}
	geoms, err := mesh.Geometries(primitive.DefaultMaterial, func(name string) (*primitive.Material, bool) {
		mat, ok := materials[name]
		return mat, ok
	})
	if err != nil {
		t.Fatal(err)
	}

	sc := New()
	for _, geom := range geoms {
		if err = sc.Add(geom); err != nil {
			t.Fatal(err)
		}
	}
	if err = sc.Build(); err != nil {
		t.Fatal(err)
	}

	type spec struct {
		origin types.Vec3
		expMat string
	}
	specs := []spec{
		{types.Vec3{0.25, 0.25, 1}, "red"},
		{types.Vec3{5.25, 0.25, 1}, "blue"},
	}
	for index, s := range specs {
		ray := types.NewRay(s.origin, types.Vec3{0, 0, -1})
		var hit accel.Intersection
		if !sc.Intersect(&ray, &hit) {
			t.Fatalf("[spec %d] expected ray to hit the mesh", index)
		}
		if got := sc.Material(&hit).Name; got != s.expMat {
			t.Fatalf("[spec %d] expected face to be shaded with material %q; got %q", index, s.expMat, got)
		}
	}
}
