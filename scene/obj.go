package scene

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/asset"
	"github.com/chg95211/Ray-Tracing-Core/log"
	"github.com/chg95211/Ray-Tracing-Core/primitive"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// A named group of triangles parsed from a wavefront object file.
type MeshGroup struct {
	Name string

	// The material selected with "usemtl" for the group's faces, if any.
	Material string

	Triangles []*primitive.Triangle
}

// A triangle mesh parsed from a wavefront object file.
type Mesh struct {
	Name   string
	Groups []*MeshGroup
}

// Get the total number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	count := 0
	for _, group := range m.Groups {
		count += len(group.Triangles)
	}
	return count
}

// Apply a transformation to all vertices and normals in place.
func (m *Mesh) Apply(xf Transform) {
	for _, group := range m.Groups {
		for _, tri := range group.Triangles {
			tri.V0 = xf.Point(tri.V0)
			tri.V1 = xf.Point(tri.V1)
			tri.V2 = xf.Point(tri.V2)
			tri.N = xf.Normal(tri.N)
		}
	}
}

// Create a built geometry for each mesh group. Groups use mat when the
// lookup function is nil or does not know the group's material.
func (m *Mesh) Geometries(mat *primitive.Material, lookup func(name string) (*primitive.Material, bool)) ([]*primitive.Geometry, error) {
	geoms := make([]*primitive.Geometry, 0, len(m.Groups))
	for _, group := range m.Groups {
		groupMat := mat
		if lookup != nil && group.Material != "" {
			if found, ok := lookup(group.Material); ok {
				groupMat = found
			}
		}

		shapes := make([]accel.Primitive, len(group.Triangles))
		for index, tri := range group.Triangles {
			shapes[index] = tri
		}
		geom, err := buildGeometry(group.Name, groupMat, shapes...)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, geom)
	}
	return geoms, nil
}

type objReader struct {
	logger log.Logger

	mesh *Mesh

	vertexList []types.Vec3
	normalList []types.Vec3
	uvCount    int

	curMaterial string
}

// Parse a wavefront object file. Supported statements are v, vn, vt, f, g, o
// and usemtl; anything else is skipped. Faces must be triangles or quads.
// Faces that appear before any g/o statement are collected in a group named
// after the resource.
func ReadOBJ(res *asset.Resource) (*Mesh, error) {
	r := &objReader{
		logger: log.New("obj reader"),
		mesh:   &Mesh{Name: res.Name()},
	}

	r.logger.Infof(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	r.logger.Infof("parsed %d triangles in %d group(s) in %s", r.mesh.TriangleCount(), len(r.mesh.Groups), time.Since(start))
	return r.mesh, nil
}

func (r *objReader) parse(res *asset.Resource) error {
	lineNum := 0
	skipped := make(map[string]int)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err)
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err)
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			if len(lineTokens) < 3 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "vt"; expected 2 arguments; got %d`, len(lineTokens)-1)
			}
			r.uvCount++
		case "g", "o":
			if len(lineTokens) < 2 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			r.dropEmptyGroup()
			r.mesh.Groups = append(r.mesh.Groups, &MeshGroup{Name: lineTokens[1], Material: r.curMaterial})
		case "usemtl":
			if len(lineTokens) != 2 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			r.curMaterial = lineTokens[1]
		case "f":
			tris, err := r.parseFace(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err)
			}
			group := r.groupForFace()
			group.Triangles = append(group.Triangles, tris...)
		default:
			skipped[lineTokens[0]]++
		}
	}
	if err := scanner.Err(); err != nil {
		return emitError(res.Path(), lineNum, "%s", err)
	}

	r.dropEmptyGroup()
	for statement, count := range skipped {
		r.logger.Debugf("skipped %d unsupported %q statement(s)", count, statement)
	}
	return nil
}

func (r *objReader) curGroup() *MeshGroup {
	if len(r.mesh.Groups) == 0 {
		return nil
	}
	return r.mesh.Groups[len(r.mesh.Groups)-1]
}

// Get the group that receives the next face. A material switch inside a
// group that already has faces starts a new group with the same name.
func (r *objReader) groupForFace() *MeshGroup {
	group := r.curGroup()
	switch {
	case group == nil:
		group = &MeshGroup{Name: r.mesh.Name, Material: r.curMaterial}
		r.mesh.Groups = append(r.mesh.Groups, group)
	case group.Material != r.curMaterial && len(group.Triangles) == 0:
		group.Material = r.curMaterial
	case group.Material != r.curMaterial:
		group = &MeshGroup{Name: group.Name, Material: r.curMaterial}
		r.mesh.Groups = append(r.mesh.Groups, group)
	}
	return group
}

// Drop the last parsed group if it contains no faces.
func (r *objReader) dropEmptyGroup() {
	lastIndex := len(r.mesh.Groups) - 1
	if lastIndex >= 0 && len(r.mesh.Groups[lastIndex].Triangles) == 0 {
		r.logger.Warningf(`dropping group "%s" as it contains no faces`, r.mesh.Groups[lastIndex].Name)
		r.mesh.Groups = r.mesh.Groups[:lastIndex]
	}
}

// Parse a face definition. Each vertex argument uses one of the forms
// v, v/vt, v//vn or v/vt/vn. Indices start from 1 and may be negative to
// reference elements from the end of the list. Quads are split along the
// first-third vertex diagonal.
func (r *objReader) parseFace(lineTokens []string) ([]*primitive.Triangle, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d`, len(lineTokens)-1)
	}

	var (
		vertices   [4]types.Vec3
		normals    [4]types.Vec3
		hasNormals = true
		expIndices int
	)
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
			if expIndices > 3 {
				return nil, fmt.Errorf("face argument %d contains %d indices; expected at most 3", arg, expIndices)
			}
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}
		index, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[index]

		if expIndices > 1 && vTokens[1] != "" {
			if _, err = selectFaceCoordIndex(vTokens[1], r.uvCount); err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
		}

		if expIndices > 2 && vTokens[2] != "" {
			index, err = selectFaceCoordIndex(vTokens[2], len(r.normalList))
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[index]
		} else {
			hasNormals = false
		}
	}

	indexList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indexList = append(indexList, [3]int{0, 2, 3})
	}

	tris := make([]*primitive.Triangle, 0, len(indexList))
	for _, indices := range indexList {
		// Shade with the averaged vertex normals; a zero normal falls back to
		// the geometric one.
		var n types.Vec3
		if hasNormals {
			n = normals[indices[0]].Add(normals[indices[1]]).Add(normals[indices[2]]).Normalize()
		}
		tris = append(tris, primitive.NewTriangle(vertices[indices[0]], vertices[indices[1]], vertices[indices[2]], n))
	}
	return tris, nil
}

// Generate a parse error annotated with the file and line.
func emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	if file == "" {
		return fmt.Errorf("error: %s", msg)
	}
	return fmt.Errorf("[%s: %d] error: %s", file, line, msg)
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// offset into the coord list. Negative indices reference elements from the
// end of the list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index) - 1
	}

	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
