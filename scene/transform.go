package scene

import "github.com/chg95211/Ray-Tracing-Core/types"

// A scale-rotate-translate transformation for mesh vertices.
type Transform struct {
	Translate types.Vec3
	Scale     types.Vec3

	// Yaw (X), pitch (Y) and roll (Z) angles in radians.
	Rotate types.Vec3
}

// Create a transformation that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: types.Splat3(1)}
}

func (xf Transform) rotation() types.Quat {
	return types.QuatFromEuler(xf.Rotate[0], xf.Rotate[1], xf.Rotate[2])
}

// Transform a point: M = T * R * S.
func (xf Transform) Point(p types.Vec3) types.Vec3 {
	return xf.rotation().Rotate(p.MulVec(xf.Scale)).Add(xf.Translate)
}

// Transform a normal. Normals are scaled by the inverse scale before rotating
// so they stay perpendicular to scaled surfaces.
func (xf Transform) Normal(n types.Vec3) types.Vec3 {
	if n.IsZero() {
		return n
	}

	var inv types.Vec3
	for axis := 0; axis < 3; axis++ {
		if xf.Scale[axis] != 0 {
			inv[axis] = 1 / xf.Scale[axis]
		}
	}
	return xf.rotation().Rotate(n.MulVec(inv)).Normalize()
}
