package types

import "github.com/chewxy/math32"

// A rotation quaternion with vector part V and scalar part W.
type Quat struct {
	V Vec3
	W float32
}

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat{W: 1.0}
}

// Create a quaternion that rotates by angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin, cos := math32.Sin(angle*0.5), math32.Cos(angle*0.5)
	return Quat{
		V: axis.Normalize().Mul(sin),
		W: cos,
	}
}

// Create a quaternion from yaw (around X), pitch (around Y) and roll (around Z)
// angles in radians. Rotations are applied in yaw, pitch, roll order.
func QuatFromEuler(yaw, pitch, roll float32) Quat {
	qYaw := QuatFromAxisAngle(Vec3{1, 0, 0}, yaw)
	qPitch := QuatFromAxisAngle(Vec3{0, 1, 0}, pitch)
	qRoll := QuatFromAxisAngle(Vec3{0, 0, 1}, roll)
	return qRoll.Mul(qPitch.Mul(qYaw)).Normalize()
}

// Rotate v by the rotation this quaternion represents:
// v + 2w(q x v) + 2q x (q x v)
func (q Quat) Rotate(v Vec3) Vec3 {
	cross := q.V.Cross(v)
	return v.Add(cross.Mul(2 * q.W)).Add(q.V.Mul(2).Cross(cross))
}

// Compose two rotations; the result applies q2 first and then q. Not commutative.
func (q Quat) Mul(q2 Quat) Quat {
	return Quat{
		V: q.V.Cross(q2.V).Add(q2.V.Mul(q.W)).Add(q.V.Mul(q2.W)),
		W: q.W*q2.W - q.V.Dot(q2.V),
	}
}

// Get the quaternion norm.
func (q Quat) Len() float32 {
	return math32.Sqrt(q.W*q.W + q.V.Dot(q.V))
}

// Normalize to a unit quaternion. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < floatCmpEpsilon {
		return QuatIdent()
	}
	inv := 1.0 / l
	return Quat{V: q.V.Mul(inv), W: q.W * inv}
}
