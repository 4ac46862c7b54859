package scene

import "github.com/chg95211/Ray-Tracing-Core/types"

// An isotropic point light.
type PointLight struct {
	Position types.Vec3

	// Radiant intensity per color channel.
	Intensity types.Vec3
}

// Compute the unit direction from p towards the light, the distance to the
// light and the incident radiance at p (intensity attenuated by 1/d^2).
// A light located exactly at p contributes nothing.
func (l *PointLight) Illuminate(p types.Vec3) (wi types.Vec3, dist float32, li types.Vec3) {
	toLight := l.Position.Sub(p)
	distSq := toLight.LenSquared()
	if distSq == 0 {
		return types.Vec3{}, 0, types.Vec3{}
	}

	dist = toLight.Len()
	return toLight.Mul(1 / dist), dist, l.Intensity.Mul(1 / distSq)
}
