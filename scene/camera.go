package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Rotation angles (in radians) applied to the view direction by the next
	// call to Update.
	Pitch float32
	Yaw   float32

	// Vertical field of view in degrees.
	FOV float32

	// Orthonormal view basis and the tangent of half the FOV; refreshed by Update.
	forward, right, up types.Vec3
	tanHalfFOV         float32
}

// Create a camera at the origin looking down the -Z axis.
func NewCamera(fov float32) *Camera {
	c := &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
	c.Update()
	return c
}

// Apply any pending pitch/yaw rotation to the look-at point and recalculate
// the view basis. Pending angles are reset so that repeated calls are stable.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	if dir.IsZero() {
		dir = types.Vec3{0, 0, -1}
	}
	up := c.Up.Normalize()
	if up.IsZero() {
		up = types.Vec3{0, 1, 0}
	}

	if c.Pitch != 0 || c.Yaw != 0 {
		pitchAxis := dir.Cross(up)
		pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
		yawQuat := types.QuatFromAxisAngle(up, c.Yaw)
		orientQuat := pitchQuat.Mul(yawQuat).Normalize()

		dist := c.LookAt.Sub(c.Position).Len()
		if dist == 0 {
			dist = 1
		}
		dir = orientQuat.Rotate(dir).Normalize()
		c.LookAt = c.Position.Add(dir.Mul(dist))
		c.Pitch, c.Yaw = 0, 0
	}

	c.forward = dir
	c.right = dir.Cross(up).Normalize()
	if c.right.IsZero() {
		// Looking straight along the up vector; pick any perpendicular axis
		c.right = dir.Cross(types.Vec3{1, 0, 0}).Normalize()
		if c.right.IsZero() {
			c.right = dir.Cross(types.Vec3{0, 0, 1}).Normalize()
		}
	}
	c.up = c.right.Cross(dir)
	c.tanHalfFOV = math32.Tan(c.FOV * 0.5 * math32.Pi / 180)
}

// Get the normalized view direction.
func (c *Camera) Forward() types.Vec3 {
	return c.forward
}

// Generate a primary ray for normalized screen coordinates. (0, 0) maps to
// the top-left corner of the frame and (1, 1) to the bottom-right one.
//
// GenerateRay does not modify the camera and may be called concurrently.
func (c *Camera) GenerateRay(u, v, aspect float32) types.Ray {
	sx := (2*u - 1) * c.tanHalfFOV * aspect
	sy := (1 - 2*v) * c.tanHalfFOV

	dir := c.forward.Add(c.right.Mul(sx)).Add(c.up.Mul(sy)).Normalize()
	return types.NewRay(c.Position, dir)
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"position: (%3.3f, %3.3f, %3.3f), look-at: (%3.3f, %3.3f, %3.3f), fov: %3.1f",
		c.Position[0], c.Position[1], c.Position[2],
		c.LookAt[0], c.LookAt[1], c.LookAt[2],
		c.FOV,
	)
}
