package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

func TestCameraGenerateRay(t *testing.T) {
	cam := &Camera{
		Position: types.Vec3{0, 0, 5},
		LookAt:   types.Vec3{0, 0, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      90,
	}
	cam.Update()

	type spec struct {
		u, v   float32
		aspect float32
		expDir types.Vec3
	}
	invSqrt2 := 1 / math32.Sqrt(2)
	specs := []spec{
		{0.5, 0.5, 1, types.Vec3{0, 0, -1}},
		// tan(45) = 1 so the frame edges are at 45 degrees
		{1, 0.5, 1, types.Vec3{invSqrt2, 0, -invSqrt2}},
		{0, 0.5, 1, types.Vec3{-invSqrt2, 0, -invSqrt2}},
		{0.5, 0, 1, types.Vec3{0, invSqrt2, -invSqrt2}},
		{0.5, 1, 1, types.Vec3{0, -invSqrt2, -invSqrt2}},
		// A wider frame stretches the horizontal extent
		{1, 0.5, 2, types.Vec3{2, 0, -1}.Normalize()},
	}

	for index, s := range specs {
		ray := cam.GenerateRay(s.u, s.v, s.aspect)
		if ray.Origin != cam.Position {
			t.Fatalf("[spec %d] expected ray origin %v; got %v", index, cam.Position, ray.Origin)
		}
		if !vecApproxEqual(ray.Dir, s.expDir) {
			t.Fatalf("[spec %d] expected ray dir %v; got %v", index, s.expDir, ray.Dir)
		}
	}
}

func TestCameraYaw(t *testing.T) {
	cam := &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -2},
		Up:       types.Vec3{0, 1, 0},
		FOV:      60,
		Yaw:      math32.Pi / 2,
	}
	cam.Update()

	// Rotating -Z by 90 degrees around +Y gives -X
	if !vecApproxEqual(cam.Forward(), types.Vec3{-1, 0, 0}) {
		t.Fatalf("expected forward (-1, 0, 0); got %v", cam.Forward())
	}
	if !vecApproxEqual(cam.LookAt, types.Vec3{-2, 0, 0}) {
		t.Fatalf("expected look-at to keep its distance; got %v", cam.LookAt)
	}
	if cam.Yaw != 0 || cam.Pitch != 0 {
		t.Fatal("expected pending angles to be reset")
	}

	// Updating again must not rotate further
	cam.Update()
	if !vecApproxEqual(cam.Forward(), types.Vec3{-1, 0, 0}) {
		t.Fatalf("expected repeated Update to be stable; got %v", cam.Forward())
	}
}

func TestCameraPitch(t *testing.T) {
	cam := &Camera{
		LookAt: types.Vec3{0, 0, -1},
		Up:     types.Vec3{0, 1, 0},
		FOV:    60,
		Pitch:  math32.Pi / 4,
	}
	cam.Update()

	fwd := cam.Forward()
	if !approxEqual(fwd[0], 0) || !approxEqual(math32.Abs(fwd[1]), 1/math32.Sqrt(2)) {
		t.Fatalf("expected forward to tilt by 45 degrees; got %v", fwd)
	}
}

func TestNewCamera(t *testing.T) {
	cam := NewCamera(45)
	if !vecApproxEqual(cam.Forward(), types.Vec3{0, 0, -1}) {
		t.Fatalf("expected default camera to look down -Z; got %v", cam.Forward())
	}
	ray := cam.GenerateRay(0.5, 0.5, 1.5)
	if !vecApproxEqual(ray.Dir, types.Vec3{0, 0, -1}) {
		t.Fatalf("expected center ray along -Z; got %v", ray.Dir)
	}
}
