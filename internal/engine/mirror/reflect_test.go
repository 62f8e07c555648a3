package mirror

import (
	"testing"

	"github.com/Faultbox/mirrorbox/pkg/math"
)

func TestReflectPoseInvolution(t *testing.T) {
	face := &Face{
		Index:    4,
		Position: math.Vec3{Z: 5},
		Normal:   math.Vec3{Z: 1},
	}
	src := testPose(math.Vec3{X: 1.2, Y: -0.7, Z: 0.4}, math.Vec3{X: -2, Y: 0.5, Z: 3})

	once, ok := ReflectPose(src, face, false)
	if !ok {
		t.Fatal("first reflection rejected")
	}
	twice, ok := ReflectPose(once, face, true)
	if !ok {
		t.Fatal("second reflection rejected")
	}

	const tol = 1e-5
	if twice.Position.Sub(src.Position).Length() > tol {
		t.Errorf("position after double reflection = %v, want %v", twice.Position, src.Position)
	}
	if twice.Target.Sub(src.Target).Length() > tol {
		t.Errorf("target after double reflection = %v, want %v", twice.Target, src.Target)
	}
	if twice.Up.Sub(src.Up).Length() > tol {
		t.Errorf("up after double reflection = %v, want %v", twice.Up, src.Up)
	}
}

func TestReflectPoseMirroredPosition(t *testing.T) {
	face := &Face{Position: math.Vec3{Z: 1}, Normal: math.Vec3{Z: 1}}
	src := testPose(math.Vec3{}, math.Vec3{Z: 5})

	got, ok := ReflectPose(src, face, false)
	if !ok {
		t.Fatal("reflection rejected")
	}
	// Camera at origin mirrored across the z=1 plane sits at z=2 and
	// looks back toward -Z.
	if want := (math.Vec3{Z: 2}); got.Position != want {
		t.Errorf("mirrored position = %v, want %v", got.Position, want)
	}
	if fwd := got.Forward(); fwd.Z >= 0 {
		t.Errorf("mirrored forward = %v, want looking toward -Z", fwd)
	}
}

func TestReflectPoseCopiesProjection(t *testing.T) {
	face := &Face{Position: math.Vec3{X: 3}, Normal: math.Vec3{X: 1}}
	src := testPose(math.Vec3{}, math.Vec3{X: 1})
	src.FovY = 1.2
	src.Aspect = 1.77
	src.Near = 0.25
	src.Far = 64

	got, ok := ReflectPose(src, face, false)
	if !ok {
		t.Fatal("reflection rejected")
	}
	if got.FovY != src.FovY || got.Aspect != src.Aspect || got.Near != src.Near || got.Far != src.Far {
		t.Error("projection parameters must be copied unchanged")
	}
}

func TestReflectPoseBackFacingSkipped(t *testing.T) {
	face := &Face{Position: math.Vec3{Z: 1}, Normal: math.Vec3{Z: 1}}
	// Source beyond the wall, on the outward side.
	src := testPose(math.Vec3{Z: 4}, math.Vec3{Z: 10})

	if _, ok := ReflectPose(src, face, false); ok {
		t.Error("back-facing reflection should be skipped when not forced")
	}
	if _, ok := ReflectPose(src, face, true); !ok {
		t.Error("forced reflection must be computed even when back-facing")
	}
}

func TestReflectPoseDegenerateView(t *testing.T) {
	face := &Face{Position: math.Vec3{Z: 1}, Normal: math.Vec3{Z: 1}}
	src := testPose(math.Vec3{X: 0.5}, math.Vec3{X: 0.5}) // zero view vector

	got, ok := ReflectPose(src, face, true)
	if ok {
		t.Fatalf("degenerate view vector must be skipped, got %+v", got)
	}
}
