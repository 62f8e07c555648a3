package mirror

import (
	"reflect"
	"testing"

	"github.com/Faultbox/mirrorbox/pkg/math"
)

func TestThrottleAllRoundRobin(t *testing.T) {
	faces := buildFaces(2, 0)
	th := NewThrottle(ReflectionAll, 2)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	want := [][]int{{0, 1}, {2, 3}, {4, 5}, {0, 1}}
	for frame, w := range want {
		got := th.Select(faces, cam)
		if !reflect.DeepEqual(got, w) {
			t.Errorf("frame %d: Select = %v, want %v", frame, got, w)
		}
	}
}

func TestThrottleAllBudgetClamped(t *testing.T) {
	faces := buildFaces(2, 0)
	th := NewThrottle(ReflectionAll, 50)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	got := th.Select(faces, cam)
	if len(got) != FaceCount {
		t.Errorf("Select returned %d faces, want %d", len(got), FaceCount)
	}
	// Offset wraps, so the next frame starts over at 0.
	got = th.Select(faces, cam)
	if got[0] != 0 {
		t.Errorf("second frame starts at %d, want 0", got[0])
	}
}

func TestThrottleNone(t *testing.T) {
	faces := buildFaces(2, 0)
	th := NewThrottle(ReflectionNone, 3)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	if got := th.Select(faces, cam); len(got) != 0 {
		t.Errorf("Select = %v, want empty", got)
	}
}

func TestThrottleCameraFacing(t *testing.T) {
	faces := buildFaces(2, 0)
	th := NewThrottle(ReflectionCameraFacing, 1)

	tests := []struct {
		name string
		cam  math.Vec3 // look target from origin
		want int
	}{
		{"looking +Z", math.Vec3{Z: 1}, 4},
		{"looking -Z", math.Vec3{Z: -1}, 5},
		{"looking +X", math.Vec3{X: 1}, 0},
		{"looking -Y", math.Vec3{Y: -1}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.Select(faces, testPose(math.Vec3{}, tt.cam))
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Select = %v, want [%d]", got, tt.want)
			}
		})
	}
}

func TestThrottleFacesPerFrameClamp(t *testing.T) {
	th := NewThrottle(ReflectionAll, 0)
	faces := buildFaces(2, 0)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})
	if got := th.Select(faces, cam); len(got) != 1 {
		t.Errorf("Select with zero budget = %v, want one face", got)
	}
}

func TestParseReflectionMode(t *testing.T) {
	for _, s := range []string{"none", "camera_facing", "all"} {
		m, err := ParseReflectionMode(s)
		if err != nil {
			t.Errorf("ParseReflectionMode(%q) error: %v", s, err)
		}
		if m.String() != s {
			t.Errorf("round trip %q -> %q", s, m.String())
		}
	}
	if _, err := ParseReflectionMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
