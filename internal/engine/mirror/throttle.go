package mirror

import (
	"fmt"

	"github.com/Faultbox/mirrorbox/internal/engine/camera"
)

// ReflectionMode selects which walls may re-capture each frame.
type ReflectionMode int

const (
	// ReflectionNone permits no inter-reflection; every face still gets
	// one non-recursive baseline capture per frame.
	ReflectionNone ReflectionMode = iota
	// ReflectionCameraFacing updates only the wall most aligned with the
	// camera's view direction.
	ReflectionCameraFacing
	// ReflectionAll rotates through all walls under a per-frame budget.
	ReflectionAll
)

// ParseReflectionMode converts a config string to a ReflectionMode.
func ParseReflectionMode(s string) (ReflectionMode, error) {
	switch s {
	case "none":
		return ReflectionNone, nil
	case "camera_facing":
		return ReflectionCameraFacing, nil
	case "all":
		return ReflectionAll, nil
	}
	return ReflectionNone, fmt.Errorf("unknown reflection mode %q", s)
}

func (m ReflectionMode) String() string {
	switch m {
	case ReflectionCameraFacing:
		return "camera_facing"
	case ReflectionAll:
		return "all"
	}
	return "none"
}

// Throttle decides, per frame, which walls are allowed to re-capture,
// bounding per-frame cost and avoiding flicker from constant re-renders.
type Throttle struct {
	mode          ReflectionMode
	facesPerFrame int
	offset        int
}

// NewThrottle creates a throttle. facesPerFrame is clamped to at least 1.
func NewThrottle(mode ReflectionMode, facesPerFrame int) *Throttle {
	if facesPerFrame < 1 {
		facesPerFrame = 1
	}
	return &Throttle{mode: mode, facesPerFrame: facesPerFrame}
}

// Mode returns the throttle's reflection mode.
func (t *Throttle) Mode() ReflectionMode {
	return t.mode
}

// Select returns the face indices permitted to re-capture this frame.
// An empty result is meaningful: no inter-reflection this frame.
// In ReflectionAll mode the selection round-robins, so every face is
// touched at least once every ceil(n/facesPerFrame) frames.
func (t *Throttle) Select(faces []*Face, cam camera.Pose) []int {
	n := len(faces)
	if n == 0 {
		return nil
	}

	switch t.mode {
	case ReflectionNone:
		return nil

	case ReflectionCameraFacing:
		if idx := MostFacing(faces, nil, cam); idx >= 0 {
			return []int{idx}
		}
		return nil

	default: // ReflectionAll
		count := t.facesPerFrame
		if count > n {
			count = n
		}
		out := make([]int, count)
		for i := 0; i < count; i++ {
			out[i] = (t.offset + i) % n
		}
		t.offset = (t.offset + count) % n
		return out
	}
}

// MostFacing returns the index of the face whose center direction from
// the camera best aligns with the camera's forward vector. When subset is
// non-nil only those indices are considered. Returns -1 when nothing
// qualifies.
func MostFacing(faces []*Face, subset []int, cam camera.Pose) int {
	fwd := cam.Forward()
	best := -1
	bestDot := float32(-2)

	consider := func(i int) {
		f := faces[i]
		if f == nil {
			return
		}
		toFace := f.Position.Sub(cam.Position).Normalize()
		if d := toFace.Dot(fwd); d > bestDot {
			bestDot = d
			best = i
		}
	}

	if subset != nil {
		for _, i := range subset {
			if i >= 0 && i < len(faces) {
				consider(i)
			}
		}
	} else {
		for i := range faces {
			consider(i)
		}
	}
	return best
}
