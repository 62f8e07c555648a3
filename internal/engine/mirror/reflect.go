package mirror

import (
	"github.com/Faultbox/mirrorbox/internal/engine/camera"
)

// minViewLength rejects degenerate view vectors before they normalize
// into NaNs.
const minViewLength = 1e-6

// ReflectPose mirrors a source camera pose across the plane of the given
// face, producing the virtual camera that wall "sees". Projection
// parameters are copied unchanged; a mirror does not alter field of view.
//
// Returns ok=false when the face is back-facing to the source and the
// caller has not forced the reflection, or when the source pose is
// degenerate. Forced reflections are used during recursion and the
// resolve pass, where the viewpoint has already been mirrored and the
// geometric facing test no longer applies.
func ReflectPose(src camera.Pose, face *Face, forced bool) (camera.Pose, bool) {
	n := face.Normal
	p := face.Position

	// Back-facing: source on the outward side of the wall plane.
	if !forced && src.Position.Sub(p).Dot(n) >= 0 {
		return camera.Pose{}, false
	}

	if src.Target.Sub(src.Position).Length() < minViewLength {
		return camera.Pose{}, false
	}

	out := src
	// Mirrored position: p - reflect(p - srcPos, n), which expands to the
	// classic srcPos + 2*((p - srcPos)·n)*n.
	d := p.Sub(src.Position)
	out.Position = p.Sub(d.Reflect(n))
	out.Up = src.Up.Reflect(n)
	out.Target = p.Add(src.Target.Sub(p).Reflect(n))

	if !out.Position.IsFinite() || !out.Target.IsFinite() {
		return camera.Pose{}, false
	}
	return out, true
}
