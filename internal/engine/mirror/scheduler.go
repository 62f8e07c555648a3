package mirror

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/mirrorbox/internal/engine/camera"
)

// AttenuationMode selects how bounce depth maps to the attenuation
// exponent. Fixed for the lifetime of an engine instance.
type AttenuationMode int

const (
	// AttenuateSkipFirst applies one attenuation step to depths 0 and 1,
	// then deepens: exponent = max(1, depth).
	AttenuateSkipFirst AttenuationMode = iota
	// AttenuateAllBounces attenuates every bounce: exponent = depth + 1.
	AttenuateAllBounces
)

// ParseAttenuationMode converts a config string to an AttenuationMode.
func ParseAttenuationMode(s string) (AttenuationMode, bool) {
	switch s {
	case "skip_first":
		return AttenuateSkipFirst, true
	case "all_bounces":
		return AttenuateAllBounces, true
	}
	return AttenuateSkipFirst, false
}

func (m AttenuationMode) String() string {
	if m == AttenuateAllBounces {
		return "all_bounces"
	}
	return "skip_first"
}

// AttenuationFactor returns the exposure multiplier for a capture at the
// given bounce depth: pow(attenuation, exponent).
func AttenuationFactor(attenuation float32, mode AttenuationMode, depth int) float32 {
	exp := depth + 1
	if mode == AttenuateSkipFirst {
		exp = depth
		if exp < 1 {
			exp = 1
		}
	}
	return float32(gomath.Pow(float64(attenuation), float64(exp)))
}

// SceneHost is the shared renderer state the engine needs from its
// hosting scene. Shell visibility is mutated during capture passes and
// must be restored on every exit path.
type SceneHost interface {
	ShellVisible() bool
	SetShellVisible(visible bool)
	SetFacesVisible(visible bool)
}

// Scheduler orchestrates recursive capture up to a configured depth.
// Within one frame, all recursive child captures for a branch complete
// before their parent branch's own capture, and the facing-wall resolve
// pass always runs after the full recursive sweep.
type Scheduler struct {
	maxBounces  int
	attenuation float32
	mode        AttenuationMode
	log         *zap.Logger
}

// NewScheduler creates a bounce scheduler. maxBounces is clamped to at
// least 1 and attenuation to at least 0. A nil logger is replaced with a
// no-op logger.
func NewScheduler(maxBounces int, attenuation float32, mode AttenuationMode, log *zap.Logger) *Scheduler {
	if maxBounces < 1 {
		maxBounces = 1
	}
	if attenuation < 0 {
		attenuation = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		maxBounces:  maxBounces,
		attenuation: attenuation,
		mode:        mode,
		log:         log,
	}
}

// MaxBounces returns the recursion bound.
func (s *Scheduler) MaxBounces() int {
	return s.maxBounces
}

// Run produces a captured image for each requested face, approximating up
// to maxBounces inter-reflections, then performs the facing-wall resolve
// pass and a baseline capture for any requested face left untouched.
//
// An empty requested set means "no inter-reflection this frame": every
// face gets exactly one non-recursive baseline capture.
func (s *Scheduler) Run(faces []*Face, requested []int, cam camera.Pose, host SceneHost) {
	if len(faces) == 0 {
		return
	}

	// The enclosure's opaque shell must be hidden during virtual-camera
	// captures; mirrored cameras logically sit outside the cube.
	if host != nil {
		prev := host.ShellVisible()
		host.SetShellVisible(false)
		defer host.SetShellVisible(prev)
	}

	captured := make([]bool, len(faces))

	if len(requested) == 0 {
		for i := range faces {
			s.captureOnce(faces, i, cam, 0, true, captured)
		}
		return
	}

	// Recursive sweep, depth-first per requested face.
	for _, idx := range requested {
		if idx < 0 || idx >= len(faces) {
			s.log.Warn("bounce sweep: face index out of range", zap.Int("face", idx))
			continue
		}
		s.renderBounce(faces, idx, cam, s.maxBounces, 0, false, captured)
	}

	// Resolve pass: re-render the neighbors of the most camera-facing
	// wall from its own just-updated virtual camera, then re-capture that
	// wall last. Corrects the stale-wall artifact at near-90° viewing
	// angles that a single top-down sweep leaves behind.
	if facing := MostFacing(faces, requested, cam); facing >= 0 {
		if vcam, ok := ReflectPose(cam, faces[facing], false); ok {
			for _, idx := range requested {
				if idx == facing || idx < 0 || idx >= len(faces) {
					continue
				}
				s.captureOnce(faces, idx, vcam, 1, true, captured)
			}
			s.captureOnce(faces, facing, cam, 0, false, captured)
		}
	}

	// Any requested face never touched by either pass gets one baseline
	// capture so it is not left in an undefined state.
	for _, idx := range requested {
		if idx >= 0 && idx < len(faces) && !captured[idx] {
			s.captureOnce(faces, idx, cam, 0, true, captured)
		}
	}
}

// renderBounce captures face idx as seen from src, recursing first into
// the single next face its virtual camera would see. remaining bounds the
// recursion; depth is the current bounce depth.
func (s *Scheduler) renderBounce(faces []*Face, idx int, src camera.Pose, remaining, depth int, forced bool, captured []bool) {
	f := faces[idx]
	if f == nil || f.Capture == nil {
		s.log.Debug("bounce capture skipped: missing face or capture fn", zap.Int("face", idx))
		return
	}

	vcam, ok := ReflectPose(src, f, forced)
	if !ok {
		return
	}

	if remaining > 1 {
		if next := NextFace(faces, vcam, idx); next >= 0 {
			s.renderBounce(faces, next, vcam, remaining-1, depth+1, true, captured)
		}
	}

	f.Capture(CaptureView{
		Camera:   vcam,
		Exposure: AttenuationFactor(s.attenuation, s.mode, depth),
		Depth:    depth,
	})
	captured[idx] = true
}

// captureOnce performs a single non-recursive capture of face idx from
// the virtual camera derived from src.
func (s *Scheduler) captureOnce(faces []*Face, idx int, src camera.Pose, depth int, forced bool, captured []bool) {
	f := faces[idx]
	if f == nil || f.Capture == nil {
		s.log.Debug("capture skipped: missing face or capture fn", zap.Int("face", idx))
		return
	}
	vcam, ok := ReflectPose(src, f, forced)
	if !ok {
		return
	}
	f.Capture(CaptureView{
		Camera:   vcam,
		Exposure: AttenuationFactor(s.attenuation, s.mode, depth),
		Depth:    depth,
	})
	captured[idx] = true
}
