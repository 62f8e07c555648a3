package mirror

import (
	gomath "math"

	"github.com/Faultbox/mirrorbox/internal/engine/camera"
)

const (
	// parallelEps skips ray/plane pairs that are near parallel.
	parallelEps = 1e-6
	// minHitDistance rejects self-hits on the excluded face's own plane.
	minHitDistance = 1e-4
)

// NextFace finds which other wall the view ray of a virtual camera would
// hit next, to continue the bounce chain. It intersects the ray with each
// candidate face plane and returns the index with the smallest strictly
// positive distance, or -1 when no candidate qualifies.
func NextFace(faces []*Face, pose camera.Pose, exclude int) int {
	dir := pose.Forward()
	if dir.Length() < parallelEps {
		return -1
	}

	best := -1
	bestT := float32(gomath.MaxFloat32)
	for i, f := range faces {
		if i == exclude || f == nil {
			continue
		}
		denom := dir.Dot(f.Normal)
		if denom > -parallelEps && denom < parallelEps {
			continue
		}
		t := f.Position.Sub(pose.Position).Dot(f.Normal) / denom
		if t <= minHitDistance {
			continue
		}
		if t < bestT {
			bestT = t
			best = i
		}
	}
	return best
}
