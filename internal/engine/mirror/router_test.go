package mirror

import (
	"testing"

	"github.com/Faultbox/mirrorbox/pkg/math"
)

func buildFaces(size, inset float32) []*Face {
	r := NewRegistry()
	r.Build(size, inset, 8, 8, nil)
	return r.Faces()
}

func TestNextFaceStraightAhead(t *testing.T) {
	faces := buildFaces(2, 0) // walls at ±1

	// Virtual camera outside the +Z wall looking back through the box.
	pose := testPose(math.Vec3{Z: 2}, math.Vec3{Z: -3})
	if got := NextFace(faces, pose, 4); got != 5 {
		t.Errorf("NextFace = %d, want 5 (-Z wall)", got)
	}
}

func TestNextFaceExcludesSelf(t *testing.T) {
	faces := buildFaces(2, 0)

	// Looking toward +Z from inside: the nearest positive hit would be
	// face 4, but it is excluded, so the ray exits through... nothing
	// closer in front except the excluded plane; the next qualifying hit
	// is behind only, so the diagonal case below checks a real neighbor.
	pose := testPose(math.Vec3{}, math.Vec3{X: 1, Z: 1})
	got := NextFace(faces, pose, 4)
	if got != 0 {
		t.Errorf("NextFace = %d, want 0 (+X wall on the diagonal)", got)
	}
}

func TestNextFaceNearestWins(t *testing.T) {
	faces := buildFaces(2, 0)

	// From a point near the +X wall looking diagonally: +X plane is much
	// closer than +Z.
	pose := testPose(math.Vec3{X: 0.9}, math.Vec3{X: 1.9, Z: 0.2})
	if got := NextFace(faces, pose, 5); got != 0 {
		t.Errorf("NextFace = %d, want 0", got)
	}
}

func TestNextFaceParallelAndBehind(t *testing.T) {
	faces := buildFaces(2, 0)

	// Outside the box looking away: every plane is either parallel to
	// the ray or behind it.
	pose := testPose(math.Vec3{Z: 10}, math.Vec3{Z: 20})
	if got := NextFace(faces, pose, -1); got != -1 {
		t.Errorf("NextFace = %d, want -1", got)
	}
}

func TestNextFaceDegenerateDirection(t *testing.T) {
	faces := buildFaces(2, 0)
	pose := testPose(math.Vec3{X: 0.3}, math.Vec3{X: 0.3})
	if got := NextFace(faces, pose, 0); got != -1 {
		t.Errorf("NextFace with zero direction = %d, want -1", got)
	}
}
