package mirror

import (
	"testing"

	"github.com/Faultbox/mirrorbox/internal/engine/camera"
	"github.com/Faultbox/mirrorbox/pkg/math"
)

// fakeTarget counts live capture surfaces through a shared counter.
type fakeTarget struct {
	width, height int
	destroyed     bool
	alive         *int
}

func (t *fakeTarget) Resize(width, height int) {
	t.width = width
	t.height = height
}

func (t *fakeTarget) Destroy() {
	if !t.destroyed {
		t.destroyed = true
		*t.alive--
	}
}

// capture records one capture call for assertions.
type capture struct {
	face     int
	depth    int
	exposure float32
	cam      camera.Pose
}

// recorder provides a FaceFactory producing fake targets and capture
// functions that append to a shared log.
type recorder struct {
	alive    int
	captures []capture
	shading  map[int]ShadingParams
}

func newRecorder() *recorder {
	return &recorder{shading: make(map[int]ShadingParams)}
}

func (r *recorder) factory(index, width, height int) (CaptureTarget, CaptureFunc, func(ShadingParams)) {
	r.alive++
	t := &fakeTarget{width: width, height: height, alive: &r.alive}
	cap := func(view CaptureView) {
		r.captures = append(r.captures, capture{
			face:     index,
			depth:    view.Depth,
			exposure: view.Exposure,
			cam:      view.Camera,
		})
	}
	shade := func(p ShadingParams) { r.shading[index] = p }
	return t, cap, shade
}

func testPose(pos, target math.Vec3) camera.Pose {
	return camera.Pose{
		Position: pos,
		Target:   target,
		Up:       math.Vec3{Y: 1},
		FovY:     0.785398,
		Aspect:   1,
		Near:     0.1,
		Far:      100,
	}
}

func TestRegistryBuildsSixAxisOrderedFaces(t *testing.T) {
	r := NewRegistry()
	r.Build(10, 0.5, 64, 64, nil)

	faces := r.Faces()
	if len(faces) != FaceCount {
		t.Fatalf("got %d faces, want %d", len(faces), FaceCount)
	}

	wantNormals := []math.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	h := float32(10)/2 - 0.5
	seen := make(map[math.Vec3]int)
	for i, f := range faces {
		if f.Index != i {
			t.Errorf("face %d has Index %d", i, f.Index)
		}
		if f.Normal != wantNormals[i] {
			t.Errorf("face %d normal = %v, want %v", i, f.Normal, wantNormals[i])
		}
		if want := wantNormals[i].Scale(h); f.Position != want {
			t.Errorf("face %d position = %v, want %v", i, f.Position, want)
		}
		seen[f.Normal]++
	}
	// Each signed unit axis vector appears exactly once.
	if len(seen) != FaceCount {
		t.Errorf("normals not unique: %v", seen)
	}
}

func TestRegistryRebuildDisposesOldSurfaces(t *testing.T) {
	rec := newRecorder()
	r := NewRegistry()
	r.Build(10, 0, 32, 32, rec.factory)
	if rec.alive != FaceCount {
		t.Fatalf("alive after build = %d, want %d", rec.alive, FaceCount)
	}

	r.Build(20, 0, 32, 32, rec.factory)
	if rec.alive != FaceCount {
		t.Errorf("alive after rebuild = %d, want %d (old surfaces must be disposed)", rec.alive, FaceCount)
	}

	r.Dispose()
	if rec.alive != 0 {
		t.Errorf("alive after dispose = %d, want 0", rec.alive)
	}
}

func TestRegistryDisposeWithoutBuild(t *testing.T) {
	r := NewRegistry()
	r.Dispose() // must not panic
	r.Dispose()
	if r.Faces() != nil {
		t.Error("expected nil faces on empty registry")
	}
}

func TestRegistryFaceOutOfRange(t *testing.T) {
	r := NewRegistry()
	if r.Face(0) != nil {
		t.Error("expected nil face before build")
	}
	r.Build(10, 0, 8, 8, nil)
	if r.Face(-1) != nil || r.Face(6) != nil {
		t.Error("expected nil for out-of-range index")
	}
	if r.Face(3) == nil {
		t.Error("expected face 3 after build")
	}
}
