package mirror

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/mirrorbox/pkg/math"
)

// fakeHost models the shared renderer state: shell visibility plus an
// exposure scalar the engine must never touch.
type fakeHost struct {
	shell       bool
	faces       bool
	exposure    float32
	shellDuring []bool // shell state observed at each capture
}

func (h *fakeHost) ShellVisible() bool     { return h.shell }
func (h *fakeHost) SetShellVisible(v bool) { h.shell = v }
func (h *fakeHost) SetFacesVisible(v bool) { h.faces = v }

func buildRecorded(size float32) (*recorder, []*Face) {
	rec := newRecorder()
	r := NewRegistry()
	r.Build(size, 0, 16, 16, rec.factory)
	return rec, r.Faces()
}

func TestAttenuationFactorSequences(t *testing.T) {
	tests := []struct {
		mode AttenuationMode
		want []float32
	}{
		{AttenuateSkipFirst, []float32{0.5, 0.5, 0.25}},
		{AttenuateAllBounces, []float32{0.5, 0.25, 0.125}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			for depth, want := range tt.want {
				got := AttenuationFactor(0.5, tt.mode, depth)
				if gomath.Abs(float64(got-want)) > 1e-6 {
					t.Errorf("depth %d: factor = %v, want %v", depth, got, want)
				}
			}
		})
	}
}

func TestSchedulerRecursionBound(t *testing.T) {
	for _, k := range []int{1, 2, 3, 5} {
		rec, faces := buildRecorded(2)
		s := NewScheduler(k, 0.5, AttenuateAllBounces, nil)
		cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

		s.Run(faces, []int{0, 1, 2, 3, 4, 5}, cam, nil)

		for _, c := range rec.captures {
			if c.depth >= k {
				t.Errorf("maxBounces=%d: capture at depth %d", k, c.depth)
			}
		}
	}
}

func TestSchedulerDepthFirstOrder(t *testing.T) {
	rec, faces := buildRecorded(2)
	s := NewScheduler(3, 0.5, AttenuateAllBounces, nil)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	s.Run(faces, []int{4}, cam, nil)

	// Sweep bounces +Z -> -Z -> +Z, capturing leaf first, then the
	// resolve pass re-captures the facing wall from the real camera.
	wantFaces := []int{4, 5, 4, 4}
	wantDepths := []int{2, 1, 0, 0}
	if len(rec.captures) != len(wantFaces) {
		t.Fatalf("got %d captures, want %d: %+v", len(rec.captures), len(wantFaces), rec.captures)
	}
	for i, c := range rec.captures {
		if c.face != wantFaces[i] || c.depth != wantDepths[i] {
			t.Errorf("capture %d = face %d depth %d, want face %d depth %d",
				i, c.face, c.depth, wantFaces[i], wantDepths[i])
		}
	}

	// The facing wall's final capture is last so it reflects the
	// freshly-updated neighbors.
	last := rec.captures[len(rec.captures)-1]
	if last.face != 4 || last.depth != 0 {
		t.Errorf("last capture = face %d depth %d, want facing face 4 at depth 0", last.face, last.depth)
	}
}

func TestSchedulerResolvePassUpdatesNeighbors(t *testing.T) {
	rec, faces := buildRecorded(2)
	s := NewScheduler(1, 0.5, AttenuateSkipFirst, nil)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	s.Run(faces, []int{0, 4}, cam, nil)

	// maxBounces=1: sweep captures each requested face once at depth 0,
	// then the resolve pass re-renders face 0 from face 4's virtual
	// camera at depth 1 and face 4 last at depth 0.
	var facing, neighborAtDepth1 int
	for _, c := range rec.captures {
		if c.face == 4 && c.depth == 0 {
			facing++
		}
		if c.face == 0 && c.depth == 1 {
			neighborAtDepth1++
		}
	}
	if facing < 2 {
		t.Errorf("facing wall captured %d times, want sweep + resolve", facing)
	}
	if neighborAtDepth1 != 1 {
		t.Errorf("neighbor re-rendered %d times at depth 1, want 1", neighborAtDepth1)
	}
	if last := rec.captures[len(rec.captures)-1]; last.face != 4 {
		t.Errorf("last capture = face %d, want facing face 4", last.face)
	}
}

func TestSchedulerEmptyMaskBaseline(t *testing.T) {
	rec, faces := buildRecorded(2)
	s := NewScheduler(4, 0.5, AttenuateAllBounces, nil)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	s.Run(faces, nil, cam, nil)

	if len(rec.captures) != FaceCount {
		t.Fatalf("got %d captures, want exactly one per face", len(rec.captures))
	}
	seen := make(map[int]int)
	for _, c := range rec.captures {
		seen[c.face]++
		if c.depth != 0 {
			t.Errorf("baseline capture at depth %d, want 0", c.depth)
		}
	}
	for i := 0; i < FaceCount; i++ {
		if seen[i] != 1 {
			t.Errorf("face %d captured %d times, want 1", i, seen[i])
		}
	}
}

func TestSchedulerShellHiddenDuringCaptures(t *testing.T) {
	rec := newRecorder()
	r := NewRegistry()
	host := &fakeHost{shell: true, exposure: 1.0}

	// Wrap the recorder factory so each capture also observes the shell.
	r.Build(2, 0, 16, 16, func(i, w, h int) (CaptureTarget, CaptureFunc, func(ShadingParams)) {
		target, cap, shade := rec.factory(i, w, h)
		observed := func(view CaptureView) {
			host.shellDuring = append(host.shellDuring, host.shell)
			cap(view)
		}
		return target, observed, shade
	})

	s := NewScheduler(2, 0.5, AttenuateAllBounces, nil)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})
	s.Run(r.Faces(), []int{0, 1, 2, 3, 4, 5}, cam, host)

	if len(host.shellDuring) == 0 {
		t.Fatal("no captures observed")
	}
	for i, v := range host.shellDuring {
		if v {
			t.Errorf("capture %d: shell visible during virtual capture", i)
		}
	}
	if !host.shell {
		t.Error("shell visibility not restored after Run")
	}
	if host.exposure != 1.0 {
		t.Errorf("exposure = %v, want untouched 1.0", host.exposure)
	}
}

func TestSchedulerMissingCaptureFnSkipped(t *testing.T) {
	rec, faces := buildRecorded(2)
	faces[2].Capture = nil

	s := NewScheduler(2, 0.5, AttenuateAllBounces, nil)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})
	s.Run(faces, []int{0, 2, 4}, cam, nil) // must not panic

	for _, c := range rec.captures {
		if c.face == 2 {
			t.Error("face with nil capture fn was captured")
		}
	}
}

func TestSchedulerExposureAttenuationApplied(t *testing.T) {
	rec, faces := buildRecorded(2)
	s := NewScheduler(3, 0.5, AttenuateAllBounces, nil)
	cam := testPose(math.Vec3{}, math.Vec3{Z: 1})

	s.Run(faces, []int{4}, cam, nil)

	for _, c := range rec.captures {
		want := AttenuationFactor(0.5, AttenuateAllBounces, c.depth)
		if gomath.Abs(float64(c.exposure-want)) > 1e-6 {
			t.Errorf("face %d depth %d exposure = %v, want %v", c.face, c.depth, c.exposure, want)
		}
	}
}
