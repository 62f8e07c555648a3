// Package mirror implements the recursive mirror-reflection engine for a
// cubic enclosure: six wall faces that re-capture the scene through
// mirrored virtual cameras, bounded multi-bounce recursion with per-depth
// attenuation, and per-frame update throttling.
//
// The package is renderer-agnostic. Capture surfaces are handles behind
// CaptureTarget, and the actual render into a surface is a CaptureFunc
// supplied by the host, so the whole engine runs under plain go test.
package mirror

import (
	"github.com/Faultbox/mirrorbox/internal/engine/camera"
	"github.com/Faultbox/mirrorbox/pkg/math"
)

// FaceCount is the number of walls in the enclosure.
const FaceCount = 6

// Outward unit normals in face order: 0=+X 1=-X 2=+Y 3=-Y 4=+Z 5=-Z.
var faceNormals = [FaceCount]math.Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// CaptureTarget is the offscreen surface a face captures into.
type CaptureTarget interface {
	Resize(width, height int)
	Destroy()
}

// CaptureView is one capture request handed to a face's capture function:
// the mirrored camera to render from and the exposure multiplier for this
// bounce depth. Exposure is threaded explicitly rather than smuggled
// through shared renderer state.
type CaptureView struct {
	Camera   camera.Pose
	Exposure float32
	Depth    int
}

// CaptureFunc renders the scene into the face's capture target.
type CaptureFunc func(view CaptureView)

// ShadingParams are the externally supplied wall shading inputs.
type ShadingParams struct {
	Tint       [3]float32
	Distortion DistortionParams
}

// Face is one planar mirrored wall of the enclosure.
type Face struct {
	Index    int
	Position math.Vec3 // Wall center, ±(size/2 − inset) along its axis
	Normal   math.Vec3 // Outward unit axis vector

	Target     CaptureTarget
	Capture    CaptureFunc
	SetShading func(ShadingParams)
}

// FaceFactory builds the render-side resources for one face: its capture
// surface, the function that performs a capture into it, and the hook
// that receives shading parameter updates. Any of the returns may be nil
// for hosts that do not need them (tests, headless runs).
type FaceFactory func(index, width, height int) (CaptureTarget, CaptureFunc, func(ShadingParams))

// Registry owns the six wall descriptors for one enclosure.
type Registry struct {
	faces []*Face
}

// NewRegistry returns an empty registry. Build must be called before the
// registry has faces; Dispose on an empty registry is a no-op.
func NewRegistry() *Registry {
	return &Registry{}
}

// Build constructs the six faces for a cubic enclosure of the given size
// and wall inset, disposing any previous faces first. The capture surface
// for each face is created through factory at the given resolution.
func (r *Registry) Build(size, inset float32, width, height int, factory FaceFactory) {
	r.Dispose()

	h := size/2 - inset
	r.faces = make([]*Face, FaceCount)
	for i := 0; i < FaceCount; i++ {
		f := &Face{
			Index:    i,
			Normal:   faceNormals[i],
			Position: faceNormals[i].Scale(h),
		}
		if factory != nil {
			f.Target, f.Capture, f.SetShading = factory(i, width, height)
		}
		r.faces[i] = f
	}
}

// Faces returns the current face slice, nil before Build or after Dispose.
func (r *Registry) Faces() []*Face {
	return r.faces
}

// Face returns the face at index, or nil when out of range or not built.
func (r *Registry) Face(index int) *Face {
	if index < 0 || index >= len(r.faces) {
		return nil
	}
	return r.faces[index]
}

// Dispose releases every face's capture surface. Safe to call repeatedly
// and on a registry that was never built.
func (r *Registry) Dispose() {
	for _, f := range r.faces {
		if f != nil && f.Target != nil {
			f.Target.Destroy()
		}
	}
	r.faces = nil
}
