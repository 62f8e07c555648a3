// Package camera provides camera poses and controllers for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/mirrorbox/pkg/math"
)

// Pose is a complete camera description: position, orientation basis and
// projection parameters. It is a plain value so derived (mirrored) cameras
// can be built without touching the source.
type Pose struct {
	Position math.Vec3
	Target   math.Vec3 // World-space point the camera looks at
	Up       math.Vec3

	// Projection (unchanged by mirroring)
	FovY   float32 // Radians
	Aspect float32
	Near   float32
	Far    float32
}

// Forward returns the unit view direction, or the zero vector when the
// pose is degenerate (target coincides with position).
func (p Pose) Forward() math.Vec3 {
	return p.Target.Sub(p.Position).Normalize()
}

// ViewMatrix returns the view matrix for this pose.
func (p Pose) ViewMatrix() math.Mat4 {
	return math.LookAt(p.Position, p.Target, p.Up)
}

// ProjMatrix returns the perspective projection matrix for this pose.
func (p Pose) ProjMatrix() math.Mat4 {
	return math.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// ViewProj returns projection * view.
func (p Pose) ViewProj() math.Mat4 {
	return p.ProjMatrix().Mul(p.ViewMatrix())
}

// OrbitCamera orbits around a center point inside the enclosure.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FovY float32
	Near float32
	Far  float32
}

// NewOrbitCamera creates an orbit camera with defaults suited to viewing
// a mirrored enclosure from within.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        4.0,
		RotationX:       0.2,
		RotationY:       0.0,
		MinDistance:     0.5,
		MaxDistance:     40.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            0.785398, // 45 degrees
		Near:            0.05,
		Far:             1000.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// Pose returns the full camera pose for the given aspect ratio.
func (c *OrbitCamera) Pose(aspect float32) Pose {
	return Pose{
		Position: c.Position(),
		Target:   math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ},
		Up:       math.Vec3{X: 0, Y: 1, Z: 0},
		FovY:     c.FovY,
		Aspect:   aspect,
		Near:     c.Near,
		Far:      c.Far,
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}
