// Package chamber renders the mirrored enclosure: the cube shell, the
// growth tubes filling it, and the six mirror wall quads textured from
// their capture surfaces. It supplies the mirror engine with capture
// targets and capture functions, and implements its scene-host contract.
package chamber

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/mirrorbox/internal/engine/camera"
	"github.com/Faultbox/mirrorbox/internal/engine/chamber/shaders"
	"github.com/Faultbox/mirrorbox/internal/engine/framebuffer"
	"github.com/Faultbox/mirrorbox/internal/engine/growth"
	"github.com/Faultbox/mirrorbox/internal/engine/mirror"
	"github.com/Faultbox/mirrorbox/internal/engine/shader"
	"github.com/Faultbox/mirrorbox/pkg/math"
)

// Outward wall normals in wall order: 0=+X 1=-X 2=+Y 3=-Y 4=+Z 5=-Z.
var wallNormals = [mirror.FaceCount]math.Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

type solidUniforms struct {
	viewProj int32
	model    int32
	color    int32
	exposure int32
}

type mirrorUniforms struct {
	viewProj      int32
	model         int32
	capture       int32
	tint          int32
	exposure      int32
	distortAmount int32
	distortScale  int32
	time          int32
}

// wall is the render-side state for one mirror face.
type wall struct {
	fb      *framebuffer.Framebuffer
	model   math.Mat4
	shading mirror.ShadingParams
}

// Scene owns the GL resources for the enclosure and draws it both for
// the main view and for mirror captures.
type Scene struct {
	log *zap.Logger
	sim *growth.Sim

	size  float32
	inset float32

	solidProg  uint32
	mirrorProg uint32
	solidU     solidUniforms
	mirrorU    mirrorUniforms

	cubeVAO uint32
	cubeVBO uint32
	quadVAO uint32
	quadVBO uint32
	cubeLen int32
	quadLen int32

	shellColor   [3]float32
	shellVisible bool
	facesVisible bool
	time         float32

	walls [mirror.FaceCount]*wall
}

// New compiles the chamber shaders and uploads the shared geometry.
// Requires a current GL context.
func New(sim *growth.Sim, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scene{
		log:          log,
		sim:          sim,
		size:         1,
		shellColor:   [3]float32{0.18, 0.19, 0.22},
		shellVisible: true,
		facesVisible: true,
	}

	var err error
	s.solidProg, err = shader.CompileProgram(shaders.SolidVertexShader, shaders.SolidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}
	s.mirrorProg, err = shader.CompileProgram(shaders.MirrorVertexShader, shaders.MirrorFragmentShader)
	if err != nil {
		gl.DeleteProgram(s.solidProg)
		return nil, fmt.Errorf("mirror shader: %w", err)
	}

	s.solidU = solidUniforms{
		viewProj: shader.GetUniform(s.solidProg, "uViewProj"),
		model:    shader.GetUniform(s.solidProg, "uModel"),
		color:    shader.GetUniform(s.solidProg, "uColor"),
		exposure: shader.GetUniform(s.solidProg, "uExposure"),
	}
	s.mirrorU = mirrorUniforms{
		viewProj:      shader.GetUniform(s.mirrorProg, "uViewProj"),
		model:         shader.GetUniform(s.mirrorProg, "uModel"),
		capture:       shader.GetUniform(s.mirrorProg, "uCapture"),
		tint:          shader.GetUniform(s.mirrorProg, "uTint"),
		exposure:      shader.GetUniform(s.mirrorProg, "uExposure"),
		distortAmount: shader.GetUniform(s.mirrorProg, "uDistortAmount"),
		distortScale:  shader.GetUniform(s.mirrorProg, "uDistortScale"),
		time:          shader.GetUniform(s.mirrorProg, "uTime"),
	}

	s.createCube()
	s.createQuad()

	log.Debug("chamber scene initialized")
	return s, nil
}

// SetEnclosure updates the enclosure dimensions and recomputes the wall
// quad transforms. Call before the mirror engine rebuilds its faces so
// new capture surfaces land on correctly placed quads.
func (s *Scene) SetEnclosure(size, inset float32) {
	if size <= 0 {
		size = 1
	}
	if inset < 0 {
		inset = 0
	}
	s.size = size
	s.inset = inset
	if s.sim != nil {
		s.sim.SetSize(size)
	}
	for i, w := range s.walls {
		if w != nil {
			w.model = s.wallModel(i)
		}
	}
}

// SetShellColor sets the enclosure shell color.
func (s *Scene) SetShellColor(r, g, b float32) {
	s.shellColor = [3]float32{r, g, b}
}

// Update advances scene time, which drives the wall distortion phase.
func (s *Scene) Update(dt float32) {
	s.time += dt
}

// ShellVisible reports whether the enclosure shell is drawn.
func (s *Scene) ShellVisible() bool {
	return s.shellVisible
}

// SetShellVisible shows or hides the enclosure shell.
func (s *Scene) SetShellVisible(visible bool) {
	s.shellVisible = visible
}

// SetFacesVisible shows or hides the mirror wall quads.
func (s *Scene) SetFacesVisible(visible bool) {
	s.facesVisible = visible
}

// FaceFactory builds the capture surface and capture function for one
// mirror face. It matches the mirror engine's factory signature.
func (s *Scene) FaceFactory(index, width, height int) (mirror.CaptureTarget, mirror.CaptureFunc, func(mirror.ShadingParams)) {
	fb, err := framebuffer.New(width, height)
	if err != nil {
		s.log.Error("face capture surface", zap.Int("face", index), zap.Error(err))
		return nil, nil, nil
	}

	w := &wall{
		fb:    fb,
		model: s.wallModel(index),
	}
	s.walls[index] = w

	capture := func(view mirror.CaptureView) {
		restore := fb.BindWithViewport()
		defer restore()
		fb.Clear(0.02, 0.02, 0.03, 1)
		s.renderWorld(view.Camera, view.Exposure, index)
	}
	setShading := func(p mirror.ShadingParams) {
		w.shading = p
	}
	return fb, capture, setShading
}

// Draw renders the enclosure for the main view.
func (s *Scene) Draw(pose camera.Pose) {
	s.renderWorld(pose, 1, -1)
}

// renderWorld draws the shell, the growth tubes and the mirror quads
// from the given pose. skipFace excludes one wall, used so a wall never
// renders itself into its own capture; -1 skips nothing.
func (s *Scene) renderWorld(pose camera.Pose, exposure float32, skipFace int) {
	viewProj := pose.ViewProj()

	gl.UseProgram(s.solidProg)
	gl.UniformMatrix4fv(s.solidU.viewProj, 1, false, viewProj.Ptr())
	gl.Uniform1f(s.solidU.exposure, exposure)

	gl.BindVertexArray(s.cubeVAO)

	if s.shellVisible {
		model := math.Scale(s.size, s.size, s.size)
		gl.UniformMatrix4fv(s.solidU.model, 1, false, model.Ptr())
		gl.Uniform3f(s.solidU.color, s.shellColor[0], s.shellColor[1], s.shellColor[2])
		gl.DrawArrays(gl.TRIANGLES, 0, s.cubeLen)
	}

	if s.sim != nil {
		for _, seg := range s.sim.Segments() {
			model := segmentModel(seg)
			gl.UniformMatrix4fv(s.solidU.model, 1, false, model.Ptr())
			gl.Uniform3f(s.solidU.color, seg.Color[0], seg.Color[1], seg.Color[2])
			gl.DrawArrays(gl.TRIANGLES, 0, s.cubeLen)
		}
	}

	if s.facesVisible {
		s.drawWalls(viewProj, exposure, skipFace)
	}

	gl.BindVertexArray(0)
}

func (s *Scene) drawWalls(viewProj math.Mat4, exposure float32, skipFace int) {
	gl.UseProgram(s.mirrorProg)
	gl.UniformMatrix4fv(s.mirrorU.viewProj, 1, false, viewProj.Ptr())
	gl.Uniform1f(s.mirrorU.exposure, exposure)
	gl.Uniform1i(s.mirrorU.capture, 0)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.BindVertexArray(s.quadVAO)
	for i, w := range s.walls {
		if w == nil || i == skipFace {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, w.fb.ColorTexture())
		gl.UniformMatrix4fv(s.mirrorU.model, 1, false, w.model.Ptr())
		gl.Uniform3f(s.mirrorU.tint, w.shading.Tint[0], w.shading.Tint[1], w.shading.Tint[2])
		gl.Uniform1f(s.mirrorU.distortAmount, w.shading.Distortion.Amount)
		gl.Uniform1f(s.mirrorU.distortScale, w.shading.Distortion.Scale)
		gl.Uniform1f(s.mirrorU.time, s.time*w.shading.Distortion.Speed)
		gl.DrawArrays(gl.TRIANGLES, 0, s.quadLen)
	}
}

// wallModel builds the transform placing the unit quad on wall i: quad
// axes spanning the wall, quad normal pointing inward, centered at the
// inset wall position.
func (s *Scene) wallModel(i int) math.Mat4 {
	n := wallNormals[i]
	pos := n.Scale(s.size/2 - s.inset)
	inward := n.Neg()

	up := math.Vec3{Y: 1}
	if gomath.Abs(float64(n.Y)) > 0.5 {
		up = math.Vec3{Z: 1}
	}
	right := up.Cross(inward).Normalize()
	realUp := inward.Cross(right)

	sz := s.size
	return math.Mat4{
		right.X * sz, right.Y * sz, right.Z * sz, 0,
		realUp.X * sz, realUp.Y * sz, realUp.Z * sz, 0,
		inward.X, inward.Y, inward.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// segmentModel maps the unit cube onto one axis-aligned tube segment.
func segmentModel(seg growth.Segment) math.Mat4 {
	mid := seg.From.Add(seg.To).Scale(0.5)
	ext := seg.To.Sub(seg.From)

	thick := seg.Radius * 2
	sx := float32(gomath.Abs(float64(ext.X))) + thick
	sy := float32(gomath.Abs(float64(ext.Y))) + thick
	sz := float32(gomath.Abs(float64(ext.Z))) + thick

	return math.Translate(mid.X, mid.Y, mid.Z).Mul(math.Scale(sx, sy, sz))
}

// Destroy releases the scene's GL resources. Capture surfaces belong to
// the mirror engine's registry and are disposed there.
func (s *Scene) Destroy() {
	if s.solidProg != 0 {
		gl.DeleteProgram(s.solidProg)
		s.solidProg = 0
	}
	if s.mirrorProg != 0 {
		gl.DeleteProgram(s.mirrorProg)
		s.mirrorProg = 0
	}
	if s.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &s.cubeVAO)
		gl.DeleteBuffers(1, &s.cubeVBO)
		s.cubeVAO = 0
		s.cubeVBO = 0
	}
	if s.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &s.quadVAO)
		gl.DeleteBuffers(1, &s.quadVBO)
		s.quadVAO = 0
		s.quadVBO = 0
	}
}

// createCube uploads a unit cube (-0.5..0.5) with per-face normals,
// interleaved position+normal.
func (s *Scene) createCube() {
	verts := cubeVertices()
	s.cubeLen = int32(len(verts) / 6)

	gl.GenVertexArrays(1, &s.cubeVAO)
	gl.GenBuffers(1, &s.cubeVBO)
	gl.BindVertexArray(s.cubeVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.BindVertexArray(0)
}

// createQuad uploads a unit quad in the XY plane (-0.5..0.5, z=0) with
// UVs, interleaved position+uv.
func (s *Scene) createQuad() {
	verts := []float32{
		// x, y, z, u, v
		-0.5, -0.5, 0, 0, 0,
		0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0, 1, 1,
		-0.5, -0.5, 0, 0, 0,
		0.5, 0.5, 0, 1, 1,
		-0.5, 0.5, 0, 0, 1,
	}
	s.quadLen = int32(len(verts) / 5)

	gl.GenVertexArrays(1, &s.quadVAO)
	gl.GenBuffers(1, &s.quadVBO)
	gl.BindVertexArray(s.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	stride := int32(5 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*4)
	gl.BindVertexArray(0)
}

func cubeVertices() []float32 {
	return []float32{
		// +X
		0.5, -0.5, -0.5, 1, 0, 0,
		0.5, 0.5, -0.5, 1, 0, 0,
		0.5, 0.5, 0.5, 1, 0, 0,
		0.5, -0.5, -0.5, 1, 0, 0,
		0.5, 0.5, 0.5, 1, 0, 0,
		0.5, -0.5, 0.5, 1, 0, 0,
		// -X
		-0.5, -0.5, 0.5, -1, 0, 0,
		-0.5, 0.5, 0.5, -1, 0, 0,
		-0.5, 0.5, -0.5, -1, 0, 0,
		-0.5, -0.5, 0.5, -1, 0, 0,
		-0.5, 0.5, -0.5, -1, 0, 0,
		-0.5, -0.5, -0.5, -1, 0, 0,
		// +Y
		-0.5, 0.5, -0.5, 0, 1, 0,
		-0.5, 0.5, 0.5, 0, 1, 0,
		0.5, 0.5, 0.5, 0, 1, 0,
		-0.5, 0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0.5, 0, 1, 0,
		0.5, 0.5, -0.5, 0, 1, 0,
		// -Y
		-0.5, -0.5, 0.5, 0, -1, 0,
		-0.5, -0.5, -0.5, 0, -1, 0,
		0.5, -0.5, -0.5, 0, -1, 0,
		-0.5, -0.5, 0.5, 0, -1, 0,
		0.5, -0.5, -0.5, 0, -1, 0,
		0.5, -0.5, 0.5, 0, -1, 0,
		// +Z
		-0.5, -0.5, 0.5, 0, 0, 1,
		0.5, -0.5, 0.5, 0, 0, 1,
		0.5, 0.5, 0.5, 0, 0, 1,
		-0.5, -0.5, 0.5, 0, 0, 1,
		0.5, 0.5, 0.5, 0, 0, 1,
		-0.5, 0.5, 0.5, 0, 0, 1,
		// -Z
		0.5, -0.5, -0.5, 0, 0, -1,
		-0.5, -0.5, -0.5, 0, 0, -1,
		-0.5, 0.5, -0.5, 0, 0, -1,
		0.5, -0.5, -0.5, 0, 0, -1,
		-0.5, 0.5, -0.5, 0, 0, -1,
		0.5, 0.5, -0.5, 0, 0, -1,
	}
}
