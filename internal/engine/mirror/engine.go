package mirror

import (
	"go.uber.org/zap"

	"github.com/Faultbox/mirrorbox/internal/engine/camera"
)

// Config is the externally owned engine configuration. Size, Color and
// Inset changes require a face rebuild (wall geometry and capture cameras
// are position-dependent); everything else applies in place.
type Config struct {
	Size  float32
	Color string // #RRGGBB wall tint
	Inset float32

	Width  int
	Height int

	Distortion DistortionParams

	Enabled           bool
	MaxBounces        int     // ≥ 1
	BounceAttenuation float32 // ≥ 0
	AttenuationMode   AttenuationMode
	ReflectionMode    ReflectionMode
	FacesPerFrame     int
	ShowShell         bool
}

// Engine is the per-frame entry point for the mirrored enclosure. It owns
// the face registry and wires the throttle, scheduler and shading store
// together. Single-threaded and frame-synchronous: UpdateFrame runs to
// completion within one host frame callback.
type Engine struct {
	cfg      Config
	registry *Registry
	sched    *Scheduler
	throttle *Throttle
	store    *Store

	host    SceneHost
	factory FaceFactory
	log     *zap.Logger

	enabled      bool
	overrideMask []int
	hasOverride  bool
	disposed     bool
}

// New constructs an engine, clamping configuration to safe minimums and
// building the initial six faces. host and factory may be nil for
// headless use; a nil logger becomes a no-op logger.
func New(host SceneHost, factory FaceFactory, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBounces < 1 {
		cfg.MaxBounces = 1
	}
	if cfg.BounceAttenuation < 0 {
		cfg.BounceAttenuation = 0
	}
	if cfg.Width < 1 {
		cfg.Width = 1
	}
	if cfg.Height < 1 {
		cfg.Height = 1
	}
	if cfg.FacesPerFrame < 1 {
		cfg.FacesPerFrame = 1
	}
	if cfg.Size <= 0 {
		cfg.Size = 1
	}

	tint, err := ParseColor(cfg.Color)
	if err != nil {
		log.Warn("invalid wall color, using white", zap.String("color", cfg.Color))
	}

	e := &Engine{
		cfg:      cfg,
		registry: NewRegistry(),
		sched:    NewScheduler(cfg.MaxBounces, cfg.BounceAttenuation, cfg.AttenuationMode, log),
		throttle: NewThrottle(cfg.ReflectionMode, cfg.FacesPerFrame),
		store:    NewStore(cfg.Width, cfg.Height, tint, cfg.Distortion),
		host:     host,
		factory:  factory,
		log:      log,
		enabled:  cfg.Enabled,
	}
	e.rebuild()
	e.applyVisibility()
	return e
}

// rebuild disposes the current faces and constructs new ones from the
// current size/inset, then re-pushes shading parameters.
func (e *Engine) rebuild() {
	w, h := e.store.Resolution()
	e.registry.Build(e.cfg.Size, e.cfg.Inset, w, h, e.factory)
	e.store.Push(e.registry.Faces())
	e.log.Debug("mirror faces rebuilt",
		zap.Float32("size", e.cfg.Size),
		zap.Float32("inset", e.cfg.Inset),
	)
}

func (e *Engine) applyVisibility() {
	if e.host == nil {
		return
	}
	e.host.SetFacesVisible(e.enabled)
	e.host.SetShellVisible(e.enabled && e.cfg.ShowShell)
}

// Registry exposes the face registry for geometric queries.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Enabled reports whether the engine is updating its walls.
func (e *Engine) Enabled() bool {
	return e.enabled
}

// Update rebuilds all faces for a new enclosure size and wall color. Old
// capture surfaces are disposed first. The current inset is kept.
func (e *Engine) Update(size float32, color string) {
	if e.disposed {
		return
	}
	if size <= 0 {
		size = e.cfg.Size
	}
	e.cfg.Size = size
	e.cfg.Color = color
	tint, err := ParseColor(color)
	if err != nil {
		e.log.Warn("invalid wall color, using white", zap.String("color", color))
	}
	e.store.SetTint(tint)
	e.rebuild()
}

// SetResolution resizes each face's capture surface in place.
func (e *Engine) SetResolution(width, height int) {
	e.store.SetResolution(width, height)
	w, h := e.store.Resolution()
	for _, f := range e.registry.Faces() {
		if f != nil && f.Target != nil {
			f.Target.Resize(w, h)
		}
	}
}

// SetDistortion replaces the distortion bag and re-pushes shading
// parameters into the walls.
func (e *Engine) SetDistortion(d DistortionParams) {
	e.store.SetDistortion(d)
	e.store.Push(e.registry.Faces())
}

// SetEnabled toggles wall and enclosure-shell visibility together.
func (e *Engine) SetEnabled(enabled bool) {
	e.enabled = enabled
	e.applyVisibility()
}

// SetShowShell toggles whether the enclosure shell is drawn while the
// engine is enabled.
func (e *Engine) SetShowShell(show bool) {
	e.cfg.ShowShell = show
	e.applyVisibility()
}

// ShowShell reports whether the enclosure shell is configured visible.
func (e *Engine) ShowShell() bool {
	return e.cfg.ShowShell
}

// SetMaxBounces changes the recursive capture depth bound.
func (e *Engine) SetMaxBounces(n int) {
	if n < 1 {
		n = 1
	}
	e.cfg.MaxBounces = n
	e.sched = NewScheduler(n, e.cfg.BounceAttenuation, e.cfg.AttenuationMode, e.log)
}

// MaxBounces returns the current bounce depth bound.
func (e *Engine) MaxBounces() int {
	return e.cfg.MaxBounces
}

// SetUpdateMask overrides the throttle's per-frame selection. An empty
// (non-nil) mask means "no inter-reflection": every wall gets a single
// baseline capture per frame.
func (e *Engine) SetUpdateMask(mask []int) {
	e.overrideMask = append(e.overrideMask[:0], mask...)
	e.hasOverride = true
}

// ClearUpdateMask returns control of face selection to the throttle.
func (e *Engine) ClearUpdateMask() {
	e.overrideMask = nil
	e.hasOverride = false
}

// SetInset updates the wall offset from the enclosure walls. Takes effect
// on the next rebuild.
func (e *Engine) SetInset(inset float32) {
	if inset < 0 {
		inset = 0
	}
	e.cfg.Inset = inset
}

// UpdateFrame runs one frame of wall updates: the throttle (or a
// host-supplied mask) selects target walls, then the scheduler performs
// the recursive capture sweep, resolve pass and baseline captures. No-op
// when disabled or before faces exist.
func (e *Engine) UpdateFrame(cam camera.Pose) {
	if e.disposed || !e.enabled {
		return
	}
	faces := e.registry.Faces()
	if len(faces) == 0 {
		return
	}

	var mask []int
	if e.hasOverride {
		mask = e.overrideMask
	} else {
		mask = e.throttle.Select(faces, cam)
	}

	e.sched.Run(faces, mask, cam, e.host)
}

// Dispose releases every face's capture surface. The engine performs no
// further captures afterward. Safe to call on an engine that never built
// faces, and safe to call twice.
func (e *Engine) Dispose() {
	e.registry.Dispose()
	e.disposed = true
}
