// Package app wires the window, renderer, chamber scene, growth
// simulation and mirror engine together and runs the main loop.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/mirrorbox/internal/config"
	"github.com/Faultbox/mirrorbox/internal/engine/camera"
	"github.com/Faultbox/mirrorbox/internal/engine/chamber"
	"github.com/Faultbox/mirrorbox/internal/engine/growth"
	"github.com/Faultbox/mirrorbox/internal/engine/input"
	"github.com/Faultbox/mirrorbox/internal/engine/mirror"
	"github.com/Faultbox/mirrorbox/internal/engine/renderer"
	"github.com/Faultbox/mirrorbox/internal/engine/window"
	"github.com/Faultbox/mirrorbox/internal/logger"
)

// growthInterval is the fixed timestep between growth simulation steps.
const growthInterval = 0.12

// App is the main application instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	cam    *camera.OrbitCamera
	sim    *growth.Sim
	scene  *chamber.Scene
	engine *mirror.Engine

	growthAccum  float32
	growthPaused bool
}

// New creates the application: window and GL context first, then the
// renderer, scene and mirror engine which all need a current context.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Mirrorbox",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	a.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	a.input = input.New()
	a.cam = camera.NewOrbitCamera()
	a.cam.Distance = cfg.Chamber.Size * 0.9

	a.sim = growth.New(cfg.Growth, cfg.Chamber.Size)

	a.scene, err = chamber.New(a.sim, logger.Log)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating chamber scene: %w", err)
	}
	a.scene.SetEnclosure(cfg.Chamber.Size, cfg.Chamber.Inset)

	reflMode, err := mirror.ParseReflectionMode(cfg.Chamber.ReflectionMode)
	if err != nil {
		logger.Warn("invalid reflection mode, using 'none'",
			zap.String("mode", cfg.Chamber.ReflectionMode))
	}
	attMode, ok := mirror.ParseAttenuationMode(cfg.Chamber.AttenuationMode)
	if !ok {
		logger.Warn("invalid attenuation mode, using 'skip_first'",
			zap.String("mode", cfg.Chamber.AttenuationMode))
	}

	a.engine = mirror.New(a.scene, a.scene.FaceFactory, mirror.Config{
		Size:              cfg.Chamber.Size,
		Color:             cfg.Chamber.Color,
		Inset:             cfg.Chamber.Inset,
		Width:             cfg.Chamber.Resolution.Width,
		Height:            cfg.Chamber.Resolution.Height,
		Distortion:        cfg.Chamber.Distortion,
		Enabled:           cfg.Chamber.Enabled,
		MaxBounces:        cfg.Chamber.MaxBounces,
		BounceAttenuation: cfg.Chamber.BounceAttenuation,
		AttenuationMode:   attMode,
		ReflectionMode:    reflMode,
		FacesPerFrame:     cfg.Chamber.FacesPerFrame,
		ShowShell:         cfg.Chamber.ShowShell,
	}, logger.Log)

	logger.Info("application initialized",
		zap.Float32("chamber_size", cfg.Chamber.Size),
		zap.Int("max_bounces", cfg.Chamber.MaxBounces),
		zap.String("reflection_mode", reflMode.String()),
	)
	return a, nil
}

// Run starts the main loop. Returns when the window is closed or ESC
// is pressed.
func (a *App) Run() error {
	a.running = true
	lastTime := time.Now()

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			break
		}
		a.handleEvents()

		a.update(dt)
		a.render()
		a.window.SwapBuffers()
	}

	return nil
}

func (a *App) handleEvents() {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.renderer.Resize(ev.Width, ev.Height)

		case input.EventMouseMove:
			if a.input.Dragging() {
				a.cam.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			}

		case input.EventMouseWheel:
			a.cam.HandleZoom(ev.WheelY)

		case input.EventKeyDown:
			a.handleKey(ev.Key)
		}
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false

	case sdl.SCANCODE_M:
		a.engine.SetEnabled(!a.engine.Enabled())
		logger.Info("mirrors toggled", zap.Bool("enabled", a.engine.Enabled()))

	case sdl.SCANCODE_H:
		a.engine.SetShowShell(!a.engine.ShowShell())

	case sdl.SCANCODE_B:
		// Cycle 1..5 bounces.
		n := a.engine.MaxBounces()%5 + 1
		a.engine.SetMaxBounces(n)
		logger.Info("bounce depth changed", zap.Int("max_bounces", n))

	case sdl.SCANCODE_R:
		a.sim.Reset()

	case sdl.SCANCODE_SPACE:
		a.growthPaused = !a.growthPaused
	}
}

func (a *App) update(dt float32) {
	if !a.growthPaused {
		a.growthAccum += dt
		for a.growthAccum >= growthInterval {
			a.growthAccum -= growthInterval
			a.sim.Step()
		}
	}

	a.scene.Update(dt)

	// Mirror captures happen before the main pass so every wall shows
	// this frame's world state.
	a.engine.UpdateFrame(a.cam.Pose(a.renderer.Aspect()))
}

func (a *App) render() {
	a.renderer.Begin()
	a.scene.Draw(a.cam.Pose(a.renderer.Aspect()))
}

// Close releases all resources in reverse creation order.
func (a *App) Close() {
	if a.engine != nil {
		a.engine.Dispose()
	}
	if a.scene != nil {
		a.scene.Destroy()
	}
	if a.window != nil {
		a.window.Close()
	}
}
