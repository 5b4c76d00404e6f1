package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/plyview/internal/camera"
	"github.com/Faultbox/plyview/internal/config"
	"github.com/Faultbox/plyview/internal/geometry"
	"github.com/Faultbox/plyview/internal/logger"
	"github.com/Faultbox/plyview/internal/trackball"
	"github.com/Faultbox/plyview/pkg/ply"
)

// targetFPS is the rate the wheel-zoom spring is stepped at.
const targetFPS = 60

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *Window
	renderer *Renderer
	input    *Input

	cache      *geometry.Cache
	controller *trackball.Controller
	wheel      *trackball.WheelZoom

	models []string
	model  int // index into models of the displayed mesh, -1 if none
	mesh   *ply.Mesh
}

// New creates the window, renderer and trackball from cfg.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{
		cfg:    cfg,
		log:    log,
		cache:  geometry.NewCache(),
		models: append([]string(nil), cfg.Assets.Models...),
		model:  -1,
	}

	var err error
	a.window, err = NewWindow(WindowConfig{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after the window, since the OpenGL context must exist.
	fbWidth, fbHeight := a.window.DrawableSize()
	a.renderer, err = NewRenderer(RendererConfig{
		Width:          fbWidth,
		Height:         fbHeight,
		FramesInFlight: cfg.Render.FramesInFlight,
		Background:     cfg.Render.Background,
	}, log.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	width, height := a.window.Size()
	cam := camera.New(camera.Options{
		Distance:   cfg.Camera.Distance,
		FOVDegrees: cfg.Camera.FOVDegrees,
		Near:       cfg.Camera.Near,
		Far:        cfg.Camera.Far,
		Aspect:     float32(width) / float32(height),
	})
	proj := trackball.NewProjector(float32(width), float32(height))
	proj.Radius = cfg.Trackball.Radius
	proj.RotationSpeed = cfg.Trackball.RotationSpeed
	proj.TranslationSpeed = cfg.Trackball.TranslationSpeed

	a.controller = trackball.NewController(cam, proj)
	a.controller.MinTouches = cfg.Trackball.MinTouches

	a.wheel = trackball.NewWheelZoom(targetFPS, cfg.Trackball.ZoomFrequency, cfg.Trackball.ZoomDamping, cfg.Trackball.WheelStep)
	a.wheel.MinDistance = cfg.Camera.Near * 10
	a.wheel.MaxDistance = cfg.Camera.Far / 2

	a.input = NewInput(cfg.Trackball.MinTouches)

	if len(a.models) > 0 {
		a.Open(0)
	}
	a.updateTitle()

	log.Info("viewer initialized successfully")
	return a, nil
}

// Open displays models[i]. A model that fails to load is logged and the
// current mesh stays on screen.
func (a *App) Open(i int) bool {
	if i < 0 || i >= len(a.models) {
		return false
	}
	path := a.models[i]

	start := time.Now()
	mesh, err := a.cache.Load(path)
	if err != nil {
		a.log.Error("failed to load model", zap.String("path", path), zap.Error(err))
		return false
	}

	a.model = i
	a.mesh = mesh
	a.renderer.SetMesh(mesh)
	a.controller.Reset(mesh)
	a.wheel.Stop()

	hits, misses := a.cache.Stats()
	a.log.Info("model opened",
		zap.String("path", path),
		zap.Stringer("mesh", mesh),
		zap.Duration("took", time.Since(start)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses),
	)
	a.updateTitle()
	return true
}

// OpenPath adds path to the model list if needed and displays it.
func (a *App) OpenPath(path string) bool {
	for i, p := range a.models {
		if samePath(p, path) {
			return a.Open(i)
		}
	}
	a.models = append(a.models, path)
	if !a.Open(len(a.models) - 1) {
		a.models = a.models[:len(a.models)-1]
		return false
	}
	return true
}

// Run runs the main loop until the window closes or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		if err := ctx.Err(); err != nil {
			return nil
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		width, height := a.window.Size()
		f := a.input.Update(width, height)
		if f.Quit {
			a.running = false
			break
		}
		a.handle(f, width, height)

		if d, moving := a.wheel.Update(); moving {
			a.controller.Camera().SetDistance(d)
		}

		if err := a.render(ctx); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handle(f *Frame, width, height int) {
	if f.Resized {
		a.controller.SetViewport(float32(width), float32(height))
		a.renderer.Resize(a.window.DrawableSize())
	}

	for _, ev := range f.Gestures {
		if ev.Kind == trackball.Zoom && ev.Phase == trackball.Began {
			a.wheel.Stop()
		}
		a.controller.Handle(ev)
	}

	if f.Wheel != 0 && a.controller.State(trackball.Zoom) == trackball.Idle {
		a.wheel.Scroll(a.controller.Camera().Distance(), f.Wheel)
	}

	if f.Reset {
		a.wheel.Stop()
		a.controller.Camera().Reset()
		a.controller.SetViewport(float32(width), float32(height))
		a.controller.Reset(a.mesh)

		cam := a.controller.Camera()
		eye := cam.Eye()
		near, far := cam.ClipPlanes()
		viewport := a.controller.Projector().Viewport
		a.log.Debug("view reset",
			zap.Float32s("eye", []float32{eye.X, eye.Y, eye.Z}),
			zap.Float32("near", near),
			zap.Float32("far", far),
			zap.Float32s("viewport", []float32{viewport.X, viewport.Y}),
		)
	}

	if f.ToggleShading {
		if a.renderer.Shading() == Flat {
			a.renderer.SetShading(Smooth)
		} else {
			a.renderer.SetShading(Flat)
		}
		a.updateTitle()
	}

	if f.NextModel && len(a.models) > 1 {
		for step := 1; step < len(a.models); step++ {
			if a.Open((a.model + step) % len(a.models)) {
				break
			}
		}
	}

	for _, path := range f.Dropped {
		a.OpenPath(path)
	}
}

func (a *App) render(ctx context.Context) error {
	cam := a.controller.Camera()
	return a.renderer.Draw(ctx, FrameUniforms{
		ViewProjection: cam.ViewProjection(),
		View:           cam.View(),
		Model:          a.controller.Model(),
		Distance:       cam.Distance(),
	})
}

func (a *App) updateTitle() {
	title := a.cfg.Window.Title
	if a.mesh != nil {
		title = fmt.Sprintf("%s - %s (%d faces, %s)", title,
			filepath.Base(a.models[a.model]), a.mesh.FaceCount, a.renderer.Shading())
	}
	a.window.SetTitle(title)
}

// Close cleans up viewer resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
