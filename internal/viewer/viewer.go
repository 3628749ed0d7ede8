// Package viewer implements the demo application: window, event loop,
// orbit camera, and a scene exercising all three shadow-casting light
// types.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/helios3d/helios/internal/config"
	"github.com/helios3d/helios/internal/engine/camera"
	"github.com/helios3d/helios/internal/engine/input"
	"github.com/helios3d/helios/internal/engine/lighting"
	"github.com/helios3d/helios/internal/engine/model"
	"github.com/helios3d/helios/internal/engine/renderer"
	"github.com/helios3d/helios/internal/engine/window"
	"github.com/helios3d/helios/internal/logger"
)

// Viewer owns the window, renderer, camera, and demo scene.
type Viewer struct {
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Camera

	scene    *renderer.Scene
	meshes   []*model.Mesh
	batch    *model.InstancedMesh
	dragging bool
}

// New creates the window, the renderer, and the demo scene.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Helios Viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	v.renderer, err = renderer.New(renderer.Config{
		ShadowResolution: int32(cfg.Shadows.Resolution),
		CascadeSplits:    cfg.Shadows.Cascades,
		MaxDirectional:   cfg.Lights.MaxDirectional,
		MaxPoint:         cfg.Lights.MaxPoint,
		MaxSpot:          cfg.Lights.MaxSpot,
		ClearColor:       mgl32.Vec3{0.05, 0.06, 0.09},
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()

	w, h := v.window.DrawableSize()
	gl.Viewport(0, 0, w, h)
	v.camera = camera.New(float32(w) / float32(h))

	v.scene = v.buildScene(cfg.Shadows.Cascades)

	logger.Info("viewer initialized")
	return v, nil
}

// splitRanges computes ascending cascade split distances with the usual
// blend of uniform and logarithmic schemes.
func splitRanges(n int, near, far float32) []float32 {
	const lambda = 0.75

	ranges := make([]float32, n)
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n+1)
		linear := float64(near) + (float64(far)-float64(near))*f
		logarithmic := float64(near) * gomath.Pow(float64(far)/float64(near), f)
		ranges[i-1] = float32(lambda*logarithmic + (1-lambda)*linear)
	}
	return ranges
}

// buildScene assembles the demo: a receiving ground plane, a few cubes,
// an instanced cube grid, and one light of each type.
func (v *Viewer) buildScene(splits int) *renderer.Scene {
	scene := &renderer.Scene{}

	// Ground receives shadows but does not cast them.
	planeVerts, planeIdx := model.PlaneVertices(40)
	ground := model.NewMesh(planeVerts, planeIdx)
	ground.CastShadows = false
	v.meshes = append(v.meshes, ground)
	scene.Objects = append(scene.Objects, renderer.Object{
		Mesh:  ground,
		Model: mgl32.Ident4(),
		Color: mgl32.Vec3{0.55, 0.55, 0.5},
	})

	cubeVerts, cubeIdx := model.CubeVertices(1)
	cube := model.NewMesh(cubeVerts, cubeIdx)
	v.meshes = append(v.meshes, cube)

	positions := []mgl32.Vec3{
		{0, 1.5, 0},
		{-6, 1, 4},
		{5, 2, -3},
	}
	colors := []mgl32.Vec3{
		{0.8, 0.3, 0.25},
		{0.25, 0.6, 0.8},
		{0.85, 0.75, 0.3},
	}
	for i, p := range positions {
		scale := float32(1 + i)
		scene.Objects = append(scene.Objects, renderer.Object{
			Mesh:  cube,
			Model: mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.Scale3D(scale, scale, scale)),
			Color: colors[i],
		})
	}

	// An instanced grid floating above the ground, every copy rotated a
	// little differently.
	gridMesh := model.NewMesh(cubeVerts, cubeIdx)
	v.batch = model.NewInstancedMesh(gridMesh, 5*3*5)
	v.batch.ApplyToAllInstances(5, 3, 5, mgl32.Vec3{4, 4, 4}, func(i, j, k, total int) mgl32.Mat4 {
		angle := float32(i*3+j*5+k) * 0.3
		lift := mgl32.Translate3D(0, 10, 0)
		return lift.Mul4(mgl32.HomogRotate3DY(angle))
	})
	scene.Objects = append(scene.Objects, renderer.Object{
		Mesh:  v.batch,
		Model: mgl32.Ident4(), // per-instance matrices carry the transforms
		Color: mgl32.Vec3{0.4, 0.75, 0.45},
	})

	sun := lighting.NewDirectionalLight(
		mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
		splitRanges(splits, v.camera.Near, v.camera.Far),
	)
	sun.Intensity = 1.2
	scene.Directional = append(scene.Directional, sun)

	lamp := lighting.NewPointLight(mgl32.Vec3{8, 4, 8}, 25)
	lamp.Color = mgl32.Vec3{1, 0.8, 0.6}
	lamp.Intensity = 2
	scene.Point = append(scene.Point, lamp)

	spot := lighting.NewSpotLight(
		mgl32.Vec3{-10, 14, -10},
		mgl32.Vec3{0.5, -1, 0.5}.Normalize(),
		mgl32.DegToRad(15), mgl32.DegToRad(25), 40,
	)
	spot.Color = mgl32.Vec3{0.7, 0.8, 1}
	spot.Intensity = 3
	scene.Spot = append(scene.Spot, spot)

	return scene
}

// Run drives the event and render loop until quit.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			break
		}
		v.handleEvents()

		v.update(dt)
		v.renderer.RenderFrame(v.camera, v.scene, dt)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := v.window.DrawableSize()
			gl.Viewport(0, 0, w, h)
			v.camera.Aspect = float32(w) / float32(h)
		case input.EventKeyDown:
			if e.Key == sdl.SCANCODE_ESCAPE {
				v.running = false
			}
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = true
			}
		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}
		case input.EventMouseMove:
			if v.dragging {
				v.camera.HandleDrag(float32(e.RelX), float32(e.RelY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(e.WheelY)
		}
	}
}

// update animates the point light in a slow circle so its moving shadow
// is visible.
func (v *Viewer) update(dt float32) {
	_ = dt
	t := v.renderer.Frame.Elapsed * 0.4
	lamp := v.scene.Point[0]
	lamp.Position = mgl32.Vec3{
		float32(gomath.Cos(t)) * 10,
		4,
		float32(gomath.Sin(t)) * 10,
	}
}

// Close releases GPU resources and tears down the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.batch != nil {
		v.batch.Destroy()
	}
	for _, m := range v.meshes {
		m.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
