// Package renderer drives the frame loop: shadow prepasses for every
// light type, then a forward shading pass over the scene.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/helios3d/helios/internal/engine/camera"
	"github.com/helios3d/helios/internal/engine/lighting"
	"github.com/helios3d/helios/internal/engine/shadow"
	"github.com/helios3d/helios/internal/logger"
)

// Config sets the renderer's fixed capacities. Light counts bound the
// uniform block sizes; exceeding them at render time is a programming
// error.
type Config struct {
	ShadowResolution int32
	CascadeSplits    int
	MaxDirectional   int
	MaxPoint         int
	MaxSpot          int
	ClearColor       mgl32.Vec3
}

// Object is one drawable scene entry: a mesh (plain or instanced), its
// model matrix, and a flat material color.
type Object struct {
	Mesh  lighting.Caster
	Model mgl32.Mat4
	Color mgl32.Vec3
}

// Scene is the per-frame description the renderer consumes. The caller
// owns all of it; the renderer only reads (and writes computed cascade
// matrices and view positions back into the lights).
type Scene struct {
	Objects []Object

	Directional []*lighting.DirectionalLight
	Point       []*lighting.PointLight
	Spot        []*lighting.SpotLight
}

// casters returns the meshes and their model matrices as the parallel
// slices the shadow prepasses take.
func (s *Scene) casters() ([]lighting.Caster, []mgl32.Mat4) {
	meshes := make([]lighting.Caster, len(s.Objects))
	models := make([]mgl32.Mat4, len(s.Objects))
	for i, o := range s.Objects {
		meshes[i] = o.Mesh
		models[i] = o.Model
	}
	return meshes, models
}

// Renderer owns the lighting stack, the shading programs, and the frame
// context. One Renderer per GL context.
type Renderer struct {
	cfg   Config
	stack *lighting.Stack

	shading [2]*shadingProgram // indexed by shadow.Mode

	Frame FrameContext
}

// New initializes OpenGL function pointers and builds the lighting stack
// and shading programs. Requires a current GL context.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{cfg: cfg}

	var err error
	r.stack, err = lighting.NewStack(cfg.MaxDirectional, cfg.MaxPoint, cfg.MaxSpot,
		cfg.ShadowResolution, cfg.CascadeSplits)
	if err != nil {
		return nil, fmt.Errorf("lighting stack: %w", err)
	}

	for mode := range r.shading {
		r.shading[mode], err = newShadingProgram(shadow.Mode(mode),
			cfg.CascadeSplits, cfg.MaxDirectional, cfg.MaxPoint, cfg.MaxSpot)
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("shading program: %w", err)
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	return r, nil
}

// RenderFrame runs the shadow prepasses and the shading pass for one
// frame. The viewport must already be set to the window size.
func (r *Renderer) RenderFrame(cam *camera.Camera, scene *Scene, dt float32) {
	r.Frame.Advance(dt)

	view := cam.View()
	for _, l := range scene.Point {
		l.UpdateViewPosition(view)
	}

	meshes, models := scene.casters()
	r.stack.DirectionalShadowPrepass(cam, scene.Directional, models, meshes)
	r.stack.OmnidirectionalShadowPrepass(scene.Point, models, meshes)
	r.stack.PerspectiveShadowPrepass(cam, scene.Spot, models, meshes)

	c := r.cfg.ClearColor
	gl.ClearColor(c.X(), c.Y(), c.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := cam.Projection()
	for mode, prog := range r.shading {
		bound := false
		for _, o := range scene.Objects {
			if int(o.Mesh.DrawMode()) != mode {
				continue
			}
			if !bound {
				prog.use(view, projection,
					len(scene.Directional), len(scene.Point), len(scene.Spot))
				bound = true
			}
			prog.setObject(o.Model, o.Color)
			o.Mesh.Draw()
		}
	}
	gl.UseProgram(0)
}

// Destroy releases all GPU resources owned by the renderer.
func (r *Renderer) Destroy() {
	if r.stack != nil {
		r.stack.Destroy()
	}
	for _, p := range r.shading {
		if p != nil {
			p.destroy()
		}
	}
}
