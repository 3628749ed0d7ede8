package lighting

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/helios3d/helios/internal/engine/camera"
	"github.com/helios3d/helios/internal/engine/geometry"
	"github.com/helios3d/helios/internal/engine/shadow"
)

// Caster is the draw collaborator the shadow prepasses render. DrawMode
// tells the stack which depth program variant the mesh needs.
type Caster interface {
	Draw()
	DrawMode() shadow.Mode
	CastsShadows() bool
}

// Stack owns all per-light-type GPU state: shadow render targets, depth
// programs, and the uniform blocks consumed by the shading pass. Light
// value objects stay owned by the frame loop and are passed into the
// prepass calls; the directional prepass writes the computed cascade
// matrices back into the lights.
type Stack struct {
	maxDirectional int
	maxPoint       int
	maxSpot        int
	splits         int // cascade split count; layers = splits+1

	targets  *shadow.Targets
	programs *shadow.Programs

	directionalBlock *Block
	pointBlock       *Block
	spotBlock        *Block

	prevViewport [4]int32
}

// NewStack allocates shadow targets, depth programs, and uniform blocks
// for the given capacities. The uniform blocks are bound to their binding
// points and the shadow textures to their texture units immediately;
// both stay bound for the stack's lifetime.
func NewStack(maxDirectional, maxPoint, maxSpot int, resolution int32, splits int) (*Stack, error) {
	s := &Stack{
		maxDirectional: maxDirectional,
		maxPoint:       maxPoint,
		maxSpot:        maxSpot,
		splits:         splits,
	}

	var err error
	s.targets, err = shadow.NewTargets(resolution, splits+1)
	if err != nil {
		return nil, fmt.Errorf("shadow targets: %w", err)
	}

	s.programs, err = shadow.NewPrograms()
	if err != nil {
		s.targets.Destroy()
		return nil, fmt.Errorf("depth programs: %w", err)
	}

	s.directionalBlock = newBlock(maxDirectional, directionalStride(splits), DirectionalBlockBinding)
	s.pointBlock = newBlock(maxPoint, pointStride, PointBlockBinding)
	s.spotBlock = newBlock(maxSpot, spotStride, SpotBlockBinding)

	s.targets.BindForSampling()

	return s, nil
}

// Destroy releases all GPU resources owned by the stack.
func (s *Stack) Destroy() {
	if s.targets != nil {
		s.targets.Destroy()
	}
	if s.programs != nil {
		s.programs.Destroy()
	}
	if s.directionalBlock != nil {
		s.directionalBlock.Destroy()
	}
	if s.pointBlock != nil {
		s.pointBlock.Destroy()
	}
	if s.spotBlock != nil {
		s.spotBlock.Destroy()
	}
}

// modelMatrixFor implements the fan-out rule for supplied model matrices:
// one matrix per mesh when the counts match, otherwise every mesh uses
// the last supplied matrix.
func modelMatrixFor(models []mgl32.Mat4, meshCount, i int) mgl32.Mat4 {
	if len(models) == 0 {
		return mgl32.Ident4()
	}
	if len(models) == meshCount {
		return models[i]
	}
	return models[len(models)-1]
}

// computeCascadeMatrices fills l.LightMatrices with one projection*view
// per cascade, each fitted around the camera frustum slice the cascade
// covers.
func computeCascadeMatrices(cam *camera.Camera, l *DirectionalLight) {
	for i := 0; i < l.Cascades(); i++ {
		near, far := l.cascadeInterval(i, cam.Near, cam.Far)
		corners := cam.FrustumCorners(near, far)
		center := geometry.FrustumCenter(corners)
		view := geometry.LightView(center, l.Direction)
		proj := geometry.FitLightProjection(view, corners, l.ZMultiplier)
		l.LightMatrices[i] = proj.Mul4(view)
	}
}

// beginDepthPass saves the viewport and switches to front-face culling to
// reduce shadow acne.
func (s *Stack) beginDepthPass() {
	gl.GetIntegerv(gl.VIEWPORT, &s.prevViewport[0])
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// endDepthPass restores the default framebuffer, viewport, and culling.
func (s *Stack) endDepthPass() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(s.prevViewport[0], s.prevViewport[1], s.prevViewport[2], s.prevViewport[3])
	gl.CullFace(gl.BACK)
}

// DirectionalShadowPrepass renders the cascaded shadow maps for every
// shadow-casting directional light and refreshes the directional uniform
// block for all of them. Lights render into the shared cascade layers in
// sequence, so with more than one shadow-casting directional light only
// the last one's depth survives.
func (s *Stack) DirectionalShadowPrepass(cam *camera.Camera, lights []*DirectionalLight, models []mgl32.Mat4, meshes []Caster) {
	if len(lights) > s.maxDirectional {
		panic(fmt.Sprintf("lighting: %d directional lights exceed capacity %d", len(lights), s.maxDirectional))
	}
	// Every light is packed into the uniform block, casting or not, so
	// the split count must match for all of them.
	for _, l := range lights {
		if len(l.CascadeRanges) != s.splits {
			panic(fmt.Sprintf("lighting: light has %d cascade splits, stack configured for %d",
				len(l.CascadeRanges), s.splits))
		}
	}

	s.beginDepthPass()

	for layer := 0; layer < s.splits+1; layer++ {
		s.targets.BindLayer(layer)
		gl.Clear(gl.DEPTH_BUFFER_BIT)
	}

	for _, l := range lights {
		if !l.CastShadows {
			continue
		}

		computeCascadeMatrices(cam, l)

		for i, mesh := range meshes {
			if !mesh.CastsShadows() {
				continue
			}
			prog := s.programs.Depth(mesh.DrawMode())
			prog.Use()
			prog.SetModel(modelMatrixFor(models, len(meshes), i))

			for cascade := 0; cascade < l.Cascades(); cascade++ {
				s.targets.BindLayer(cascade)
				prog.SetLightSpace(l.LightMatrices[cascade])
				mesh.Draw()
			}
		}
	}

	view := cam.View()
	for i, l := range lights {
		packDirectional(s.directionalBlock.slot(i), l, view)
	}
	s.directionalBlock.Upload()

	s.endDepthPass()
}

// OmnidirectionalShadowPrepass renders the point-light depth cubemap and
// refreshes the point uniform block. All point lights share the single
// cubemap, processed in sequence: only the most recently processed
// shadow-casting light's depth is valid for the shading pass. Callers
// must refresh each light's ViewPosition before this call.
func (s *Stack) OmnidirectionalShadowPrepass(lights []*PointLight, models []mgl32.Mat4, meshes []Caster) {
	if len(lights) > s.maxPoint {
		panic(fmt.Sprintf("lighting: %d point lights exceed capacity %d", len(lights), s.maxPoint))
	}

	s.beginDepthPass()

	// All faces are cleared up front, before any light renders, so a
	// frame with no shadow-casting point light still has a defined map.
	for face := 0; face < 6; face++ {
		s.targets.BindCubeFace(face)
		gl.Clear(gl.DEPTH_BUFFER_BIT)
	}

	for _, l := range lights {
		if !l.CastShadows {
			continue
		}

		proj := l.Projection()
		views := l.FaceViews()

		for face := 0; face < 6; face++ {
			s.targets.BindCubeFace(face)
			lightSpace := proj.Mul4(views[face])

			for i, mesh := range meshes {
				if !mesh.CastsShadows() {
					continue
				}
				prog := s.programs.Omni(mesh.DrawMode())
				prog.Use()
				prog.SetLightPosition(l.Position)
				prog.SetFarPlane(l.Far)
				prog.SetLightSpace(lightSpace)
				prog.SetModel(modelMatrixFor(models, len(meshes), i))
				mesh.Draw()
			}
		}
	}

	for i, l := range lights {
		packPoint(s.pointBlock.slot(i), l)
	}
	s.pointBlock.Upload()

	s.endDepthPass()
}

// PerspectiveShadowPrepass renders the spot-light shadow map and
// refreshes the spot uniform block. Spot lights share the single depth
// texture in sequence, like point lights share the cubemap.
func (s *Stack) PerspectiveShadowPrepass(cam *camera.Camera, lights []*SpotLight, models []mgl32.Mat4, meshes []Caster) {
	if len(lights) > s.maxSpot {
		panic(fmt.Sprintf("lighting: %d spot lights exceed capacity %d", len(lights), s.maxSpot))
	}

	s.beginDepthPass()

	s.targets.BindSpot()
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	for _, l := range lights {
		if !l.CastShadows {
			continue
		}

		l.LightMatrix = l.ShadowMatrix()
		s.targets.BindSpot()

		for i, mesh := range meshes {
			if !mesh.CastsShadows() {
				continue
			}
			prog := s.programs.Depth(mesh.DrawMode())
			prog.Use()
			prog.SetLightSpace(l.LightMatrix)
			prog.SetModel(modelMatrixFor(models, len(meshes), i))
			mesh.Draw()
		}
	}

	view := cam.View()
	for i, l := range lights {
		packSpot(s.spotBlock.slot(i), l, view)
	}
	s.spotBlock.Upload()

	s.endDepthPass()
}
