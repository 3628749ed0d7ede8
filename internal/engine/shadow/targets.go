// Package shadow owns the depth render targets and depth-only programs
// used by the shadow prepasses.
package shadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture units the shadow maps stay bound to for the shading pass.
// These are a contract with the shading shader and must match its
// sampler uniforms.
const (
	DirectionalTextureUnit = 8
	PointTextureUnit       = 9
	SpotTextureUnit        = 10
)

// Targets owns the three shadow render targets: a layered depth texture
// with one framebuffer per cascade layer for directional lights, a depth
// cubemap rebound per face for point lights, and a single depth texture
// for spot lights. All are sized at construction and never resized;
// changing resolution or layer count requires rebuilding the Targets.
type Targets struct {
	resolution int32
	layers     int

	dirTexture uint32
	dirFBOs    []uint32

	cubeTexture uint32
	cubeFBO     uint32

	spotTexture uint32
	spotFBO     uint32
}

// NewTargets allocates all shadow render targets at the given square
// resolution, with the given number of directional cascade layers.
func NewTargets(resolution int32, layers int) (*Targets, error) {
	t := &Targets{
		resolution: resolution,
		layers:     layers,
	}

	if err := t.createDirectional(); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("directional target: %w", err)
	}
	if err := t.createCube(); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("point target: %w", err)
	}
	if err := t.createSpot(); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("spot target: %w", err)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t, nil
}

// depthParams sets the sampling parameters shared by the 2D and array
// shadow textures: white border so fragments outside the map are lit,
// and hardware depth comparison for sampler*Shadow.
func depthParams(target uint32) {
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(target, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(target, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(target, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
}

func (t *Targets) createDirectional() error {
	gl.GenTextures(1, &t.dirTexture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.dirTexture)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT32F,
		t.resolution, t.resolution, int32(t.layers), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	depthParams(gl.TEXTURE_2D_ARRAY)

	// One framebuffer per cascade layer so the prepass can switch layers
	// without re-attaching.
	t.dirFBOs = make([]uint32, t.layers)
	gl.GenFramebuffers(int32(t.layers), &t.dirFBOs[0])
	for layer := 0; layer < t.layers; layer++ {
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.dirFBOs[layer])
		gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, t.dirTexture, 0, int32(layer))
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)

		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			return fmt.Errorf("layer %d framebuffer incomplete: 0x%x", layer, status)
		}
	}

	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	return nil
}

func (t *Targets) createCube() error {
	gl.GenTextures(1, &t.cubeTexture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.cubeTexture)
	for face := 0; face < 6; face++ {
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face), 0, gl.DEPTH_COMPONENT32F,
			t.resolution, t.resolution, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	}
	// The cubemap stores linear distance and is compared in the shader,
	// so no hardware compare mode here.
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &t.cubeFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.cubeFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X, t.cubeTexture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return nil
}

func (t *Targets) createSpot() error {
	gl.GenTextures(1, &t.spotTexture)
	gl.BindTexture(gl.TEXTURE_2D, t.spotTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		t.resolution, t.resolution, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	depthParams(gl.TEXTURE_2D)

	gl.GenFramebuffers(1, &t.spotFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.spotFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.spotTexture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// Resolution returns the square shadow map size.
func (t *Targets) Resolution() int32 {
	return t.resolution
}

// Layers returns the number of directional cascade layers.
func (t *Targets) Layers() int {
	return t.layers
}

// BindLayer binds the framebuffer for one directional cascade layer and
// sets the viewport to the shadow resolution.
func (t *Targets) BindLayer(layer int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.dirFBOs[layer])
	gl.Viewport(0, 0, t.resolution, t.resolution)
}

// BindCubeFace re-attaches one cubemap face to the point-light
// framebuffer and sets the viewport. face is 0..5 in +X -X +Y -Y +Z -Z
// order.
func (t *Targets) BindCubeFace(face int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.cubeFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face), t.cubeTexture, 0)
	gl.Viewport(0, 0, t.resolution, t.resolution)
}

// BindSpot binds the spot light framebuffer and sets the viewport.
func (t *Targets) BindSpot() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.spotFBO)
	gl.Viewport(0, 0, t.resolution, t.resolution)
}

// BindForSampling binds all three shadow textures to their fixed texture
// units for the shading pass. Called once after construction; the units
// stay bound for the lifetime of the Targets.
func (t *Targets) BindForSampling() {
	gl.ActiveTexture(gl.TEXTURE0 + DirectionalTextureUnit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.dirTexture)
	gl.ActiveTexture(gl.TEXTURE0 + PointTextureUnit)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.cubeTexture)
	gl.ActiveTexture(gl.TEXTURE0 + SpotTextureUnit)
	gl.BindTexture(gl.TEXTURE_2D, t.spotTexture)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Destroy releases all GPU resources.
func (t *Targets) Destroy() {
	if len(t.dirFBOs) > 0 {
		gl.DeleteFramebuffers(int32(len(t.dirFBOs)), &t.dirFBOs[0])
		t.dirFBOs = nil
	}
	if t.dirTexture != 0 {
		gl.DeleteTextures(1, &t.dirTexture)
		t.dirTexture = 0
	}
	if t.cubeFBO != 0 {
		gl.DeleteFramebuffers(1, &t.cubeFBO)
		t.cubeFBO = 0
	}
	if t.cubeTexture != 0 {
		gl.DeleteTextures(1, &t.cubeTexture)
		t.cubeTexture = 0
	}
	if t.spotFBO != 0 {
		gl.DeleteFramebuffers(1, &t.spotFBO)
		t.spotFBO = 0
	}
	if t.spotTexture != 0 {
		gl.DeleteTextures(1, &t.spotTexture)
		t.spotTexture = 0
	}
}
