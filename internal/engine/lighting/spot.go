package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SpotLight is a cone light with a single perspective shadow map.
type SpotLight struct {
	Color     mgl32.Vec3
	Direction mgl32.Vec3 // unit vector, world space
	Position  mgl32.Vec3

	// Cutoff angles in radians. Inner is full intensity, the band up to
	// outer fades to zero.
	InnerCutoff float32
	OuterCutoff float32

	Constant  float32
	Linear    float32
	Quadratic float32

	Intensity float32

	Near float32
	Far  float32

	// LightMatrix is the projection*view written by the shadow prepass.
	LightMatrix mgl32.Mat4

	CastShadows bool
}

// NewSpotLight creates a spot light at position shining along direction
// with the given cutoff angles (radians) and falloff radius.
func NewSpotLight(position, direction mgl32.Vec3, inner, outer, radius float32) *SpotLight {
	l := &SpotLight{
		Color:       mgl32.Vec3{1, 1, 1},
		Direction:   direction.Normalize(),
		Position:    position,
		InnerCutoff: inner,
		OuterCutoff: outer,
		Intensity:   1.0,
		Near:        0.1,
		Far:         radius * 2,
		LightMatrix: mgl32.Ident4(),
	}
	l.SetRadius(radius)
	return l
}

// SetRadius derives the attenuation coefficients from a falloff radius.
func (l *SpotLight) SetRadius(radius float32) {
	l.Constant, l.Linear, l.Quadratic = attenuationFor(radius)
}

// Radius returns the falloff radius the attenuation was derived from.
func (l *SpotLight) Radius() float32 {
	return 4.5 / l.Linear
}

// ShadowMatrix computes the perspective light matrix for the shadow pass.
// The cone's outer cutoff already bounds the projection, so no frustum
// fitting is needed: the FOV is simply twice the outer angle.
func (l *SpotLight) ShadowMatrix() mgl32.Mat4 {
	proj := mgl32.Perspective(2*l.OuterCutoff, 1.0, l.Near, l.Far)
	view := mgl32.LookAtV(l.Position, l.Position.Add(l.Direction), upFor(l.Direction))
	return proj.Mul4(view)
}
