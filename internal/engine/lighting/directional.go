// Package lighting provides light value types, their GPU uniform blocks,
// and the shadow prepass orchestration for the engine.
package lighting

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLight is a sun-style light with cascaded shadow maps.
// CascadeRanges holds the N ascending split distances partitioning the
// camera depth range into N+1 cascades; LightMatrices receives one
// projection*view matrix per cascade during the shadow prepass.
type DirectionalLight struct {
	Color     mgl32.Vec3
	Direction mgl32.Vec3 // unit vector, world space
	Intensity float32
	FarPlane  float32

	CascadeRanges []float32
	LightMatrices []mgl32.Mat4

	CastShadows bool

	// ZOffset pads each cascade interval so adjacent cascades overlap;
	// ZMultiplier pads the fitted depth range of each cascade.
	ZOffset     float32
	ZMultiplier float32
}

// NewDirectionalLight creates a directional light with the given cascade
// splits and common defaults.
func NewDirectionalLight(direction mgl32.Vec3, ranges []float32) *DirectionalLight {
	return &DirectionalLight{
		Color:         mgl32.Vec3{1, 1, 1},
		Direction:     direction.Normalize(),
		Intensity:     1.0,
		FarPlane:      200.0,
		CascadeRanges: ranges,
		LightMatrices: make([]mgl32.Mat4, len(ranges)+1),
		CastShadows:   true,
		ZOffset:       2.0,
		ZMultiplier:   5.0,
	}
}

// Cascades returns the number of cascade layers (splits + 1).
func (l *DirectionalLight) Cascades() int {
	return len(l.CascadeRanges) + 1
}

// cascadeInterval returns the [near, far] camera depth sub-range covered
// by cascade i. Adjacent cascades overlap by 2*ZOffset to hide seams at
// the split boundaries.
func (l *DirectionalLight) cascadeInterval(i int, camNear, camFar float32) (float32, float32) {
	last := len(l.CascadeRanges)
	switch {
	case i == 0:
		return camNear - l.ZOffset, l.CascadeRanges[0] + l.ZOffset
	case i == last:
		return l.CascadeRanges[last-1] - l.ZOffset, camFar + l.ZOffset
	default:
		return l.CascadeRanges[i-1] - l.ZOffset, l.CascadeRanges[i] + l.ZOffset
	}
}

// attenuationFor derives point/spot attenuation coefficients from a light
// radius: constant 1, linear 4.5/r, quadratic 75/r².
func attenuationFor(radius float32) (constant, linear, quadratic float32) {
	return 1.0, 4.5 / radius, 75.0 / (radius * radius)
}

// upFor picks an up vector for a look-along-direction view, avoiding the
// degenerate case where direction is parallel to world Y.
func upFor(direction mgl32.Vec3) mgl32.Vec3 {
	if float32(gomath.Abs(float64(direction.Y()))) > 0.999 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}
