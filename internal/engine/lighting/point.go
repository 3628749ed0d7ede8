package lighting

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// PointLight is an omnidirectional light with distance attenuation and an
// optional cubemap shadow pass.
type PointLight struct {
	Color    mgl32.Vec3
	Position mgl32.Vec3 // world space

	// ViewPosition is the position in camera view space, recomputed each
	// frame before the uniform block upload.
	ViewPosition mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32

	Intensity float32

	// Near/Far bound the six cubemap face projections. Far also scales
	// the linear depth written by the omnidirectional depth program.
	Near float32
	Far  float32

	CastShadows bool
}

// NewPointLight creates a point light at the given position with the
// given falloff radius.
func NewPointLight(position mgl32.Vec3, radius float32) *PointLight {
	l := &PointLight{
		Color:     mgl32.Vec3{1, 1, 1},
		Position:  position,
		Intensity: 1.0,
		Near:      0.1,
		Far:       radius * 2,
	}
	l.SetRadius(radius)
	return l
}

// SetRadius derives the attenuation coefficients from a falloff radius.
func (l *PointLight) SetRadius(radius float32) {
	l.Constant, l.Linear, l.Quadratic = attenuationFor(radius)
}

// Radius returns the falloff radius the attenuation was derived from.
func (l *PointLight) Radius() float32 {
	return 4.5 / l.Linear
}

// UpdateViewPosition caches the light position in camera view space.
func (l *PointLight) UpdateViewPosition(view mgl32.Mat4) {
	l.ViewPosition = view.Mul4x1(l.Position.Vec4(1)).Vec3()
}

// Projection returns the 90° square projection shared by all six cubemap
// faces.
func (l *PointLight) Projection() mgl32.Mat4 {
	return mgl32.Perspective(float32(gomath.Pi/2), 1.0, l.Near, l.Far)
}

// FaceViews returns the six view matrices for the cubemap faces in the
// +X, -X, +Y, -Y, +Z, -Z order OpenGL expects. The ±Y faces use a Z up
// vector to avoid the gimbal degeneracy at the poles; all other faces use
// -Y so the rendered images match the cubemap orientation convention.
func (l *PointLight) FaceViews() [6]mgl32.Mat4 {
	p := l.Position
	faces := [6]struct {
		target mgl32.Vec3
		up     mgl32.Vec3
	}{
		{p.Add(mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, -1, 0}},
		{p.Add(mgl32.Vec3{-1, 0, 0}), mgl32.Vec3{0, -1, 0}},
		{p.Add(mgl32.Vec3{0, 1, 0}), mgl32.Vec3{0, 0, 1}},
		{p.Add(mgl32.Vec3{0, -1, 0}), mgl32.Vec3{0, 0, -1}},
		{p.Add(mgl32.Vec3{0, 0, 1}), mgl32.Vec3{0, -1, 0}},
		{p.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, -1, 0}},
	}

	var views [6]mgl32.Mat4
	for i, f := range faces {
		views[i] = mgl32.LookAtV(p, f.target, f.up)
	}
	return views
}
