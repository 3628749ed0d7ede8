// Package camera provides the viewer camera and view-frustum queries.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits around a center point and exposes the view/projection
// matrices plus frustum-corner queries used by the shadow prepasses.
type Camera struct {
	// Orbit center
	Center mgl32.Vec3

	// Spherical coordinates around the center
	Distance float32
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	// Projection parameters
	Fov    float32 // vertical FOV, radians
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// New creates a camera with default orbit settings.
func New(aspect float32) *Camera {
	return &Camera{
		Distance:        30.0,
		Pitch:           0.5,
		Yaw:             0.0,
		Fov:             float32(gomath.Pi / 4),
		Aspect:          aspect,
		Near:            0.1,
		Far:             300.0,
		MinDistance:     2.0,
		MaxDistance:     500.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))

	return c.Center.Add(mgl32.Vec3{x, y, z})
}

// View returns the view matrix for this camera.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
}

// FrustumCorners returns the 8 world-space corners of the camera frustum
// restricted to the [near, far] depth sub-range. Corners are ordered near
// quad first then far quad, each quad wound (-1,-1), (1,-1), (1,1), (-1,1)
// in NDC. Downstream index arithmetic relies on this ordering.
func (c *Camera) FrustumCorners(near, far float32) [8]mgl32.Vec4 {
	proj := mgl32.Perspective(c.Fov, c.Aspect, near, far)
	inv := proj.Mul4(c.View()).Inv()

	quad := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	var corners [8]mgl32.Vec4
	i := 0
	for _, z := range []float32{-1, 1} { // near plane, then far plane
		for _, xy := range quad {
			p := inv.Mul4x1(mgl32.Vec4{xy[0], xy[1], z, 1})
			corners[i] = p.Mul(1 / p.W())
			i++
		}
	}
	return corners
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Camera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Camera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
