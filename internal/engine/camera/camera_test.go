package camera

import (
	gomath "math"
	"testing"
)

const eps = 1e-3

func approx(a, b float32) bool {
	return float32(gomath.Abs(float64(a-b))) < eps
}

// axisCamera returns a camera at (0,0,10) looking down -Z.
func axisCamera() *Camera {
	c := New(1.0)
	c.Pitch = 0
	c.Yaw = 0
	c.Distance = 10
	return c
}

func TestPosition(t *testing.T) {
	c := axisCamera()
	pos := c.Position()
	if !approx(pos.X(), 0) || !approx(pos.Y(), 0) || !approx(pos.Z(), 10) {
		t.Errorf("expected position (0,0,10), got %v", pos)
	}
}

func TestFrustumCornersDepths(t *testing.T) {
	c := axisCamera()
	corners := c.FrustumCorners(1, 5)

	// Near quad first, far quad second; camera looks down -Z from z=10.
	for i := 0; i < 4; i++ {
		if !approx(corners[i].Z(), 9) {
			t.Errorf("near corner %d: expected z=9, got %f", i, corners[i].Z())
		}
	}
	for i := 4; i < 8; i++ {
		if !approx(corners[i].Z(), 5) {
			t.Errorf("far corner %d: expected z=5, got %f", i, corners[i].Z())
		}
	}
}

func TestFrustumCornersExtent(t *testing.T) {
	c := axisCamera()
	near, far := float32(1), float32(5)
	corners := c.FrustumCorners(near, far)

	// Half-extent of each quad is dist*tan(fov/2), aspect 1.
	halfNear := near * float32(gomath.Tan(float64(c.Fov)/2))
	halfFar := far * float32(gomath.Tan(float64(c.Fov)/2))

	for i := 0; i < 4; i++ {
		if !approx(absf(corners[i].X()), halfNear) || !approx(absf(corners[i].Y()), halfNear) {
			t.Errorf("near corner %d: expected |x|=|y|=%f, got (%f, %f)",
				i, halfNear, corners[i].X(), corners[i].Y())
		}
	}
	for i := 4; i < 8; i++ {
		if !approx(absf(corners[i].X()), halfFar) || !approx(absf(corners[i].Y()), halfFar) {
			t.Errorf("far corner %d: expected |x|=|y|=%f, got (%f, %f)",
				i, halfFar, corners[i].X(), corners[i].Y())
		}
	}
}

func TestFrustumCornersWinding(t *testing.T) {
	c := axisCamera()
	corners := c.FrustumCorners(1, 5)

	// Quad winding is (-1,-1), (1,-1), (1,1), (-1,1) in NDC; looking down
	// -Z with up +Y, NDC X/Y map directly to world X/Y.
	signs := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for q := 0; q < 2; q++ {
		for i := 0; i < 4; i++ {
			corner := corners[q*4+i]
			if sign(corner.X()) != signs[i][0] || sign(corner.Y()) != signs[i][1] {
				t.Errorf("quad %d corner %d: expected signs %v, got (%f, %f)",
					q, i, signs[i], corner.X(), corner.Y())
			}
		}
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := New(1.0)
	c.Distance = c.MinDistance + 0.1
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", c.MinDistance, c.Distance)
	}

	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", c.MaxDistance, c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := New(1.0)
	c.HandleDrag(0, 10000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", c.MaxPitch, c.Pitch)
	}
	c.HandleDrag(0, -20000)
	if c.Pitch != c.MinPitch {
		t.Errorf("expected pitch clamped to %f, got %f", c.MinPitch, c.Pitch)
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}
