// Package geometry provides frustum math for fitting light-space
// projections around camera frustum slices.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// xAxis is the preferred reference axis for deriving the light-view up
// vector. yAxis is the fallback when the light direction is parallel to X.
var (
	xAxis = mgl32.Vec3{1, 0, 0}
	yAxis = mgl32.Vec3{0, 1, 0}
)

// FrustumCenter returns the centroid of 8 frustum corners.
func FrustumCenter(corners [8]mgl32.Vec4) mgl32.Vec3 {
	var center mgl32.Vec3
	for _, c := range corners {
		center = center.Add(c.Vec3())
	}
	return center.Mul(1.0 / 8.0)
}

// LightView builds a view matrix for a directional light covering the
// frustum slice centered at center. The eye sits one unit up-light from
// the center; the orthographic fit absorbs the actual depth range.
func LightView(center, direction mgl32.Vec3) mgl32.Mat4 {
	up := direction.Mul(-1).Cross(xAxis)
	if up.LenSqr() < 1e-6 {
		// Light direction parallel to the X axis; cross with Y instead.
		up = direction.Mul(-1).Cross(yAxis)
	}
	eye := center.Sub(direction)
	return mgl32.LookAtV(eye, center, up.Normalize())
}

// FitLightProjection builds an orthographic projection that covers the
// given world-space corners as seen through lightView. The depth range is
// padded by zMultiplier so casters slightly outside the tested frustum
// slice still land in the shadow map.
func FitLightProjection(lightView mgl32.Mat4, corners [8]mgl32.Vec4, zMultiplier float32) mgl32.Mat4 {
	min, max := fitBounds(lightView, corners, zMultiplier)
	// Ortho near/far are distances along the view -Z axis, so the box
	// spanning light-space z in [minZ, maxZ] has near -maxZ and far -minZ.
	return mgl32.Ortho(min.X(), max.X(), min.Y(), max.Y(), -max.Z(), -min.Z())
}

// fitBounds transforms the corners into light space and returns the padded
// axis-aligned bounds.
func fitBounds(lightView mgl32.Mat4, corners [8]mgl32.Vec4, zMultiplier float32) (mgl32.Vec3, mgl32.Vec3) {
	first := lightView.Mul4x1(corners[0])
	min := first.Vec3()
	max := first.Vec3()

	for _, c := range corners[1:] {
		p := lightView.Mul4x1(c)
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}

	// Widen the depth range multiplicatively. A negative bound moves away
	// from zero when multiplied, a positive one when divided.
	if min[2] < 0 {
		min[2] *= zMultiplier
	} else {
		min[2] /= zMultiplier
	}
	if max[2] < 0 {
		max[2] /= zMultiplier
	} else {
		max[2] *= zMultiplier
	}

	return min, max
}
