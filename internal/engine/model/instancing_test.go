package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGridTransformsCount(t *testing.T) {
	transforms := GridTransforms(2, 3, 4, mgl32.Vec3{1, 1, 1}, func(i, j, k, total int) mgl32.Mat4 {
		if total != 24 {
			t.Errorf("expected total 24, got %d", total)
		}
		return mgl32.Ident4()
	})

	if len(transforms) != 24 {
		t.Fatalf("expected 24 transforms, got %d", len(transforms))
	}
}

func TestGridTransformsPlacement(t *testing.T) {
	nx, ny, nz := 2, 3, 4
	offset := mgl32.Vec3{2, 4, 6}

	transforms := GridTransforms(nx, ny, nz, offset, func(i, j, k, total int) mgl32.Mat4 {
		return mgl32.Ident4()
	})

	// Row-major instance order: index = (i*ny+j)*nz + k. Cell (i,j,k)
	// is translated to ((i-nx/2)*ox, (j-ny/2)*oy, (k-nz/2)*oz).
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				idx := (i*ny+j)*nz + k
				m := transforms[idx]
				want := mgl32.Vec3{
					(float32(i) - float32(nx)/2) * offset.X(),
					(float32(j) - float32(ny)/2) * offset.Y(),
					(float32(k) - float32(nz)/2) * offset.Z(),
				}
				got := mgl32.Vec3{m[12], m[13], m[14]}
				if !got.ApproxEqualThreshold(want, 1e-5) {
					t.Errorf("cell (%d,%d,%d): expected translation %v, got %v", i, j, k, want, got)
				}
			}
		}
	}
}

func TestGridTransformsComposesBeforeCallerTransform(t *testing.T) {
	// The grid translation is composed to the left of the caller's
	// transform, so a caller-side scale must not scale the grid offsets.
	transforms := GridTransforms(2, 1, 1, mgl32.Vec3{10, 0, 0}, func(i, j, k, total int) mgl32.Mat4 {
		return mgl32.Scale3D(2, 2, 2)
	})

	for idx, m := range transforms {
		wantX := (float32(idx) - 1) * 10
		if m[12] != wantX {
			t.Errorf("instance %d: expected translation x %f, got %f", idx, wantX, m[12])
		}
		if m[0] != 2 || m[5] != 2 || m[10] != 2 {
			t.Errorf("instance %d: caller scale lost: diagonal (%f,%f,%f)", idx, m[0], m[5], m[10])
		}
	}
}

func TestCubeVertices(t *testing.T) {
	vertices, indices := CubeVertices(2)

	if len(vertices) != 24 {
		t.Errorf("expected 24 vertices, got %d", len(vertices))
	}
	if len(indices) != 36 {
		t.Errorf("expected 36 indices, got %d", len(indices))
	}

	// All positions lie on the half-size bound on at least one axis.
	for i, v := range vertices {
		onFace := false
		for axis := 0; axis < 3; axis++ {
			if v.Position[axis] == 1 || v.Position[axis] == -1 {
				onFace = true
			}
			if v.Position[axis] > 1 || v.Position[axis] < -1 {
				t.Errorf("vertex %d out of bounds: %v", i, v.Position)
			}
		}
		if !onFace {
			t.Errorf("vertex %d not on any face: %v", i, v.Position)
		}
	}
}

func TestPlaneVertices(t *testing.T) {
	vertices, indices := PlaneVertices(5)

	if len(vertices) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(vertices))
	}
	if len(indices) != 6 {
		t.Errorf("expected 6 indices, got %d", len(indices))
	}
	for i, v := range vertices {
		if v.Position[1] != 0 {
			t.Errorf("vertex %d not on the XZ plane: %v", i, v.Position)
		}
		if v.Normal != [3]float32{0, 1, 0} {
			t.Errorf("vertex %d normal not up: %v", i, v.Normal)
		}
	}
}
