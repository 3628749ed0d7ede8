package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDirectionalStride(t *testing.T) {
	// Three padded vectors (12), one 16-byte slot per split, and N+1
	// matrices of 16 floats.
	if got := directionalStride(4); got != 108 {
		t.Errorf("expected stride 108 for 4 splits, got %d", got)
	}
	if got := directionalStride(0); got != 28 {
		t.Errorf("expected stride 28 for 0 splits, got %d", got)
	}
}

func TestPackDirectionalLayout(t *testing.T) {
	ranges := []float32{25, 50, 100, 200}
	l := NewDirectionalLight(mgl32.Vec3{0, 0, -1}, ranges)
	l.Color = mgl32.Vec3{0.9, 0.8, 0.7}
	l.Intensity = 2.5
	l.FarPlane = 321
	for i := range l.LightMatrices {
		l.LightMatrices[i] = mgl32.Translate3D(float32(i), 0, 0)
	}

	dst := make([]float32, directionalStride(len(ranges)))
	packDirectional(dst, l, mgl32.Ident4())

	if dst[0] != 0.9 || dst[1] != 0.8 || dst[2] != 0.7 {
		t.Errorf("color not at offset 0: %v", dst[0:3])
	}
	if dst[4] != 0 || dst[5] != 0 || dst[6] != -1 {
		t.Errorf("direction not at offset 4: %v", dst[4:7])
	}
	if dst[8] != 2.5 {
		t.Errorf("intensity not at offset 8: %f", dst[8])
	}
	if dst[9] != 321 {
		t.Errorf("far plane not at offset 9: %f", dst[9])
	}

	// Each split distance occupies a full 16-byte slot.
	for k, r := range ranges {
		off := 12 + 4*k
		if dst[off] != r {
			t.Errorf("range %d not at offset %d: %f", k, off, dst[off])
		}
		if dst[off+1] != 0 || dst[off+2] != 0 || dst[off+3] != 0 {
			t.Errorf("range %d slot padding not zero", k)
		}
	}

	matBase := 12 + 4*len(ranges)
	for j, m := range l.LightMatrices {
		off := matBase + 16*j
		for e := 0; e < 16; e++ {
			if dst[off+e] != m[e] {
				t.Errorf("matrix %d element %d: expected %f, got %f", j, e, m[e], dst[off+e])
			}
		}
	}
}

func TestPackDirectionalViewSpaceDirection(t *testing.T) {
	l := NewDirectionalLight(mgl32.Vec3{1, 0, 0}, []float32{10})

	// A 90° yaw rotation takes world +X to view -Z.
	view := mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	dst := make([]float32, directionalStride(1))
	packDirectional(dst, l, view)

	got := mgl32.Vec3{dst[4], dst[5], dst[6]}
	want := mgl32.Vec3{0, 0, -1}
	for i := 0; i < 3; i++ {
		if !approx(got[i], want[i]) {
			t.Errorf("expected view-space direction %v, got %v", want, got)
			break
		}
	}
}

func TestPackPointLayout(t *testing.T) {
	l := NewPointLight(mgl32.Vec3{1, 2, 3}, 10)
	l.Color = mgl32.Vec3{0.1, 0.2, 0.3}
	l.ViewPosition = mgl32.Vec3{4, 5, 6}
	l.Intensity = 3
	l.Near = 0.5
	l.Far = 60

	dst := make([]float32, pointStride)
	packPoint(dst, l)

	if dst[0] != 0.1 || dst[1] != 0.2 || dst[2] != 0.3 {
		t.Errorf("color not at offset 0: %v", dst[0:3])
	}
	if dst[4] != 1 || dst[5] != 2 || dst[6] != 3 {
		t.Errorf("world position not at offset 4: %v", dst[4:7])
	}
	if dst[8] != 4 || dst[9] != 5 || dst[10] != 6 {
		t.Errorf("view position not at offset 8: %v", dst[8:11])
	}
	if dst[12] != l.Constant || dst[13] != l.Linear || dst[14] != l.Quadratic {
		t.Errorf("attenuation not at offset 12: %v", dst[12:15])
	}
	if dst[15] != 3 {
		t.Errorf("intensity not at offset 15: %f", dst[15])
	}
	if dst[16] != 0.5 || dst[17] != 60 {
		t.Errorf("near/far not at offset 16: %v", dst[16:18])
	}
}

func TestPackSpotLayout(t *testing.T) {
	l := NewSpotLight(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, -1, 0}, 0.3, 0.5, 20)
	l.Color = mgl32.Vec3{0.4, 0.5, 0.6}
	l.Intensity = 1.5
	l.LightMatrix = mgl32.Translate3D(7, 8, 9)

	dst := make([]float32, spotStride)
	packSpot(dst, l, mgl32.Ident4())

	if dst[0] != 0.4 || dst[1] != 0.5 || dst[2] != 0.6 {
		t.Errorf("color not at offset 0: %v", dst[0:3])
	}
	if dst[4] != 0 || dst[5] != -1 || dst[6] != 0 {
		t.Errorf("direction not at offset 4: %v", dst[4:7])
	}
	if dst[8] != 1 || dst[9] != 2 || dst[10] != 3 {
		t.Errorf("position not at offset 8: %v", dst[8:11])
	}
	if dst[12] != 0.3 || dst[13] != 0.5 {
		t.Errorf("cutoffs not at offset 12: %v", dst[12:14])
	}
	if dst[14] != l.Constant || dst[15] != l.Linear || dst[16] != l.Quadratic {
		t.Errorf("attenuation not at offset 14: %v", dst[14:17])
	}
	if dst[17] != 1.5 {
		t.Errorf("intensity not at offset 17: %f", dst[17])
	}
	for e := 0; e < 16; e++ {
		if dst[20+e] != l.LightMatrix[e] {
			t.Errorf("light matrix element %d: expected %f, got %f", e, l.LightMatrix[e], dst[20+e])
		}
	}
}

func TestBlockSlotBounds(t *testing.T) {
	// slot bounds checks are independent of the GPU buffer, so a
	// zero-value block with only the staging slice is enough here.
	b := &Block{
		data:   make([]float32, 3*pointStride),
		count:  3,
		stride: pointStride,
	}

	for i := 0; i < 3; i++ {
		s := b.slot(i)
		if len(s) != pointStride {
			t.Errorf("slot %d: expected length %d, got %d", i, pointStride, len(s))
		}
	}

	for _, bad := range []int{-1, 3, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("slot(%d) did not panic", bad)
				}
			}()
			b.slot(bad)
		}()
	}
}

func TestBlockZeroCapacity(t *testing.T) {
	// A stack can legitimately be built with zero lights of a type; the
	// per-frame Upload must then be a no-op rather than touching the GPU.
	b := newBlock(0, pointStride, PointBlockBinding)

	b.Upload()
	b.Destroy()

	defer func() {
		if recover() == nil {
			t.Error("slot(0) on an empty block did not panic")
		}
	}()
	b.slot(0)
}

func TestPackDirectionalOverrunStaysInRecord(t *testing.T) {
	b := &Block{
		data:   make([]float32, 2*directionalStride(1)),
		count:  2,
		stride: directionalStride(1),
	}

	l := NewDirectionalLight(mgl32.Vec3{0, -1, 0}, []float32{25})
	// One matrix too many: the pack must fail at the record boundary
	// instead of spilling into the next record's slot.
	l.LightMatrices = append(l.LightMatrices, mgl32.Ident4())

	defer func() {
		if recover() == nil {
			t.Error("packing an oversized record did not panic")
		}
		for _, f := range b.slot(1) {
			if f != 0 {
				t.Error("overrun wrote into the next record")
				break
			}
		}
	}()
	packDirectional(b.slot(0), l, mgl32.Ident4())
}
