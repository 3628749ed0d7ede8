package lighting

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform block binding points. These are a contract with the shading
// shader and must not be renumbered independently.
const (
	DirectionalBlockBinding = 1
	PointBlockBinding       = 2
	SpotBlockBinding        = 3
)

// Record strides in floats, matching the std140 layout of the shading
// shader's light arrays. Vector fields occupy 16-byte slots.
const (
	pointStride = 20 // color, worldPos, viewPos, attenuation+intensity, near/far
	spotStride  = 36 // color, viewDir, viewPos, cutoffs+attenuation, intensity, matrix
)

// directionalStride returns the per-record float count for a directional
// light with the given number of cascade splits: three padded vectors,
// one 16-byte slot per split distance, and N+1 matrices.
func directionalStride(splits int) int {
	return 12 + 4*splits + 16*(splits+1)
}

// Block is a fixed-capacity GPU uniform buffer mirroring one light array.
// Records are staged CPU-side and uploaded in a single BufferSubData call
// per prepass. Capacity is immutable after construction.
type Block struct {
	ubo     uint32
	data    []float32
	count   int
	stride  int
	binding uint32
}

// newBlock allocates the GPU buffer and binds it to its binding point.
func newBlock(count, stride int, binding uint32) *Block {
	b := &Block{
		data:    make([]float32, count*stride),
		count:   count,
		stride:  stride,
		binding: binding,
	}

	// A zero-capacity block has nothing to allocate or bind; its Upload
	// is a no-op.
	if len(b.data) == 0 {
		return b
	}

	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, len(b.data)*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	return b
}

// slot returns the staging region for record i. An out-of-range index is
// a programming error.
func (b *Block) slot(i int) []float32 {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("lighting: block index %d out of range (capacity %d)", i, b.count))
	}
	// Full slice expression so a record overrun fails loudly instead of
	// writing into the next record's slot.
	lo, hi := i*b.stride, (i+1)*b.stride
	return b.data[lo:hi:hi]
}

// Upload sends the whole staging buffer to the GPU in one call.
func (b *Block) Upload() {
	if len(b.data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(b.data)*4, gl.Ptr(b.data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Destroy releases the GPU buffer.
func (b *Block) Destroy() {
	if b.ubo != 0 {
		gl.DeleteBuffers(1, &b.ubo)
		b.ubo = 0
	}
}

func writeVec3(dst []float32, off int, v mgl32.Vec3) {
	dst[off+0] = v.X()
	dst[off+1] = v.Y()
	dst[off+2] = v.Z()
	dst[off+3] = 0
}

func writeMat4(dst []float32, off int, m mgl32.Mat4) {
	copy(dst[off:off+16], m[:])
}

// packDirectional writes one directional light record. The direction is
// transformed into camera view space; cascade split distances each occupy
// a full 16-byte slot per std140 array rules.
func packDirectional(dst []float32, l *DirectionalLight, view mgl32.Mat4) {
	viewDir := view.Mat3().Mul3x1(l.Direction)

	writeVec3(dst, 0, l.Color)
	writeVec3(dst, 4, viewDir)
	dst[8] = l.Intensity
	dst[9] = l.FarPlane
	dst[10] = 0
	dst[11] = 0

	off := 12
	for _, r := range l.CascadeRanges {
		dst[off] = r
		dst[off+1] = 0
		dst[off+2] = 0
		dst[off+3] = 0
		off += 4
	}
	for _, m := range l.LightMatrices {
		writeMat4(dst, off, m)
		off += 16
	}
}

// packPoint writes one point light record.
func packPoint(dst []float32, l *PointLight) {
	writeVec3(dst, 0, l.Color)
	writeVec3(dst, 4, l.Position)
	writeVec3(dst, 8, l.ViewPosition)
	dst[12] = l.Constant
	dst[13] = l.Linear
	dst[14] = l.Quadratic
	dst[15] = l.Intensity
	dst[16] = l.Near
	dst[17] = l.Far
	dst[18] = 0
	dst[19] = 0
}

// packSpot writes one spot light record. Direction and position are
// transformed into camera view space.
func packSpot(dst []float32, l *SpotLight, view mgl32.Mat4) {
	viewDir := view.Mat3().Mul3x1(l.Direction)
	viewPos := view.Mul4x1(l.Position.Vec4(1)).Vec3()

	writeVec3(dst, 0, l.Color)
	writeVec3(dst, 4, viewDir)
	writeVec3(dst, 8, viewPos)
	dst[12] = l.InnerCutoff
	dst[13] = l.OuterCutoff
	dst[14] = l.Constant
	dst[15] = l.Linear
	dst[16] = l.Quadratic
	dst[17] = l.Intensity
	dst[18] = 0
	dst[19] = 0
	writeMat4(dst, 20, l.LightMatrix)
}
