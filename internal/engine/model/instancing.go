package model

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/helios3d/helios/internal/engine/shadow"
	"github.com/helios3d/helios/internal/logger"
)

// instanceAttribBase is the first attribute location of the per-instance
// model matrix (a mat4 spans locations 4-7). Must match the instanced
// depth and shading vertex shaders.
const instanceAttribBase = 4

// InstancedMesh draws many copies of one mesh in a single call, each
// with its own model matrix read from a per-instance attribute buffer.
type InstancedMesh struct {
	*Mesh

	instanceVBO   uint32
	instanceCount int
}

// NewInstancedMesh wraps mesh with an instance transform buffer of the
// given capacity.
func NewInstancedMesh(mesh *Mesh, count int) *InstancedMesh {
	im := &InstancedMesh{Mesh: mesh}
	im.CreateInstances(count)
	return im
}

// InstanceCount returns the current instance capacity.
func (im *InstancedMesh) InstanceCount() int {
	return im.instanceCount
}

// CreateInstances allocates a fresh instance transform buffer of
// 16 floats per instance and rebinds the per-instance mat4 attributes.
// The old buffer is only deleted once the new one is in place.
func (im *InstancedMesh) CreateInstances(count int) {
	old := im.instanceVBO

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, count*16*4, nil, gl.DYNAMIC_DRAW)

	gl.BindVertexArray(im.vao)
	// A mat4 attribute is four consecutive vec4 columns, advancing once
	// per instance.
	stride := int32(16 * 4)
	for col := uint32(0); col < 4; col++ {
		loc := uint32(instanceAttribBase) + col
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, stride, uintptr(col*4*4))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	im.instanceVBO = vbo
	im.instanceCount = count

	if old != 0 {
		gl.DeleteBuffers(1, &old)
	}
}

// GridTransforms computes one transform per cell of an nx*ny*nz grid in
// row-major instance order. Cell (i,j,k) gets a translation to its grid
// position composed before the caller-supplied transform.
func GridTransforms(nx, ny, nz int, offset mgl32.Vec3, f func(i, j, k, total int) mgl32.Mat4) []mgl32.Mat4 {
	total := nx * ny * nz
	transforms := make([]mgl32.Mat4, 0, total)

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				translate := mgl32.Translate3D(
					(float32(i)-float32(nx)/2)*offset.X(),
					(float32(j)-float32(ny)/2)*offset.Y(),
					(float32(k)-float32(nz)/2)*offset.Z(),
				)
				transforms = append(transforms, translate.Mul4(f(i, j, k, total)))
			}
		}
	}
	return transforms
}

// ApplyToAllInstances fills the instance buffer from an nx*ny*nz grid of
// transforms. nx*ny*nz must equal the instance capacity; a mismatch is a
// programming error.
func (im *InstancedMesh) ApplyToAllInstances(nx, ny, nz int, offset mgl32.Vec3, f func(i, j, k, total int) mgl32.Mat4) {
	if nx*ny*nz != im.instanceCount {
		panic(fmt.Sprintf("model: grid %dx%dx%d does not match instance count %d",
			nx, ny, nz, im.instanceCount))
	}

	transforms := GridTransforms(nx, ny, nz, offset, f)

	gl.BindBuffer(gl.ARRAY_BUFFER, im.instanceVBO)
	ptr := gl.MapBuffer(gl.ARRAY_BUFFER, gl.WRITE_ONLY)
	if ptr == nil {
		// Instances keep their previous transforms this frame.
		logger.Warn("instance buffer map failed, skipping transform update",
			zap.Int("instances", im.instanceCount))
	} else {
		dst := unsafe.Slice((*float32)(ptr), im.instanceCount*16)
		for i, m := range transforms {
			copy(dst[i*16:(i+1)*16], m[:])
		}
		gl.UnmapBuffer(gl.ARRAY_BUFFER)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw issues one draw covering every instance, so the batch can stand
// in wherever a single mesh can.
func (im *InstancedMesh) Draw() {
	im.DrawInstanced()
}

// DrawMode reports which depth program variant the batch needs.
func (im *InstancedMesh) DrawMode() shadow.Mode {
	return shadow.Instanced
}

// DrawInstanced issues one draw covering every instance.
func (im *InstancedMesh) DrawInstanced() {
	gl.BindVertexArray(im.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, im.indexCount, gl.UNSIGNED_INT, nil, int32(im.instanceCount))
	gl.BindVertexArray(0)
}

// Destroy releases the instance buffer and the underlying mesh.
func (im *InstancedMesh) Destroy() {
	if im.instanceVBO != 0 {
		gl.DeleteBuffers(1, &im.instanceVBO)
		im.instanceVBO = 0
	}
	im.Mesh.Destroy()
}
