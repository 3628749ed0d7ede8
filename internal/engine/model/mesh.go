// Package model provides GPU mesh wrappers, procedural primitives, and
// the instanced draw batch.
package model

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/helios3d/helios/internal/engine/shadow"
)

// Vertex is the interleaved vertex layout shared by all meshes:
// attribute 0 position, 1 normal, 2 texcoord.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh owns a VAO/VBO/EBO triple for an indexed triangle mesh. It is the
// draw collaborator of the shadow prepasses: depth-only passes bind their
// own program and call Draw.
type Mesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	// CastShadows excludes the mesh from shadow prepasses when false
	// (e.g. the ground plane receives but does not cast).
	CastShadows bool
}

// NewMesh uploads vertices and indices to the GPU.
func NewMesh(vertices []Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		indexCount:  int32(len(indices)),
		CastShadows: true,
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	vertexSize := int(unsafe.Sizeof(Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	return m
}

// Draw issues one indexed draw of the whole mesh.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawMode reports which depth program variant the mesh needs.
func (m *Mesh) DrawMode() shadow.Mode {
	return shadow.NonInstanced
}

// CastsShadows reports whether shadow prepasses should render the mesh.
func (m *Mesh) CastsShadows() bool {
	return m.CastShadows
}

// VAO exposes the vertex array for the instanced batch to attach its
// per-instance attribute buffer.
func (m *Mesh) VAO() uint32 {
	return m.vao
}

// IndexCount returns the number of indices in the mesh.
func (m *Mesh) IndexCount() int32 {
	return m.indexCount
}

// Destroy releases the GPU buffers.
func (m *Mesh) Destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
}
