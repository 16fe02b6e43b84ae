// Package instancing uploads instance transforms to OpenGL and draws a
// mesh once per transform.
package instancing

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/hexfractal/internal/batch"
	"github.com/Faultbox/hexfractal/internal/engine/primitive"
	"github.com/Faultbox/hexfractal/pkg/math"
)

// Attribute locations used by the instanced shader.
const (
	attribPosition = 0
	attribNormal   = 1
	attribModel    = 2 // mat4 occupies 2..5
)

const mat4Size = 16 * 4

// Buffer is a VBO of column-major mat4 transforms.
type Buffer struct {
	Kind  batch.Kind
	vbo   uint32
	count int
}

// Len returns the instance count.
func (b *Buffer) Len() int {
	return b.count
}

// Release deletes the VBO.
func (b *Buffer) Release() error {
	if b.vbo == 0 {
		return nil
	}
	gl.DeleteBuffers(1, &b.vbo)
	b.vbo = 0
	b.count = 0
	return nil
}

// Allocator uploads transform lists into new VBOs. It must be used on the
// thread owning the GL context.
type Allocator struct {
	// MaxBytes caps a single upload; zero means no limit.
	MaxBytes int
}

// Allocate implements batch.Allocator.
func (a Allocator) Allocate(kind batch.Kind, transforms []math.Mat4) (*Buffer, error) {
	size := len(transforms) * mat4Size
	if a.MaxBytes > 0 && size > a.MaxBytes {
		return nil, fmt.Errorf("%s: %d bytes over %d: %w", kind, size, a.MaxBytes, batch.ErrTooManyInstances)
	}

	b := &Buffer{Kind: kind, count: len(transforms)}
	gl.GenBuffers(1, &b.vbo)
	if b.vbo == 0 {
		return nil, errors.New("glGenBuffers returned no buffer")
	}

	// Drain stale errors so the check below reflects this upload.
	for i := 0; i < 16 && gl.GetError() != gl.NO_ERROR; i++ {
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if size > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&transforms[0]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		_ = b.Release()
		return nil, fmt.Errorf("%s: upload of %d bytes failed: GL error 0x%x", kind, size, code)
	}
	return b, nil
}

// Mesh is a GPU copy of a primitive mesh that can be drawn instanced.
type Mesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// NewMesh uploads m.
func NewMesh(m *primitive.Mesh) *Mesh {
	g := &Mesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	const stride = primitive.VertexStride * 4
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(attribNormal)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	for col := uint32(0); col < 4; col++ {
		loc := attribModel + col
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	return g
}

// Draw renders the mesh once per transform in instances.
func (g *Mesh) Draw(instances *Buffer) {
	if instances == nil || instances.count == 0 {
		return
	}

	gl.BindVertexArray(g.vao)

	// The instance VBO is replaced on every rebuild, so the mat4 columns
	// are re-pointed before each draw.
	gl.BindBuffer(gl.ARRAY_BUFFER, instances.vbo)
	for col := uint32(0); col < 4; col++ {
		gl.VertexAttribPointerWithOffset(attribModel+col, 4, gl.FLOAT, false, mat4Size, uintptr(col*16))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.DrawElementsInstanced(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil, int32(instances.count))
	gl.BindVertexArray(0)
}

// Delete releases the GPU buffers.
func (g *Mesh) Delete() {
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
}
