package gpu

import (
	"encoding/binary"
	"math"
)

// Buffer owns a GPU array of vertex or index data. Geometry buffers are
// written once at creation; streaming buffers are refilled with Update.
type Buffer struct {
	ctx    Context
	id     uint32
	target uint32
	size   int
}

// NewBuffer uploads data into a new buffer bound to target (ArrayBuffer or
// ElementArrayBuffer). The buffer is left bound.
func NewBuffer(ctx Context, target uint32, data []byte) *Buffer {
	b := &Buffer{ctx: ctx, target: target, size: len(data)}
	b.id = ctx.GenBuffer()
	ctx.BindBuffer(target, b.id)
	ctx.BufferData(target, data, StaticDraw)
	return b
}

// NewVertexBuffer creates an array buffer holding vertices.
func NewVertexBuffer(ctx Context, vertices []float32) *Buffer {
	return NewBuffer(ctx, ArrayBuffer, float32Bytes(vertices))
}

// NewIndexBuffer creates an element buffer holding indices.
func NewIndexBuffer(ctx Context, indices []uint32) *Buffer {
	return NewBuffer(ctx, ElementArrayBuffer, uint32Bytes(indices))
}

func (b *Buffer) ID() uint32     { return b.id }
func (b *Buffer) Target() uint32 { return b.target }

// Update replaces the whole contents with data, hinting the driver that the
// buffer is rewritten often. The buffer is left bound.
func (b *Buffer) Update(data []byte) {
	if b.id == 0 {
		released("buffer")
		return
	}
	b.ctx.BindBuffer(b.target, b.id)
	b.ctx.BufferData(b.target, data, DynamicDraw)
	b.size = len(data)
}

// UpdateVertices is Update for float vertex data.
func (b *Buffer) UpdateVertices(vertices []float32) {
	b.Update(float32Bytes(vertices))
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return b.size }

func (b *Buffer) Bind() {
	if b.id == 0 {
		released("buffer")
		return
	}
	b.ctx.BindBuffer(b.target, b.id)
}

// Unbind clears the binding for the buffer's target.
func (b *Buffer) Unbind() {
	b.ctx.BindBuffer(b.target, 0)
}

// Release deletes the GPU buffer. Further use is logged and ignored.
func (b *Buffer) Release() {
	if b.id == 0 {
		released("buffer")
		return
	}
	b.ctx.DeleteBuffer(b.id)
	b.id = 0
}

// GL wants native byte order; every platform go-gl supports is little endian.
func float32Bytes(v []float32) []byte {
	out := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func uint32Bytes(v []uint32) []byte {
	out := make([]byte, len(v)*4)
	for i, u := range v {
		binary.LittleEndian.PutUint32(out[i*4:], u)
	}
	return out
}
