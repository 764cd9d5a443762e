package gpu

import "github.com/pkg/errors"

// Attrib describes how one shader input slot reads from a vertex buffer.
type Attrib struct {
	Slot       uint32
	Components int32
	Type       uint32
	Stride     int32 // bytes, 0 = tightly packed
	Offset     int   // bytes
}

// VertexArray holds the interpretation rules for one or more buffers. It owns
// no vertex data.
type VertexArray struct {
	ctx     Context
	id      uint32
	attribs []Attrib
}

// NewVertexArray generates a vertex array. It must exist before the buffers
// it describes are linked.
func NewVertexArray(ctx Context) *VertexArray {
	return &VertexArray{ctx: ctx, id: ctx.GenVertexArray()}
}

func (va *VertexArray) ID() uint32 { return va.id }

// Attribs returns the descriptors registered so far.
func (va *VertexArray) Attribs() []Attrib {
	out := make([]Attrib, len(va.attribs))
	copy(out, va.attribs)
	return out
}

func (va *VertexArray) Bind() {
	if va.id == 0 {
		released("vertex array")
		return
	}
	va.ctx.BindVertexArray(va.id)
}

func (va *VertexArray) Unbind() {
	va.ctx.BindVertexArray(0)
}

// LinkVBO links buf to slot as three tightly packed floats.
func (va *VertexArray) LinkVBO(buf *Buffer, slot uint32) error {
	return va.LinkAttrib(buf, Attrib{Slot: slot, Components: 3, Type: Float})
}

// LinkAttrib registers one attribute against buf. The vertex array must be
// bound. buf is bound for the call and unbound afterwards. Slots are
// independent, so call order does not matter.
func (va *VertexArray) LinkAttrib(buf *Buffer, a Attrib) error {
	if va.id == 0 {
		released("vertex array")
		return ErrReleased
	}
	width := int(a.Components) * SizeOf(a.Type)
	if a.Offset < 0 || (a.Stride > 0 && a.Offset+width > int(a.Stride)) {
		return errors.Wrapf(ErrAttribOutOfStride, "slot %d: offset %d + %d bytes > stride %d",
			a.Slot, a.Offset, width, a.Stride)
	}

	buf.Bind()
	va.ctx.VertexAttribPointer(a.Slot, a.Components, a.Type, false, a.Stride, a.Offset)
	va.ctx.EnableVertexAttribArray(a.Slot)
	buf.Unbind()

	va.attribs = append(va.attribs, a)
	return nil
}

// Release deletes the vertex array. Buffers are not touched.
func (va *VertexArray) Release() {
	if va.id == 0 {
		released("vertex array")
		return
	}
	va.ctx.DeleteVertexArray(va.id)
	va.id = 0
}
