// Package glbackend implements gpu.Context on OpenGL 4.1 core through go-gl.
// A context must be current on the calling thread.
package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"opengl-lab/internal/gpu"
)

type Context struct{}

var _ gpu.Context = Context{}

// Init loads the GL function pointers for the current context.
func Init() (Context, error) {
	if err := gl.Init(); err != nil {
		return Context{}, errors.Wrap(err, "failed to initialize OpenGL")
	}
	return Context{}, nil
}

// Version returns the driver's GL version string.
func (Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (Context) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (Context) BindBuffer(target, id uint32) { gl.BindBuffer(target, id) }

func (Context) BufferData(target uint32, data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (Context) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (Context) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (Context) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (Context) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (Context) VertexAttribPointer(slot uint32, components int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(slot, components, xtype, normalized, stride, uintptr(offset))
}

func (Context) EnableVertexAttribArray(slot uint32) { gl.EnableVertexAttribArray(slot) }

func (Context) CreateShader(stage uint32) uint32 { return gl.CreateShader(stage) }

func (Context) ShaderSource(id uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
}

func (Context) CompileShader(id uint32) { gl.CompileShader(id) }

func (Context) ShaderStatus(id uint32) (bool, string) {
	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(id, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (Context) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (Context) CreateProgram() uint32 { return gl.CreateProgram() }

func (Context) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (Context) LinkProgram(id uint32) { gl.LinkProgram(id) }

func (Context) ProgramStatus(id uint32) (bool, string) {
	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (Context) UseProgram(id uint32) { gl.UseProgram(id) }

func (Context) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (Context) ActiveUniforms(program uint32) []gpu.Uniform {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if count == 0 {
		return nil
	}
	buf := make([]uint8, maxLen+1)
	out := make([]gpu.Uniform, 0, count)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		out = append(out, gpu.Uniform{
			Name:     name,
			Location: gl.GetUniformLocation(program, gl.Str(name+"\x00")),
			Type:     xtype,
			Size:     size,
		})
	}
	return out
}

func (Context) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (Context) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (Context) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (Context) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }

func (Context) UniformMatrix4fv(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (Context) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (Context) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }

func (Context) BindTexture(target, id uint32) { gl.BindTexture(target, id) }

func (Context) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (Context) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	// rows of RGB and single channel images are not 4-byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, gl.Ptr(pixels))
}

func (Context) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }

func (Context) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (Context) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (Context) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElementsWithOffset(mode, count, xtype, uintptr(offset))
}

func (Context) Enable(capability uint32) { gl.Enable(capability) }

func (Context) Disable(capability uint32) { gl.Disable(capability) }

func (Context) BlendFunc(sfactor, dfactor uint32) { gl.BlendFunc(sfactor, dfactor) }

func (Context) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (Context) Clear(mask uint32) { gl.Clear(mask) }

func (Context) GetError() uint32 { return gl.GetError() }
