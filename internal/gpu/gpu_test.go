package gpu_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opengl-lab/internal/gpu"
	"opengl-lab/internal/gpu/gputest"
)

const vertexSrc = `#version 410 core
layout(location = 0) in vec3 aPos;
uniform mat4 camMatrix;
uniform float scale;
void main() {
	gl_Position = camMatrix * vec4(aPos * scale, 1.0);
}`

const fragmentSrc = `#version 410 core
out vec4 FragColor;
uniform sampler2D tex0;
uniform vec3 lightPos;
uniform vec4 lightColor;
void main() {
	FragColor = lightColor;
}`

func TestCreateReleaseRaisesNoError(t *testing.T) {
	tests := []struct {
		name   string
		create func(ctx gpu.Context) func()
	}{
		{"vertex buffer", func(ctx gpu.Context) func() {
			return gpu.NewVertexBuffer(ctx, []float32{0, 0.5, 0, -0.5, -0.5, 0, 0.5, -0.5, 0}).Release
		}},
		{"index buffer", func(ctx gpu.Context) func() {
			return gpu.NewIndexBuffer(ctx, []uint32{0, 1, 2}).Release
		}},
		{"vertex array", func(ctx gpu.Context) func() {
			return gpu.NewVertexArray(ctx).Release
		}},
		{"program", func(ctx gpu.Context) func() {
			p, err := gpu.NewProgram(ctx, vertexSrc, fragmentSrc)
			require.NoError(t, err)
			return p.Release
		}},
		{"texture", func(ctx gpu.Context) func() {
			img := gpu.Image{Pix: make([]byte, 2*2*4), Width: 2, Height: 2, Channels: 4}
			tex, err := gpu.NewTexture(ctx, img, gpu.KindDiffuse, 0, gpu.RGBA, gpu.UnsignedByte)
			require.NoError(t, err)
			return tex.Release
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := gputest.NewRecorder()
			release := tt.create(rec)
			release()
			assert.Empty(t, rec.Errors())
			assert.Zero(t, rec.Live())
			assert.Equal(t, uint32(gpu.NoError), gpu.CheckError(rec, tt.name))
		})
	}
}

func TestBufferUpload(t *testing.T) {
	rec := gputest.NewRecorder()
	vbo := gpu.NewVertexBuffer(rec, []float32{1, 2, 3})

	assert.Equal(t, 12, vbo.Size())
	assert.Equal(t, uint32(gpu.ArrayBuffer), vbo.Target())
	assert.Equal(t, vbo.ID(), rec.ArrayBuffer)
	assert.Len(t, rec.BufferContents(vbo.ID()), 12)

	vbo.Unbind()
	assert.Zero(t, rec.ArrayBuffer)

	ebo := gpu.NewIndexBuffer(rec, []uint32{0, 2, 1, 0, 3, 2})
	assert.Equal(t, 24, ebo.Size())
	assert.Equal(t, ebo.ID(), rec.ElementBuffer)
}

func TestBindingIsExclusivePerClass(t *testing.T) {
	rec := gputest.NewRecorder()
	a := gpu.NewVertexBuffer(rec, []float32{1})
	b := gpu.NewVertexBuffer(rec, []float32{2})

	a.Bind()
	assert.Equal(t, a.ID(), rec.ArrayBuffer)
	b.Bind()
	assert.Equal(t, b.ID(), rec.ArrayBuffer)
}

func TestReleasedBufferIsIgnored(t *testing.T) {
	rec := gputest.NewRecorder()
	vbo := gpu.NewVertexBuffer(rec, []float32{1})
	vbo.Release()
	calls := len(rec.Calls)

	vbo.Bind()
	vbo.Release()

	assert.Len(t, rec.Calls, calls, "released buffer must not reach the context")
	assert.Empty(t, rec.Errors())
}

func TestReleasedUseLogsOneLine(t *testing.T) {
	var buf bytes.Buffer
	gpu.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { gpu.SetLogger(nil) })

	rec := gputest.NewRecorder()
	vbo := gpu.NewVertexBuffer(rec, []float32{1})
	vbo.Release()
	vbo.Bind()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), "one record, one line: %q", out)
	assert.Contains(t, out, "resource already released")
	assert.NotContains(t, out, ".go:")
}

func TestLinkAttrib(t *testing.T) {
	rec := gputest.NewRecorder()
	vao := gpu.NewVertexArray(rec)
	vao.Bind()
	vbo := gpu.NewVertexBuffer(rec, make([]float32, 4*8))
	ebo := gpu.NewIndexBuffer(rec, []uint32{0, 2, 1, 0, 3, 2})

	stride := int32(8 * 4)
	require.NoError(t, vao.LinkAttrib(vbo, gpu.Attrib{Slot: 0, Components: 3, Type: gpu.Float, Stride: stride, Offset: 0}))
	require.NoError(t, vao.LinkAttrib(vbo, gpu.Attrib{Slot: 2, Components: 2, Type: gpu.Float, Stride: stride, Offset: 6 * 4}))
	require.NoError(t, vao.LinkAttrib(vbo, gpu.Attrib{Slot: 1, Components: 3, Type: gpu.Float, Stride: stride, Offset: 3 * 4}))

	vao.Unbind()
	vbo.Unbind()
	ebo.Unbind()

	assert.Empty(t, rec.Errors())
	assert.Equal(t, []uint32{0, 1, 2}, rec.EnabledAttribs(vao.ID()))
	assert.Equal(t, ebo.ID(), rec.ElementBufferOf(vao.ID()), "element binding survives in the vertex array")
	assert.Len(t, vao.Attribs(), 3)
	assert.Zero(t, rec.ArrayBuffer, "LinkAttrib leaves the vertex buffer unbound")
}

func TestLinkAttribOutOfStride(t *testing.T) {
	rec := gputest.NewRecorder()
	vao := gpu.NewVertexArray(rec)
	vao.Bind()
	vbo := gpu.NewVertexBuffer(rec, make([]float32, 16))

	err := vao.LinkAttrib(vbo, gpu.Attrib{Slot: 1, Components: 3, Type: gpu.Float, Stride: 16, Offset: 8})
	assert.True(t, errors.Is(err, gpu.ErrAttribOutOfStride))
	assert.Empty(t, vao.Attribs())
	assert.Zero(t, rec.Count("VertexAttribPointer"))

	// tightly packed attributes have no stride to escape
	assert.NoError(t, vao.LinkVBO(vbo, 0))
}

func TestProgramUniforms(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := gpu.NewProgram(rec, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count("DeleteShader"), "both stages are deleted after linking")

	p.Use()
	assert.Equal(t, p.ID(), rec.Program)

	assert.True(t, p.SetFloat("scale", 0.5))
	assert.True(t, p.SetInt("tex0", 0))
	assert.True(t, p.SetVec3("lightPos", mgl32.Vec3{0.5, 0.5, 0.5}))
	assert.True(t, p.SetVec4("lightColor", mgl32.Vec4{1, 1, 1, 1}))
	assert.True(t, p.SetMat4("camMatrix", mgl32.Ident4()))
	assert.Empty(t, rec.Errors())

	v, ok := rec.UniformValue(p.ID(), "scale")
	require.True(t, ok)
	assert.Equal(t, float32(0.5), v)

	m, ok := rec.UniformValue(p.ID(), "camMatrix")
	require.True(t, ok)
	assert.Equal(t, [16]float32(mgl32.Ident4()), m)
}

func TestProgramMissingUniform(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := gpu.NewProgram(rec, vertexSrc, fragmentSrc, gpu.WithMissingPolicy(gpu.WarnMissing))
	require.NoError(t, err)
	p.Use()
	calls := len(rec.Calls)

	assert.False(t, p.SetFloat("nope", 1))
	assert.False(t, p.SetFloat("camMatrix", 1), "type mismatch is not uploaded")
	assert.Len(t, rec.Calls, calls, "nothing is written for unknown uniforms")

	_, err = p.Uniform("nope")
	assert.True(t, errors.Is(err, gpu.ErrUnknownUniform))

	u, err := p.Uniform("camMatrix")
	require.NoError(t, err)
	assert.Equal(t, uint32(gpu.FloatMat4), u.Type)
	assert.ElementsMatch(t, []string{"camMatrix", "scale", "tex0", "lightPos", "lightColor"}, p.Uniforms())
}

func TestProgramCompileFailure(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := gpu.NewProgram(rec, vertexSrc, "#error broken")

	require.Error(t, err)
	assert.True(t, errors.Is(err, gpu.ErrCompile))
	assert.Contains(t, err.Error(), "FRAGMENT")
	require.NotNil(t, p, "the handle is kept so callers may continue")
	assert.Empty(t, p.Uniforms())
	assert.False(t, p.SetFloat("scale", 1))
	p.Release()
}

func TestProgramEmptyStageDoesNotLink(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := gpu.NewProgram(rec, vertexSrc, "")
	require.Error(t, err)
	require.NotNil(t, p)

	ok, _ := rec.ProgramStatus(p.ID())
	assert.False(t, ok)
	p.Use()
	assert.Equal(t, []uint32{gputest.InvalidOperation}, rec.Errors(), "an unlinked program cannot be activated")
}

func TestTextureBindAndAssign(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := gpu.NewProgram(rec, vertexSrc, fragmentSrc)
	require.NoError(t, err)

	img := gpu.Image{Pix: make([]byte, 4*4*3), Width: 4, Height: 4, Channels: 3}
	tex, err := gpu.NewTexture(rec, img, gpu.KindSpecular, 3, img.Format(), gpu.UnsignedByte)
	require.NoError(t, err)
	assert.Empty(t, rec.Textures, "texture is unbound after creation")
	assert.Equal(t, 1, rec.Count("GenerateMipmap"))

	assert.True(t, tex.AssignUnit(p, "tex0"))
	v, _ := rec.UniformValue(p.ID(), "tex0")
	assert.Equal(t, int32(3), v)

	tex.Bind()
	assert.Equal(t, uint32(3), rec.ActiveUnit)
	assert.Equal(t, tex.ID(), rec.Textures[3])

	tex.Unbind()
	assert.Empty(t, rec.Textures)
	assert.Empty(t, rec.Errors())
}

func TestTextureEmptyImage(t *testing.T) {
	rec := gputest.NewRecorder()
	tex, err := gpu.NewTexture(rec, gpu.Image{}, gpu.KindDiffuse, 0, gpu.RGBA, gpu.UnsignedByte)

	assert.True(t, errors.Is(err, gpu.ErrEmptyImage))
	require.NotNil(t, tex)
	assert.Zero(t, rec.Count("TexImage2D"))
	tex.Release()
	assert.Empty(t, rec.Errors())
}

func TestTextureOptions(t *testing.T) {
	rec := gputest.NewRecorder()
	img := gpu.Image{Pix: make([]byte, 4), Width: 1, Height: 1, Channels: 4}
	_, err := gpu.NewTexture(rec, img, gpu.KindDiffuse, 0, gpu.RGBA, gpu.UnsignedByte,
		gpu.WithFilter(gpu.Linear, gpu.Linear), gpu.WithWrap(gpu.ClampToEdge, gpu.ClampToEdge), gpu.WithoutMipmaps())
	require.NoError(t, err)

	assert.Zero(t, rec.Count("GenerateMipmap"))
	var params []int32
	for _, c := range rec.Calls {
		if c.Name == "TexParameteri" {
			params = append(params, c.Args[2].(int32))
		}
	}
	assert.Equal(t, []int32{gpu.Linear, gpu.Linear, gpu.ClampToEdge, gpu.ClampToEdge}, params)
}

func TestCheckErrorDrains(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.BindBuffer(gpu.ArrayBuffer, 42)
	rec.DeleteTexture(7)

	assert.Equal(t, uint32(gputest.InvalidValue), gpu.CheckError(rec, "test"))
	assert.Empty(t, rec.Errors())
}
