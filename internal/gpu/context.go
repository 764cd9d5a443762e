package gpu

// Context is the rendering context every resource talks to. Binding state
// (array buffer, element buffer, vertex array, program, texture units) lives
// behind it, so a fake can stand in for a real GL context in tests.
type Context interface {
	GenBuffer() uint32
	BindBuffer(target, id uint32)
	BufferData(target uint32, data []byte, usage uint32)
	DeleteBuffer(id uint32)

	GenVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	VertexAttribPointer(slot uint32, components int32, xtype uint32, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(slot uint32)

	CreateShader(stage uint32) uint32
	ShaderSource(id uint32, source string)
	CompileShader(id uint32)
	// ShaderStatus reports the compile status and the info log.
	ShaderStatus(id uint32) (bool, string)
	DeleteShader(id uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(id uint32)
	// ProgramStatus reports the link status and the info log.
	ProgramStatus(id uint32) (bool, string)
	UseProgram(id uint32)
	DeleteProgram(id uint32)
	ActiveUniforms(program uint32) []Uniform

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4fv(location int32, m [16]float32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, id uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	GenerateMipmap(target uint32)
	DeleteTexture(id uint32)

	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)

	Enable(capability uint32)
	Disable(capability uint32)
	BlendFunc(sfactor, dfactor uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	GetError() uint32
}

// Uniform is one active uniform of a linked program.
type Uniform struct {
	Name     string
	Location int32
	Type     uint32
	Size     int32
}

// OpenGL enum values used by this package. They match the go-gl constants
// so the backend can pass them through unchanged.
const (
	NoError = 0

	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	Byte          = 0x1400
	UnsignedByte  = 0x1401
	Short         = 0x1402
	UnsignedShort = 0x1403
	Int           = 0x1404
	UnsignedInt   = 0x1405
	Float         = 0x1406

	FloatVec2 = 0x8B50
	FloatVec3 = 0x8B51
	FloatVec4 = 0x8B52
	IntVec2   = 0x8B53
	Bool      = 0x8B56
	FloatMat3 = 0x8B5B
	FloatMat4 = 0x8B5C
	Sampler2D = 0x8B5E

	VertexShader   = 0x8B31
	FragmentShader = 0x8B30

	Texture2D        = 0x0DE1
	Texture0         = 0x84C0
	TextureMinFilter = 0x2801
	TextureMagFilter = 0x2800
	TextureWrapS     = 0x2802
	TextureWrapT     = 0x2803
	Nearest          = 0x2600
	Linear           = 0x2601
	Repeat           = 0x2901
	MirroredRepeat   = 0x8370
	ClampToEdge      = 0x812F

	Red  = 0x1903
	RGB  = 0x1907
	RGBA = 0x1908

	Triangles = 0x0004
	Lines     = 0x0001

	DepthTest        = 0x0B71
	CullFace         = 0x0B44
	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303
	ColorBufferBit   = 0x00004000
	DepthBufferBit   = 0x00000100
)

// SizeOf returns the byte size of one component of the given GL type.
func SizeOf(xtype uint32) int {
	switch xtype {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	}
	return 0
}

// CheckError drains the GL error queue and logs every pending error under label.
// It returns the first error seen, or NoError.
func CheckError(ctx Context, label string) uint32 {
	first := uint32(NoError)
	// a lost context can report errors forever
	for range 32 {
		code := ctx.GetError()
		if code == NoError {
			break
		}
		if first == NoError {
			first = code
		}
		logger().Error("gl error", "label", label, "code", glCode(code))
	}
	return first
}
