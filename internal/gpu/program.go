package gpu

import (
	"io/fs"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// MissingPolicy decides what happens when a Set call names a uniform the
// linked program does not have. The upload is skipped either way.
type MissingPolicy int

const (
	// IgnoreMissing skips unknown uniforms silently.
	IgnoreMissing MissingPolicy = iota
	// WarnMissing logs the first upload to each unknown uniform.
	WarnMissing
)

// ProgramOption configures a Program at creation.
type ProgramOption func(*Program)

// WithMissingPolicy sets the unknown-uniform policy.
func WithMissingPolicy(p MissingPolicy) ProgramOption {
	return func(pr *Program) { pr.policy = p }
}

// Program is a linked vertex+fragment shader program. Uniform locations are
// resolved once after linking.
type Program struct {
	ctx      Context
	id       uint32
	uniforms map[string]Uniform
	policy   MissingPolicy
	warned   map[string]bool
}

// LoadProgram reads both stage sources from fsys and builds a program.
func LoadProgram(ctx Context, fsys fs.FS, vertexPath, fragmentPath string, opts ...ProgramOption) (*Program, error) {
	vertexSource, err := fs.ReadFile(fsys, vertexPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not read vertex shader file")
	}
	fragmentSource, err := fs.ReadFile(fsys, fragmentPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not read fragment shader file")
	}
	return NewProgram(ctx, string(vertexSource), string(fragmentSource), opts...)
}

// NewProgram compiles and links the two stages. On a compile or link failure
// the failure is logged and the returned error wraps ErrCompile or ErrLink,
// but the Program is still returned so callers may carry on with an unusable
// handle.
func NewProgram(ctx Context, vertexSrc, fragmentSrc string, opts ...ProgramOption) (*Program, error) {
	p := &Program{
		ctx:      ctx,
		uniforms: make(map[string]Uniform),
		warned:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}

	vertexShader, vErr := compileShader(ctx, vertexSrc, VertexShader, "VERTEX")
	fragmentShader, fErr := compileShader(ctx, fragmentSrc, FragmentShader, "FRAGMENT")

	p.id = ctx.CreateProgram()
	ctx.AttachShader(p.id, vertexShader)
	ctx.AttachShader(p.id, fragmentShader)
	ctx.LinkProgram(p.id)

	// stages are owned by the program now
	ctx.DeleteShader(vertexShader)
	ctx.DeleteShader(fragmentShader)

	if vErr != nil {
		return p, vErr
	}
	if fErr != nil {
		return p, fErr
	}
	if ok, info := ctx.ProgramStatus(p.id); !ok {
		logger().Error("shader linking error", "stage", "PROGRAM", "log", info)
		return p, errors.Wrapf(ErrLink, "PROGRAM: %s", info)
	}

	for _, u := range ctx.ActiveUniforms(p.id) {
		name := strings.TrimSuffix(u.Name, "[0]")
		u.Name = name
		p.uniforms[name] = u
	}
	return p, nil
}

func compileShader(ctx Context, source string, stage uint32, label string) (uint32, error) {
	shader := ctx.CreateShader(stage)
	ctx.ShaderSource(shader, source)
	ctx.CompileShader(shader)
	if ok, info := ctx.ShaderStatus(shader); !ok {
		logger().Error("shader compilation error", "stage", label, "log", info)
		return shader, errors.Wrapf(ErrCompile, "%s: %s", label, info)
	}
	return shader, nil
}

func (p *Program) ID() uint32 { return p.id }

// Use makes p the active program. Uploads only take effect on the active program.
func (p *Program) Use() {
	if p.id == 0 {
		released("program")
		return
	}
	p.ctx.UseProgram(p.id)
}

// Unuse clears the active program.
func (p *Program) Unuse() {
	p.ctx.UseProgram(0)
}

// Release deletes the program.
func (p *Program) Release() {
	if p.id == 0 {
		released("program")
		return
	}
	p.ctx.DeleteProgram(p.id)
	p.id = 0
}

// Uniform returns the resolved uniform for name.
func (p *Program) Uniform(name string) (Uniform, error) {
	u, ok := p.uniforms[name]
	if !ok {
		return Uniform{}, errors.Wrapf(ErrUnknownUniform, "%q", name)
	}
	return u, nil
}

// Uniforms returns the names of all resolved uniforms.
func (p *Program) Uniforms() []string {
	names := make([]string, 0, len(p.uniforms))
	for name := range p.uniforms {
		names = append(names, name)
	}
	return names
}

func (p *Program) lookup(name string, types ...uint32) (int32, bool) {
	u, ok := p.uniforms[name]
	if !ok {
		p.missing(name, "not found")
		return 0, false
	}
	for _, t := range types {
		if u.Type == t {
			return u.Location, true
		}
	}
	p.missing(name, "type mismatch")
	return 0, false
}

func (p *Program) missing(name, reason string) {
	if p.policy != WarnMissing || p.warned[name] {
		return
	}
	p.warned[name] = true
	logger().Warn("uniform upload skipped", "program", p.id, "uniform", name, "reason", reason)
}

// SetBool sets a boolean uniform.
func (p *Program) SetBool(name string, value bool) bool {
	var v int32
	if value {
		v = 1
	}
	return p.SetInt(name, v)
}

// SetInt sets an integer, boolean or sampler uniform.
func (p *Program) SetInt(name string, value int32) bool {
	loc, ok := p.lookup(name, Int, Bool, Sampler2D)
	if ok {
		p.ctx.Uniform1i(loc, value)
	}
	return ok
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, value float32) bool {
	loc, ok := p.lookup(name, Float)
	if ok {
		p.ctx.Uniform1f(loc, value)
	}
	return ok
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) bool {
	loc, ok := p.lookup(name, FloatVec3)
	if ok {
		p.ctx.Uniform3f(loc, v[0], v[1], v[2])
	}
	return ok
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v mgl32.Vec4) bool {
	loc, ok := p.lookup(name, FloatVec4)
	if ok {
		p.ctx.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
	return ok
}

// SetMat4 sets a 4x4 matrix uniform (column major, not transposed).
func (p *Program) SetMat4(name string, m mgl32.Mat4) bool {
	loc, ok := p.lookup(name, FloatMat4)
	if ok {
		p.ctx.UniformMatrix4fv(loc, m)
	}
	return ok
}
