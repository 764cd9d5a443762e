// Package gputest provides a recording gpu.Context for tests.
package gputest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"opengl-lab/internal/gpu"
)

// GL error codes raised by the recorder.
const (
	InvalidValue     = 0x0501
	InvalidOperation = 0x0502
)

// Call is one recorded context call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

type shader struct {
	stage    uint32
	source   string
	compiled bool
}

type program struct {
	shaders  []uint32
	linked   bool
	uniforms []gpu.Uniform
	values   map[int32]any
}

// Recorder implements gpu.Context in memory. It tracks handles and binding
// state, raises GL-style errors on misuse, and parses uniform declarations
// out of attached shader sources so programs expose realistic uniform tables.
type Recorder struct {
	Calls []Call

	ArrayBuffer   uint32
	ElementBuffer uint32
	VertexArray   uint32
	Program       uint32
	ActiveUnit    uint32
	Textures      map[uint32]uint32 // unit -> texture
	Enabled       map[uint32]bool

	next     uint32
	buffers  map[uint32][]byte
	arrays   map[uint32]bool
	elements map[uint32]uint32          // vertex array -> element buffer
	attribs  map[uint32]map[uint32]bool // vertex array -> enabled slots
	textures map[uint32]bool
	shaders  map[uint32]*shader
	programs map[uint32]*program
	errors   []uint32
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Textures: make(map[uint32]uint32),
		Enabled:  make(map[uint32]bool),
		elements: make(map[uint32]uint32),
		attribs:  make(map[uint32]map[uint32]bool),
		buffers:  make(map[uint32][]byte),
		arrays:   make(map[uint32]bool),
		textures: make(map[uint32]bool),
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
	}
}

var _ gpu.Context = (*Recorder)(nil)

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) fail(code uint32) {
	r.errors = append(r.errors, code)
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// Names returns the names of all recorded calls in order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Name
	}
	return out
}

// Count returns how many times the named call was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Errors returns pending GL errors without draining them.
func (r *Recorder) Errors() []uint32 {
	return append([]uint32(nil), r.errors...)
}

// Live reports the number of buffers, vertex arrays, textures, shaders and
// programs that have not been deleted.
func (r *Recorder) Live() int {
	return len(r.buffers) + len(r.arrays) + len(r.textures) + len(r.shaders) + len(r.programs)
}

// BufferContents returns the bytes last uploaded to buffer id.
func (r *Recorder) BufferContents(id uint32) []byte {
	return r.buffers[id]
}

// UniformValue returns the value last written to the named uniform of program.
func (r *Recorder) UniformValue(prog uint32, name string) (any, bool) {
	p, ok := r.programs[prog]
	if !ok {
		return nil, false
	}
	for _, u := range p.uniforms {
		if strings.TrimSuffix(u.Name, "[0]") == name {
			v, ok := p.values[u.Location]
			return v, ok
		}
	}
	return nil, false
}

func (r *Recorder) GenBuffer() uint32 {
	id := r.handle()
	r.buffers[id] = nil
	r.record("GenBuffer", id)
	return id
}

func (r *Recorder) BindBuffer(target, id uint32) {
	r.record("BindBuffer", target, id)
	if _, ok := r.buffers[id]; id != 0 && !ok {
		r.fail(InvalidValue)
		return
	}
	switch target {
	case gpu.ArrayBuffer:
		r.ArrayBuffer = id
	case gpu.ElementArrayBuffer:
		// element bindings are vertex array state
		r.elements[r.VertexArray] = id
		r.ElementBuffer = id
	default:
		r.fail(InvalidValue)
	}
}

func (r *Recorder) BufferData(target uint32, data []byte, usage uint32) {
	r.record("BufferData", target, len(data), usage)
	bound := r.ArrayBuffer
	if target == gpu.ElementArrayBuffer {
		bound = r.ElementBuffer
	}
	if bound == 0 {
		r.fail(InvalidOperation)
		return
	}
	r.buffers[bound] = append([]byte(nil), data...)
}

func (r *Recorder) DeleteBuffer(id uint32) {
	r.record("DeleteBuffer", id)
	if _, ok := r.buffers[id]; !ok {
		r.fail(InvalidValue)
		return
	}
	delete(r.buffers, id)
	if r.ArrayBuffer == id {
		r.ArrayBuffer = 0
	}
	if r.ElementBuffer == id {
		r.ElementBuffer = 0
	}
	for vao, ebo := range r.elements {
		if ebo == id {
			delete(r.elements, vao)
		}
	}
}

func (r *Recorder) GenVertexArray() uint32 {
	id := r.handle()
	r.arrays[id] = true
	r.record("GenVertexArray", id)
	return id
}

func (r *Recorder) BindVertexArray(id uint32) {
	r.record("BindVertexArray", id)
	if id != 0 && !r.arrays[id] {
		r.fail(InvalidOperation)
		return
	}
	r.VertexArray = id
	r.ElementBuffer = r.elements[id]
}

func (r *Recorder) DeleteVertexArray(id uint32) {
	r.record("DeleteVertexArray", id)
	if !r.arrays[id] {
		r.fail(InvalidValue)
		return
	}
	delete(r.arrays, id)
	delete(r.elements, id)
	delete(r.attribs, id)
	if r.VertexArray == id {
		r.VertexArray = 0
		r.ElementBuffer = r.elements[0]
	}
}

// EnabledAttribs returns the enabled attribute slots of vertex array vao, sorted.
func (r *Recorder) EnabledAttribs(vao uint32) []uint32 {
	var out []uint32
	for slot := range r.attribs[vao] {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ElementBufferOf returns the element buffer recorded in vertex array vao.
func (r *Recorder) ElementBufferOf(vao uint32) uint32 {
	return r.elements[vao]
}

func (r *Recorder) VertexAttribPointer(slot uint32, components int32, xtype uint32, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", slot, components, xtype, normalized, stride, offset)
	if r.VertexArray == 0 || r.ArrayBuffer == 0 {
		r.fail(InvalidOperation)
	}
}

func (r *Recorder) EnableVertexAttribArray(slot uint32) {
	r.record("EnableVertexAttribArray", slot)
	if r.VertexArray == 0 {
		r.fail(InvalidOperation)
		return
	}
	if r.attribs[r.VertexArray] == nil {
		r.attribs[r.VertexArray] = make(map[uint32]bool)
	}
	r.attribs[r.VertexArray][slot] = true
}

func (r *Recorder) CreateShader(stage uint32) uint32 {
	id := r.handle()
	r.shaders[id] = &shader{stage: stage}
	r.record("CreateShader", stage, id)
	return id
}

func (r *Recorder) ShaderSource(id uint32, source string) {
	r.record("ShaderSource", id)
	if s, ok := r.shaders[id]; ok {
		s.source = source
	} else {
		r.fail(InvalidValue)
	}
}

// CompileShader fails for empty sources and sources containing "#error".
func (r *Recorder) CompileShader(id uint32) {
	r.record("CompileShader", id)
	s, ok := r.shaders[id]
	if !ok {
		r.fail(InvalidValue)
		return
	}
	s.compiled = strings.TrimSpace(s.source) != "" && !strings.Contains(s.source, "#error")
}

func (r *Recorder) ShaderStatus(id uint32) (bool, string) {
	s, ok := r.shaders[id]
	if !ok {
		return false, "no such shader"
	}
	if !s.compiled {
		return false, fmt.Sprintf("0:1: compile error in shader %d", id)
	}
	return true, ""
}

func (r *Recorder) DeleteShader(id uint32) {
	r.record("DeleteShader", id)
	if _, ok := r.shaders[id]; !ok {
		r.fail(InvalidValue)
		return
	}
	delete(r.shaders, id)
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.handle()
	r.programs[id] = &program{values: make(map[int32]any)}
	r.record("CreateProgram", id)
	return id
}

func (r *Recorder) AttachShader(prog, sh uint32) {
	r.record("AttachShader", prog, sh)
	p, ok := r.programs[prog]
	if _, known := r.shaders[sh]; !ok || !known {
		r.fail(InvalidValue)
		return
	}
	p.shaders = append(p.shaders, sh)
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*(\[\s*\d+\s*\])?\s*;`)

var uniformTypes = map[string]uint32{
	"float":     gpu.Float,
	"int":       gpu.Int,
	"bool":      gpu.Bool,
	"vec2":      gpu.FloatVec2,
	"vec3":      gpu.FloatVec3,
	"vec4":      gpu.FloatVec4,
	"mat3":      gpu.FloatMat3,
	"mat4":      gpu.FloatMat4,
	"sampler2D": gpu.Sampler2D,
}

// LinkProgram succeeds when a vertex and a fragment stage are attached and
// both compiled. Uniforms declared in either stage become active, sorted by
// name, with locations assigned in that order.
func (r *Recorder) LinkProgram(id uint32) {
	r.record("LinkProgram", id)
	p, ok := r.programs[id]
	if !ok {
		r.fail(InvalidValue)
		return
	}
	stages := map[uint32]bool{}
	seen := map[string]gpu.Uniform{}
	p.linked = true
	for _, sid := range p.shaders {
		s := r.shaders[sid]
		if s == nil || !s.compiled {
			p.linked = false
			continue
		}
		stages[s.stage] = true
		for _, m := range uniformDecl.FindAllStringSubmatch(s.source, -1) {
			name := m[2]
			if m[3] != "" {
				name += "[0]"
			}
			seen[name] = gpu.Uniform{Name: name, Type: uniformTypes[m[1]], Size: 1}
		}
	}
	if !stages[gpu.VertexShader] || !stages[gpu.FragmentShader] {
		p.linked = false
	}
	p.uniforms = nil
	if !p.linked {
		return
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		u := seen[name]
		u.Location = int32(i)
		p.uniforms = append(p.uniforms, u)
	}
}

func (r *Recorder) ProgramStatus(id uint32) (bool, string) {
	p, ok := r.programs[id]
	if !ok {
		return false, "no such program"
	}
	if !p.linked {
		return false, "link error: missing or failed stage"
	}
	return true, ""
}

func (r *Recorder) UseProgram(id uint32) {
	r.record("UseProgram", id)
	if id != 0 {
		if p, ok := r.programs[id]; !ok || !p.linked {
			r.fail(InvalidOperation)
			return
		}
	}
	r.Program = id
}

func (r *Recorder) DeleteProgram(id uint32) {
	r.record("DeleteProgram", id)
	if _, ok := r.programs[id]; !ok {
		r.fail(InvalidValue)
		return
	}
	delete(r.programs, id)
	if r.Program == id {
		r.Program = 0
	}
}

func (r *Recorder) ActiveUniforms(id uint32) []gpu.Uniform {
	p, ok := r.programs[id]
	if !ok {
		return nil
	}
	return append([]gpu.Uniform(nil), p.uniforms...)
}

func (r *Recorder) setUniform(name string, location int32, v any) {
	r.record(name, location, v)
	p, ok := r.programs[r.Program]
	if !ok {
		r.fail(InvalidOperation)
		return
	}
	if location < 0 || int(location) >= len(p.uniforms) {
		r.fail(InvalidOperation)
		return
	}
	p.values[location] = v
}

func (r *Recorder) Uniform1i(location int32, v int32) { r.setUniform("Uniform1i", location, v) }

func (r *Recorder) Uniform1f(location int32, v float32) { r.setUniform("Uniform1f", location, v) }

func (r *Recorder) Uniform3f(location int32, x, y, z float32) {
	r.setUniform("Uniform3f", location, [3]float32{x, y, z})
}

func (r *Recorder) Uniform4f(location int32, x, y, z, w float32) {
	r.setUniform("Uniform4f", location, [4]float32{x, y, z, w})
}

func (r *Recorder) UniformMatrix4fv(location int32, m [16]float32) {
	r.setUniform("UniformMatrix4fv", location, m)
}

func (r *Recorder) GenTexture() uint32 {
	id := r.handle()
	r.textures[id] = true
	r.record("GenTexture", id)
	return id
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record("ActiveTexture", unit)
	if unit < gpu.Texture0 || unit >= gpu.Texture0+32 {
		r.fail(InvalidValue)
		return
	}
	r.ActiveUnit = unit - gpu.Texture0
}

func (r *Recorder) BindTexture(target, id uint32) {
	r.record("BindTexture", target, id)
	if id != 0 && !r.textures[id] {
		r.fail(InvalidValue)
		return
	}
	if id == 0 {
		delete(r.Textures, r.ActiveUnit)
		return
	}
	r.Textures[r.ActiveUnit] = id
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	r.record("TexImage2D", target, level, internalFormat, width, height, format, xtype, len(pixels))
	if r.Textures[r.ActiveUnit] == 0 {
		r.fail(InvalidOperation)
	}
}

func (r *Recorder) GenerateMipmap(target uint32) {
	r.record("GenerateMipmap", target)
	if r.Textures[r.ActiveUnit] == 0 {
		r.fail(InvalidOperation)
	}
}

func (r *Recorder) DeleteTexture(id uint32) {
	r.record("DeleteTexture", id)
	if !r.textures[id] {
		r.fail(InvalidValue)
		return
	}
	delete(r.textures, id)
	for unit, bound := range r.Textures {
		if bound == id {
			delete(r.Textures, unit)
		}
	}
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.record("DrawArrays", mode, first, count)
	if r.Program == 0 || r.VertexArray == 0 {
		r.fail(InvalidOperation)
	}
}

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	r.record("DrawElements", mode, count, xtype, offset)
	if r.Program == 0 || r.VertexArray == 0 || r.ElementBuffer == 0 {
		r.fail(InvalidOperation)
	}
}

func (r *Recorder) Enable(capability uint32) {
	r.record("Enable", capability)
	r.Enabled[capability] = true
}

func (r *Recorder) Disable(capability uint32) {
	r.record("Disable", capability)
	delete(r.Enabled, capability)
}

func (r *Recorder) BlendFunc(sfactor, dfactor uint32) {
	r.record("BlendFunc", sfactor, dfactor)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask uint32) {
	r.record("Clear", mask)
}

// GetError pops the oldest pending error.
func (r *Recorder) GetError() uint32 {
	if len(r.errors) == 0 {
		return gpu.NoError
	}
	code := r.errors[0]
	r.errors = r.errors[1:]
	return code
}
