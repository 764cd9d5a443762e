package graphics

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"opengl-lab/internal/camera"
	"opengl-lab/internal/gpu"
)

// Vertex is the interleaved layout read by shaders/default.vert.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
	UV       mgl32.Vec2
}

const vertexFloats = 11

// Mesh is indexed geometry plus the textures it samples.
type Mesh struct {
	ctx      gpu.Context
	Vertices []Vertex
	Indices  []uint32
	Textures []*gpu.Texture

	vao *gpu.VertexArray
	vbo *gpu.Buffer
	ebo *gpu.Buffer
}

// NewMesh uploads the geometry and links position, normal, color and UV to
// slots 0 through 3. Textures stay owned by the caller.
func NewMesh(ctx gpu.Context, vertices []Vertex, indices []uint32, textures []*gpu.Texture) (*Mesh, error) {
	m := &Mesh{ctx: ctx, Vertices: vertices, Indices: indices, Textures: textures}

	m.vao = gpu.NewVertexArray(ctx)
	m.vao.Bind()
	m.vbo = gpu.NewVertexBuffer(ctx, flatten(vertices))
	m.ebo = gpu.NewIndexBuffer(ctx, indices)

	const stride = vertexFloats * 4
	layout := []gpu.Attrib{
		{Slot: 0, Components: 3, Type: gpu.Float, Stride: stride, Offset: 0},
		{Slot: 1, Components: 3, Type: gpu.Float, Stride: stride, Offset: 3 * 4},
		{Slot: 2, Components: 3, Type: gpu.Float, Stride: stride, Offset: 6 * 4},
		{Slot: 3, Components: 2, Type: gpu.Float, Stride: stride, Offset: 9 * 4},
	}
	for _, a := range layout {
		if err := m.vao.LinkAttrib(m.vbo, a); err != nil {
			m.Release()
			return nil, err
		}
	}

	// Unbind all to prevent modifying these objects later on
	m.vao.Unbind()
	m.vbo.Unbind()
	m.ebo.Unbind()
	return m, nil
}

func flatten(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*vertexFloats)
	for _, v := range vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.Color[:]...)
		out = append(out, v.UV[:]...)
	}
	return out
}

// Draw renders the mesh with program. Textures are exposed to the shader as
// diffuse0, diffuse1, ... and specular0, ... in slice order, each on its own
// unit. The camera position and matrix go to camPos and camMatrix.
func (m *Mesh) Draw(program *gpu.Program, cam *camera.Camera) {
	program.Use()
	m.vao.Bind()

	counts := map[string]int{}
	for _, tex := range m.Textures {
		name := tex.Kind + strconv.Itoa(counts[tex.Kind])
		counts[tex.Kind]++
		tex.AssignUnit(program, name)
		tex.Bind()
	}
	cam.ExportPosition(program, "camPos")
	cam.Export(program, "camMatrix")

	m.ctx.DrawElements(gpu.Triangles, int32(len(m.Indices)), gpu.UnsignedInt, 0)
}

// Release frees the vertex array and both buffers.
func (m *Mesh) Release() {
	m.vao.Release()
	m.vbo.Release()
	m.ebo.Release()
}
