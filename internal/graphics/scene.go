package graphics

import (
	"image/color"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"opengl-lab/assets"
	"opengl-lab/internal/camera"
	"opengl-lab/internal/gpu"
)

// Scene is one of the exercises: it owns its GPU resources and draws itself
// from a camera each frame.
type Scene interface {
	Draw(cam *camera.Camera)
	Release()
}

// Options configures scene construction.
type Options struct {
	MissingPolicy gpu.MissingPolicy
	// TextureDir is searched for image files; missing images fall back to
	// generated textures.
	TextureDir string
}

var scenes = map[string]func(gpu.Context, Options) (Scene, error){
	"square":  newSquareScene,
	"pyramid": newPyramidScene,
	"lit":     newLitScene,
}

// SceneNames lists the available scenes.
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewScene builds the named scene.
func NewScene(ctx gpu.Context, name string, opts Options) (Scene, error) {
	build, ok := scenes[name]
	if !ok {
		return nil, errors.Errorf("unknown scene %q (have %v)", name, SceneNames())
	}
	return build(ctx, opts)
}

// loadProgram keeps going with a program that failed to compile or link, as
// the exercises did; only unreadable sources stop the scene.
func loadProgram(ctx gpu.Context, vert, frag string, opts Options) (*gpu.Program, error) {
	p, err := gpu.LoadProgram(ctx, assets.FS, vert, frag, gpu.WithMissingPolicy(opts.MissingPolicy))
	if p == nil {
		return nil, err
	}
	if err != nil {
		logger().Error("continuing with unusable program", "vertex", vert, "fragment", frag, "err", err.Error())
	}
	return p, nil
}

func texturePath(opts Options, name string) string {
	if opts.TextureDir == "" {
		return ""
	}
	return filepath.Join(opts.TextureDir, name)
}

var (
	checkerA = color.RGBA{R: 0xc8, G: 0x8a, B: 0x50, A: 0xff}
	checkerB = color.RGBA{R: 0x7a, G: 0x4b, B: 0x25, A: 0xff}
)

// squareScene is the first exercise: a textured quad in clip space scaled
// by a uniform, no camera.
type squareScene struct {
	ctx     gpu.Context
	program *gpu.Program
	vao     *gpu.VertexArray
	vbo     *gpu.Buffer
	ebo     *gpu.Buffer
	tex     *gpu.Texture
	count   int32
}

func newSquareScene(ctx gpu.Context, opts Options) (Scene, error) {
	program, err := loadProgram(ctx, assets.SquareVert, assets.SquareFrag, opts)
	if err != nil {
		return nil, err
	}
	s := &squareScene{ctx: ctx, program: program}

	vertices, indices := Square()
	s.count = int32(len(indices))
	s.vao = gpu.NewVertexArray(ctx)
	s.vao.Bind()
	s.vbo = gpu.NewVertexBuffer(ctx, vertices)
	s.ebo = gpu.NewIndexBuffer(ctx, indices)

	const stride = 8 * 4
	for _, a := range []gpu.Attrib{
		{Slot: 0, Components: 3, Type: gpu.Float, Stride: stride, Offset: 0},
		{Slot: 1, Components: 3, Type: gpu.Float, Stride: stride, Offset: 3 * 4},
		{Slot: 2, Components: 2, Type: gpu.Float, Stride: stride, Offset: 6 * 4},
	} {
		if err := s.vao.LinkAttrib(s.vbo, a); err != nil {
			s.Release()
			return nil, err
		}
	}
	s.vao.Unbind()
	s.vbo.Unbind()
	s.ebo.Unbind()

	s.tex, err = LoadTexture(ctx, texturePath(opts, "pop_cat.png"), Checker(64, 8, checkerA, checkerB), gpu.KindDiffuse, 0)
	if err != nil {
		logger().Error("square texture", "err", err.Error())
	}
	s.tex.AssignUnit(s.program, "tex0")
	return s, nil
}

func (s *squareScene) Draw(*camera.Camera) {
	s.program.Use()
	s.program.SetFloat("scale", 0.5)
	s.tex.Bind()
	s.vao.Bind()
	s.ctx.DrawElements(gpu.Triangles, s.count, gpu.UnsignedInt, 0)
}

func (s *squareScene) Release() {
	s.vao.Release()
	s.vbo.Release()
	s.ebo.Release()
	if s.tex != nil {
		s.tex.Release()
	}
	s.program.Release()
}

// litScene draws one mesh under a single point light and marks the light
// with a small unlit cube.
type litScene struct {
	ctx      gpu.Context
	object   *gpu.Program
	light    *gpu.Program
	mesh     *Mesh
	textures []*gpu.Texture

	lightVAO   *gpu.VertexArray
	lightVBO   *gpu.Buffer
	lightEBO   *gpu.Buffer
	lightCount int32

	LightColor mgl32.Vec4
	LightPos   mgl32.Vec3
	Model      mgl32.Mat4
}

func newLitScene(ctx gpu.Context, opts Options) (Scene, error) {
	vertices, indices := Plane()
	return buildLitScene(ctx, opts, vertices, indices, "planks.png", "planksSpec.png")
}

func newPyramidScene(ctx gpu.Context, opts Options) (Scene, error) {
	vertices, indices := Pyramid()
	return buildLitScene(ctx, opts, vertices, indices, "brick.png", "")
}

func buildLitScene(ctx gpu.Context, opts Options, vertices []Vertex, indices []uint32, diffuse, specular string) (*litScene, error) {
	object, err := loadProgram(ctx, assets.DefaultVert, assets.DefaultFrag, opts)
	if err != nil {
		return nil, err
	}
	light, err := loadProgram(ctx, assets.LightVert, assets.LightFrag, opts)
	if err != nil {
		object.Release()
		return nil, err
	}
	s := &litScene{
		ctx:        ctx,
		object:     object,
		light:      light,
		LightColor: mgl32.Vec4{1, 1, 1, 1},
		LightPos:   mgl32.Vec3{0.5, 0.5, 0.5},
		Model:      mgl32.Ident4(),
	}

	diffuseTex, err := LoadTexture(ctx, texturePath(opts, diffuse), Checker(64, 8, checkerA, checkerB), gpu.KindDiffuse, 0)
	if err != nil {
		logger().Error("diffuse texture", "err", err.Error())
	}
	specPath := ""
	if specular != "" {
		specPath = texturePath(opts, specular)
	}
	specularTex, err := LoadTexture(ctx, specPath, Solid(color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}), gpu.KindSpecular, 1)
	if err != nil {
		logger().Error("specular texture", "err", err.Error())
	}
	s.textures = []*gpu.Texture{diffuseTex, specularTex}

	s.mesh, err = NewMesh(ctx, vertices, indices, s.textures)
	if err != nil {
		s.Release()
		return nil, err
	}

	cubeVertices, cubeIndices := LightCube()
	s.lightCount = int32(len(cubeIndices))
	s.lightVAO = gpu.NewVertexArray(ctx)
	s.lightVAO.Bind()
	s.lightVBO = gpu.NewVertexBuffer(ctx, cubeVertices)
	s.lightEBO = gpu.NewIndexBuffer(ctx, cubeIndices)
	if err := s.lightVAO.LinkVBO(s.lightVBO, 0); err != nil {
		s.Release()
		return nil, err
	}
	s.lightVAO.Unbind()
	s.lightVBO.Unbind()
	s.lightEBO.Unbind()

	s.uploadLight()
	return s, nil
}

// uploadLight writes the per-scene constants into both programs.
func (s *litScene) uploadLight() {
	lightModel := mgl32.Translate3D(s.LightPos[0], s.LightPos[1], s.LightPos[2])

	s.light.Use()
	s.light.SetMat4("model", lightModel)
	s.light.SetVec4("lightColor", s.LightColor)

	s.object.Use()
	s.object.SetMat4("model", s.Model)
	s.object.SetVec4("lightColor", s.LightColor)
	s.object.SetVec3("lightPos", s.LightPos)
}

func (s *litScene) Draw(cam *camera.Camera) {
	s.mesh.Draw(s.object, cam)

	s.light.Use()
	cam.Export(s.light, "camMatrix")
	s.lightVAO.Bind()
	s.ctx.DrawElements(gpu.Triangles, s.lightCount, gpu.UnsignedInt, 0)
}

func (s *litScene) Release() {
	if s.mesh != nil {
		s.mesh.Release()
	}
	for _, tex := range s.textures {
		if tex != nil {
			tex.Release()
		}
	}
	if s.lightVAO != nil {
		s.lightVAO.Release()
		s.lightVBO.Release()
		s.lightEBO.Release()
	}
	s.light.Release()
	s.object.Release()
}
