package graphics

import (
	"image"
	"image/draw"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"opengl-lab/assets"
	"opengl-lab/internal/gpu"
)

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	// Advance in pixels, already converted from 26.6
	Advance int
}

// FontAtlas is a single-channel glyph atlas plus per-glyph metadata. The
// first row of Image is the top of the atlas.
type FontAtlas struct {
	Image      gpu.Image
	Width      int
	Height     int
	Glyphs     map[rune]Glyph
	LineHeight int
}

// LoadFace parses an OpenType or TrueType font at size pixels. An empty path
// selects the built-in 7x13 bitmap face.
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read font")
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	return face, nil
}

const atlasWidth = 256

// BuildFontAtlas bakes the printable ASCII range of face into an atlas.
func BuildFontAtlas(face font.Face) *FontAtlas {
	var runes []rune
	for r := rune(32); r <= 126; r++ {
		runes = append(runes, r)
	}

	// First pass: measure rows to size the atlas
	padding := 1
	maxH := 0
	for _, r := range runes {
		dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if ok && dr.Dy() > maxH {
			maxH = dr.Dy()
		}
	}
	rowH := maxH + padding
	offsetX := 0
	requiredH := rowH
	for _, r := range runes {
		dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		if offsetX+dr.Dx()+padding > atlasWidth {
			requiredH += rowH
			offsetX = 0
		}
		offsetX += dr.Dx() + padding
	}
	atlasH := 1
	for atlasH < requiredH {
		atlasH <<= 1
	}

	atlasImg := image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasH))
	glyphs := make(map[rune]Glyph)

	// Second pass: render each glyph into the atlas and record metrics
	offsetX, offsetY := 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		adv := int(math.Round(float64(advance) / 64.0))
		if gw == 0 || gh == 0 || mask == nil {
			// Space or non-drawable glyph; still record advance
			glyphs[r] = Glyph{AtlasX: float32(offsetX), AtlasY: float32(offsetY), Advance: adv}
			continue
		}

		if offsetX+gw+padding > atlasWidth {
			offsetX = 0
			offsetY += rowH
		}

		dstRect := image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh)
		draw.Draw(atlasImg, dstRect, mask, maskp, draw.Src)

		glyphs[r] = Glyph{
			AtlasX:   float32(offsetX),
			AtlasY:   float32(offsetY),
			Width:    float32(gw),
			Height:   float32(gh),
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  adv,
		}
		offsetX += gw + padding
	}

	return &FontAtlas{
		Image:      gpu.Image{Pix: atlasImg.Pix, Width: atlasWidth, Height: atlasH, Channels: 1},
		Width:      atlasWidth,
		Height:     atlasH,
		Glyphs:     glyphs,
		LineHeight: face.Metrics().Height.Ceil(),
	}
}

// TextRenderer draws screen-space text from an atlas, pixel coordinates with
// the origin at the top-left of the viewport.
type TextRenderer struct {
	ctx        gpu.Context
	atlas      *FontAtlas
	program    *gpu.Program
	texture    *gpu.Texture
	vao        *gpu.VertexArray
	vbo        *gpu.Buffer
	projection mgl32.Mat4
}

// NewTextRenderer uploads the atlas to unit and loads the text shader.
func NewTextRenderer(ctx gpu.Context, atlas *FontAtlas, unit uint32, width, height int) (*TextRenderer, error) {
	if atlas == nil || len(atlas.Glyphs) == 0 {
		return nil, errors.New("invalid font atlas")
	}
	program, err := gpu.LoadProgram(ctx, assets.FS, assets.TextVert, assets.TextFrag)
	if err != nil {
		if program != nil {
			program.Release()
		}
		return nil, err
	}
	tex, err := gpu.NewTexture(ctx, atlas.Image, "text", unit, gpu.Red, gpu.UnsignedByte,
		gpu.WithFilter(gpu.Linear, gpu.Linear),
		gpu.WithWrap(gpu.ClampToEdge, gpu.ClampToEdge),
		gpu.WithoutMipmaps(),
	)
	if err != nil {
		tex.Release()
		program.Release()
		return nil, err
	}
	tex.AssignUnit(program, "text")

	tr := &TextRenderer{ctx: ctx, atlas: atlas, program: program, texture: tex}
	tr.vao = gpu.NewVertexArray(ctx)
	tr.vao.Bind()
	tr.vbo = gpu.NewVertexBuffer(ctx, nil)
	if err := tr.vao.LinkAttrib(tr.vbo, gpu.Attrib{Slot: 0, Components: 4, Type: gpu.Float, Stride: 4 * 4}); err != nil {
		tr.Release()
		return nil, err
	}
	tr.vao.Unbind()
	tr.SetViewport(width, height)
	return tr, nil
}

// SetViewport rebuilds the pixel projection.
func (tr *TextRenderer) SetViewport(width, height int) {
	tr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// LineHeight returns the atlas line height at scale.
func (tr *TextRenderer) LineHeight(scale float32) float32 {
	return float32(tr.atlas.LineHeight) * scale
}

// Render draws text with its baseline at (x, y).
func (tr *TextRenderer) Render(text string, x, y, scale float32, color mgl32.Vec3) {
	tr.RenderLines([]string{text}, x, y, 0, scale, color)
}

// RenderLines draws multiple lines of text in a single draw call. Lines are
// rendered starting at (x, yStart), each lineStep pixels below the last.
func (tr *TextRenderer) RenderLines(lines []string, x, yStart, lineStep, scale float32, color mgl32.Vec3) {
	var vertices []float32
	y := yStart
	for _, line := range lines {
		vertices = append(vertices, tr.buildVertices([]rune(line), x, y, scale)...)
		y += lineStep
	}
	if len(vertices) == 0 {
		return
	}

	tr.ctx.Disable(gpu.DepthTest)
	tr.ctx.Enable(gpu.Blend)
	tr.ctx.BlendFunc(gpu.SrcAlpha, gpu.OneMinusSrcAlpha)

	tr.program.Use()
	tr.program.SetVec3("textColor", color)
	tr.program.SetMat4("projection", tr.projection)
	tr.texture.Bind()
	tr.vao.Bind()
	tr.vbo.UpdateVertices(vertices)
	tr.ctx.DrawArrays(gpu.Triangles, 0, int32(len(vertices)/4))

	tr.ctx.Disable(gpu.Blend)
	tr.ctx.Enable(gpu.DepthTest)
}

// Measure returns the approximate width and height in pixels the text will occupy at the given scale.
func (tr *TextRenderer) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		g, ok := tr.atlas.Glyphs[r]
		if !ok {
			// fall back to space advance if glyph missing
			g = tr.atlas.Glyphs[' ']
		}
		width += float32(g.Advance) * scale
		maxH = max(maxH, g.Height*scale)
	}
	return width, maxH
}

// Release frees the atlas texture, the program and the streaming buffer.
func (tr *TextRenderer) Release() {
	tr.vao.Release()
	tr.vbo.Release()
	tr.texture.Release()
	tr.program.Release()
}

func (tr *TextRenderer) buildVertices(chars []rune, x, y, scale float32) []float32 {
	vertices := make([]float32, 0, len(chars)*6*4)
	for _, r := range chars {
		g, ok := tr.atlas.Glyphs[r]
		if !ok {
			// Skip missing glyphs
			x += float32(tr.atlas.Glyphs[' '].Advance) * scale
			continue
		}
		if g.Width > 0 {
			vertices = append(vertices, tr.glyphQuad(g, x, y, scale)...)
		}
		x += float32(g.Advance) * scale
	}
	return vertices
}

func (tr *TextRenderer) glyphQuad(g Glyph, x, y, scale float32) []float32 {
	// Screen position
	xPos := x + g.BearingX*scale
	yPos := y - g.BearingY*scale
	w := g.Width * scale
	h := g.Height * scale

	// Texture coordinates (normalized)
	u := g.AtlasX / float32(tr.atlas.Width)
	v := g.AtlasY / float32(tr.atlas.Height)
	du := g.Width / float32(tr.atlas.Width)
	dv := g.Height / float32(tr.atlas.Height)

	return []float32{
		// triangle 1
		xPos, yPos + h, u, v + dv,
		xPos, yPos, u, v,
		xPos + w, yPos, u + du, v,
		// triangle 2
		xPos, yPos + h, u, v + dv,
		xPos + w, yPos, u + du, v,
		xPos + w, yPos + h, u + du, v + dv,
	}
}
