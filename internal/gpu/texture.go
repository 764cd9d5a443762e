package gpu

import "github.com/pkg/errors"

// Image is decoded pixel data ready for upload. Rows are tightly packed,
// bottom row first.
type Image struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// Format returns the GL pixel format matching the channel count.
func (img Image) Format() uint32 {
	switch img.Channels {
	case 1:
		return Red
	case 3:
		return RGB
	}
	return RGBA
}

// Texture kinds used to name sampler uniforms.
const (
	KindDiffuse  = "diffuse"
	KindSpecular = "specular"
)

// TextureOption overrides sampling parameters.
type TextureOption func(*textureParams)

type textureParams struct {
	minFilter, magFilter int32
	wrapS, wrapT         int32
	mipmaps              bool
}

// WithFilter sets the min and mag filters.
func WithFilter(min, mag int32) TextureOption {
	return func(p *textureParams) { p.minFilter, p.magFilter = min, mag }
}

// WithWrap sets the S and T wrap modes.
func WithWrap(s, t int32) TextureOption {
	return func(p *textureParams) { p.wrapS, p.wrapT = s, t }
}

// WithoutMipmaps skips mipmap generation.
func WithoutMipmaps() TextureOption {
	return func(p *textureParams) { p.mipmaps = false }
}

// Texture is a 2D image bound to a numbered texture unit.
type Texture struct {
	ctx       Context
	id        uint32
	Kind      string
	Unit      uint32
	Format    uint32
	PixelType uint32
	Width     int
	Height    int
}

// NewTexture uploads img into a new texture on unit. Defaults are nearest
// filtering, repeat wrapping and generated mipmaps. An empty image still
// yields a texture (with no storage) together with ErrEmptyImage.
func NewTexture(ctx Context, img Image, kind string, unit, format, pixelType uint32, opts ...TextureOption) (*Texture, error) {
	params := textureParams{
		minFilter: Nearest,
		magFilter: Nearest,
		wrapS:     Repeat,
		wrapT:     Repeat,
		mipmaps:   true,
	}
	for _, opt := range opts {
		opt(&params)
	}

	t := &Texture{
		ctx:       ctx,
		Kind:      kind,
		Unit:      unit,
		Format:    format,
		PixelType: pixelType,
		Width:     img.Width,
		Height:    img.Height,
	}
	t.id = ctx.GenTexture()
	ctx.ActiveTexture(Texture0 + unit)
	ctx.BindTexture(Texture2D, t.id)

	ctx.TexParameteri(Texture2D, TextureMinFilter, params.minFilter)
	ctx.TexParameteri(Texture2D, TextureMagFilter, params.magFilter)
	ctx.TexParameteri(Texture2D, TextureWrapS, params.wrapS)
	ctx.TexParameteri(Texture2D, TextureWrapT, params.wrapT)

	var err error
	if len(img.Pix) == 0 || img.Width <= 0 || img.Height <= 0 {
		err = errors.Wrapf(ErrEmptyImage, "%s texture on unit %d", kind, unit)
		logger().Error("texture has no pixel data", "kind", kind, "unit", unit)
	} else {
		ctx.TexImage2D(Texture2D, 0, RGBA, int32(img.Width), int32(img.Height), format, pixelType, img.Pix)
		if params.mipmaps {
			ctx.GenerateMipmap(Texture2D)
		}
	}

	ctx.BindTexture(Texture2D, 0)
	return t, err
}

func (t *Texture) ID() uint32 { return t.id }

// AssignUnit points the sampler uniform at this texture's unit. It activates
// program first because uploads only reach the active program.
func (t *Texture) AssignUnit(program *Program, uniform string) bool {
	program.Use()
	return program.SetInt(uniform, int32(t.Unit))
}

// Bind activates the texture's unit and binds the texture to it.
func (t *Texture) Bind() {
	if t.id == 0 {
		released("texture")
		return
	}
	t.ctx.ActiveTexture(Texture0 + t.Unit)
	t.ctx.BindTexture(Texture2D, t.id)
}

// Unbind clears the 2D binding of the texture's unit.
func (t *Texture) Unbind() {
	t.ctx.ActiveTexture(Texture0 + t.Unit)
	t.ctx.BindTexture(Texture2D, 0)
}

// Release deletes the texture.
func (t *Texture) Release() {
	if t.id == 0 {
		released("texture")
		return
	}
	t.ctx.DeleteTexture(t.id)
	t.id = 0
}
