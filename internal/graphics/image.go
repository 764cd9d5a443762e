package graphics

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"opengl-lab/internal/gpu"
)

// LoadImage decodes a PNG, JPEG, BMP or WebP file into RGBA pixels, flipped
// so the first row is the bottom of the image as GL expects.
func LoadImage(path string) (gpu.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return gpu.Image{}, errors.Wrap(err, "failed to open texture file")
	}
	defer file.Close()
	return DecodeImage(file)
}

// DecodeImage decodes any registered image format from r.
func DecodeImage(r io.Reader) (gpu.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return gpu.Image{}, errors.Wrap(err, "failed to decode image")
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return FromRGBA(rgba), nil
}

// FromRGBA repacks rgba into tightly packed rows, bottom row first.
func FromRGBA(rgba *image.RGBA) gpu.Image {
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	out := make([]byte, w*h*4)
	row := w * 4
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+row]
		copy(out[(h-1-y)*row:], src)
	}
	return gpu.Image{Pix: out, Width: w, Height: h, Channels: 4}
}

// Checker returns a size x size checkerboard with cells squares per side.
func Checker(size, cells int, a, b color.RGBA) gpu.Image {
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			rgba.SetRGBA(x, y, c)
		}
	}
	return FromRGBA(rgba)
}

// Solid returns a single pixel image of c.
func Solid(c color.RGBA) gpu.Image {
	return gpu.Image{Pix: []byte{c.R, c.G, c.B, c.A}, Width: 1, Height: 1, Channels: 4}
}

// LoadTexture creates a texture from the image at path. If path is empty or
// cannot be decoded the failure is logged and fallback is uploaded instead.
func LoadTexture(ctx gpu.Context, path string, fallback gpu.Image, kind string, unit uint32) (*gpu.Texture, error) {
	img := fallback
	if path != "" {
		loaded, err := GetImage(path)
		if err != nil {
			logger().Warn("using fallback texture", "path", path, "err", err.Error())
		} else {
			img = loaded
		}
	}
	return gpu.NewTexture(ctx, img, kind, unit, img.Format(), gpu.UnsignedByte)
}
