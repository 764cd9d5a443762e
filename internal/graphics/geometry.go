package graphics

import "github.com/go-gl/mathgl/mgl32"

var white = mgl32.Vec3{1, 1, 1}

// Plane returns a unit quad on y=0 facing up.
func Plane() ([]Vertex, []uint32) {
	up := mgl32.Vec3{0, 1, 0}
	vertices := []Vertex{
		{mgl32.Vec3{-1, 0, 1}, up, white, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{-1, 0, -1}, up, white, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{1, 0, -1}, up, white, mgl32.Vec2{1, 1}},
		{mgl32.Vec3{1, 0, 1}, up, white, mgl32.Vec2{1, 0}},
	}
	indices := []uint32{
		0, 1, 2,
		0, 2, 3,
	}
	return vertices, indices
}

// Pyramid returns a square-based pyramid with flat-shaded faces.
func Pyramid() ([]Vertex, []uint32) {
	var (
		apex = mgl32.Vec3{0, 0.8, 0}
		a    = mgl32.Vec3{-0.5, 0, 0.5}
		b    = mgl32.Vec3{-0.5, 0, -0.5}
		c    = mgl32.Vec3{0.5, 0, -0.5}
		d    = mgl32.Vec3{0.5, 0, 0.5}
	)
	sand := mgl32.Vec3{0.83, 0.70, 0.44}

	var vertices []Vertex
	var indices []uint32
	tri := func(p0, p1, p2 mgl32.Vec3, uv0, uv1, uv2 mgl32.Vec2) {
		n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		base := uint32(len(vertices))
		vertices = append(vertices,
			Vertex{p0, n, sand, uv0},
			Vertex{p1, n, sand, uv1},
			Vertex{p2, n, sand, uv2},
		)
		indices = append(indices, base, base+1, base+2)
	}

	// bottom, two triangles facing down
	tri(a, b, c, mgl32.Vec2{0, 0}, mgl32.Vec2{0, 5}, mgl32.Vec2{5, 5})
	tri(a, c, d, mgl32.Vec2{0, 0}, mgl32.Vec2{5, 5}, mgl32.Vec2{5, 0})

	top := mgl32.Vec2{2.5, 5}
	tri(a, d, apex, mgl32.Vec2{0, 0}, mgl32.Vec2{5, 0}, top)
	tri(d, c, apex, mgl32.Vec2{0, 0}, mgl32.Vec2{5, 0}, top)
	tri(c, b, apex, mgl32.Vec2{0, 0}, mgl32.Vec2{5, 0}, top)
	tri(b, a, apex, mgl32.Vec2{0, 0}, mgl32.Vec2{5, 0}, top)
	return vertices, indices
}

// Square returns the textured quad of the first exercise: position, color
// and UV interleaved, 8 floats per vertex.
func Square() ([]float32, []uint32) {
	vertices := []float32{
		//  COORDS         COLORS             TEX COORDS
		-0.5, -0.5, 0.0, 0.8, 0.3, 0.02, 0.0, 0.0, // lower left
		-0.5, 0.5, 0.0, 0.8, 0.3, 0.02, 0.0, 1.0, // upper left
		0.5, 0.5, 0.0, 1.0, 0.6, 0.32, 1.0, 1.0, // upper right
		0.5, -0.5, 0.0, 0.9, 0.45, 0.17, 1.0, 0.0, // lower right
	}
	indices := []uint32{
		0, 2, 1, // upper triangle
		0, 3, 2, // lower triangle
	}
	return vertices, indices
}

// LightCube returns the positions and indices of the light marker cube.
func LightCube() ([]float32, []uint32) {
	vertices := []float32{
		-0.1, -0.1, 0.1,
		-0.1, -0.1, -0.1,
		0.1, -0.1, -0.1,
		0.1, -0.1, 0.1,
		-0.1, 0.1, 0.1,
		-0.1, 0.1, -0.1,
		0.1, 0.1, -0.1,
		0.1, 0.1, 0.1,
	}
	indices := []uint32{
		0, 1, 2,
		0, 2, 3,
		0, 4, 7,
		0, 7, 3,
		3, 7, 6,
		3, 6, 2,
		2, 6, 5,
		2, 5, 1,
		1, 5, 4,
		1, 4, 0,
		4, 5, 6,
		4, 6, 7,
	}
	return vertices, indices
}
