// Package assets embeds the GLSL sources. Uniform names declared here are
// the contract with the Go side (camMatrix, model, camPos, lightColor,
// lightPos, scale, tex0, diffuse0, specular0, projection, text,
// textColor).
package assets

import "embed"

//go:embed shaders
var FS embed.FS

// Shader source pairs, relative to FS.
const (
	DefaultVert = "shaders/default.vert"
	DefaultFrag = "shaders/default.frag"
	LightVert   = "shaders/light.vert"
	LightFrag   = "shaders/light.frag"
	SquareVert  = "shaders/square.vert"
	SquareFrag  = "shaders/square.frag"
	TextVert    = "shaders/text.vert"
	TextFrag    = "shaders/text.frag"
)
