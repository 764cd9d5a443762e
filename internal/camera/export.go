package camera

import "github.com/go-gl/mathgl/mgl32"

// UniformTarget receives camera uniforms. *gpu.Program implements it.
// Setters report whether the program has the named uniform.
type UniformTarget interface {
	SetMat4(name string, m mgl32.Mat4) bool
	SetVec3(name string, v mgl32.Vec3) bool
}

// Export uploads the combined view-projection matrix into the named uniform.
// target should be the active program.
func (c *Camera) Export(target UniformTarget, name string) bool {
	return target.SetMat4(name, c.viewProjection)
}

// ExportView uploads the view matrix alone.
func (c *Camera) ExportView(target UniformTarget, name string) bool {
	return target.SetMat4(name, c.view)
}

// ExportProjection uploads the projection matrix alone.
func (c *Camera) ExportProjection(target UniformTarget, name string) bool {
	return target.SetMat4(name, c.projection)
}

// ExportPosition uploads the eye position, used for specular lighting.
func (c *Camera) ExportPosition(target UniformTarget, name string) bool {
	return target.SetVec3(name, c.Position)
}
