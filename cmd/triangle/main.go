// Command triangle is the smallest pipeline check: one green triangle drawn
// through the gpu wrappers, printing the frame rate once a second.
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"opengl-lab/internal/gpu"
	"opengl-lab/internal/gpu/glbackend"
)

const (
	windowWidth  = 800
	windowHeight = 600
)

func init() {
	runtime.LockOSThread()
}

const vertexSrc = `#version 410 core
layout(location = 0) in vec2 position;
void main() {
	gl_Position = vec4(position, 0.0, 1.0);
}`

const fragmentSrc = `#version 410 core
out vec4 fragColor;
void main() {
	fragColor = vec4(0.0, 1.0, 0.0, 1.0);
}`

func main() {
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "OpenGL 4.1 - Single Triangle", nil, nil)
	if err != nil {
		panic(err)
	}
	window.MakeContextCurrent()
	// Disable VSync for max raw framerate; comment this if you want vsync.
	glfw.SwapInterval(0)

	ctx, err := glbackend.Init()
	if err != nil {
		panic(err)
	}

	program, err := gpu.NewProgram(ctx, vertexSrc, fragmentSrc)
	if err != nil {
		panic(err)
	}
	defer program.Release()

	// Triangle vertex positions (NDC)
	vertices := []float32{
		0.0, 0.5,
		-0.5, -0.5,
		0.5, -0.5,
	}

	vao := gpu.NewVertexArray(ctx)
	vao.Bind()
	vbo := gpu.NewVertexBuffer(ctx, vertices)
	if err := vao.LinkAttrib(vbo, gpu.Attrib{Slot: 0, Components: 2, Type: gpu.Float}); err != nil {
		panic(err)
	}
	// unbind to reduce accidental state changes
	vao.Unbind()
	defer vbo.Release()
	defer vao.Release()

	ctx.ClearColor(0.0, 0.0, 0.0, 1.0)

	// FPS counter variables
	frames := 0
	last := time.Now()
	fpsTicker := time.NewTicker(time.Second)
	defer fpsTicker.Stop()
	program.Use()
	vao.Bind()

	for !window.ShouldClose() {
		// close on Esc
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}

		ctx.Clear(gpu.ColorBufferBit)
		ctx.DrawArrays(gpu.Triangles, 0, 3)

		window.SwapBuffers()
		glfw.PollEvents()

		frames++

		select {
		case <-fpsTicker.C:
			now := time.Now()
			elapsed := now.Sub(last).Seconds()
			if elapsed > 0 {
				fmt.Printf("FPS: %d\n", int(float64(frames)/elapsed+0.5))
			}
			frames = 0
			last = now
		default:
		}
	}
}
