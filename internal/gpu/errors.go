package gpu

import "github.com/pkg/errors"

var (
	// ErrReleased is reported when a resource is used after Release.
	ErrReleased = errors.New("gpu: resource already released")
	// ErrAttribOutOfStride is returned by LinkAttrib when an attribute's
	// byte range does not fit inside the vertex stride.
	ErrAttribOutOfStride = errors.New("gpu: attribute exceeds vertex stride")
	// ErrCompile wraps shader compilation failures.
	ErrCompile = errors.New("gpu: shader compilation failed")
	// ErrLink wraps program link failures.
	ErrLink = errors.New("gpu: program link failed")
	// ErrEmptyImage is returned when texture pixel data is missing.
	ErrEmptyImage = errors.New("gpu: empty image")
	// ErrUnknownUniform is returned by Program.Uniform for names the linked
	// program does not expose.
	ErrUnknownUniform = errors.New("gpu: unknown uniform")
)

// released logs use of a released resource. It never panics.
func released(kind string) {
	logger().Warn("use of released resource", "kind", kind, "err", ErrReleased.Error())
}
