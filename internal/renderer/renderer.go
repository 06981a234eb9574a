// Package renderer is a CPU rasterizer for shaded surfaces: a vertex stage
// with height-field displacement, near-plane clipping, a z-buffered
// visibility pass and a parallel fragment pass that runs each surface's
// shading program.
package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Render is a frame backend.
type Render interface {
	Init(width, height int)
	Render(camera *Camera, frame int) (*image.RGBA, error)
	AddSurface(surface *Surface)
	RemoveSurface(surface *Surface)
	Cleanup()
}

// Options tunes a SoftwareRenderer.
type Options struct {
	Workers        int        // fragment workers; 0 uses GOMAXPROCS
	ClearColor     mgl32.Vec3 // background colour
	FrustumCulling bool       // skip surfaces whose bounds miss the frustum
}
