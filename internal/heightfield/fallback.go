package heightfield

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultFallbackSize is the side of the synthesized fallback field.
const DefaultFallbackSize = 256

// Radial gradient of the fallback: white at the centre, mid gray halfway,
// black at the rim and beyond.
const (
	fallbackCenterU = 0.5
	fallbackCenterT = 0.4 // from the top edge
	fallbackRadius  = 0.5
	fallbackMid     = float32(0x88) / 255
)

// FallbackHeight evaluates the radial fallback gradient at uv.
func FallbackHeight(uv mgl32.Vec2) float32 {
	du := float64(uv[0]) - fallbackCenterU
	dt := (1 - float64(uv[1])) - fallbackCenterT
	r := float32(math.Sqrt(du*du+dt*dt) / fallbackRadius)

	switch {
	case r <= 0.5:
		return 1 + (fallbackMid-1)*(r/0.5)
	case r < 1:
		return fallbackMid * (1 - (r-0.5)/0.5)
	default:
		return 0
	}
}

// Fallback rasterizes FallbackHeight into a size x size field, sampling at
// texel centres.
func Fallback(size int) *Field {
	if size <= 0 {
		size = DefaultFallbackSize
	}
	f := &Field{Width: size, Height: size, Data: make([]float32, size*size)}
	for y := 0; y < size; y++ {
		v := 1 - (float32(y)+0.5)/float32(size)
		for x := 0; x < size; x++ {
			u := (float32(x) + 0.5) / float32(size)
			f.Data[y*size+x] = FallbackHeight(mgl32.Vec2{u, v})
		}
	}
	return f
}
