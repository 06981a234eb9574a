// Package heightfield provides the displacement source of the terrain: a
// single-channel grid sampled bilinearly with clamp-to-edge addressing, the
// decoders that build it from images, the ordered-retry resolver and the
// deterministic radial fallback.
package heightfield

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Field is a grid of heights in [0,1]. Row 0 is the top of the source
// image, which maps to v = 1.
type Field struct {
	Width  int
	Height int
	Data   []float32
}

// New wraps data as a width x height field.
func New(width, height int, data []float32) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid height field size %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("height field data has %d values, want %d", len(data), width*height)
	}
	return &Field{Width: width, Height: height, Data: data}, nil
}

// Constant returns a 1x1 field of value h.
func Constant(h float32) *Field {
	return &Field{Width: 1, Height: 1, Data: []float32{h}}
}

// At returns the texel at column x, row y, clamped to the edges.
func (f *Field) At(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= f.Width {
		x = f.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.Height {
		y = f.Height - 1
	}
	return f.Data[y*f.Width+x]
}

// Sample filters the field at uv like a linear, clamp-to-edge texture.
func (f *Field) Sample(uv mgl32.Vec2) float32 {
	x := float64(uv[0])*float64(f.Width) - 0.5
	y := (1-float64(uv[1]))*float64(f.Height) - 0.5

	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := float32(x-x0), float32(y-y0)
	ix, iy := int(x0), int(y0)

	top := f.At(ix, iy)*(1-fx) + f.At(ix+1, iy)*fx
	bottom := f.At(ix, iy+1)*(1-fx) + f.At(ix+1, iy+1)*fx
	return top*(1-fy) + bottom*fy
}

// Range returns the smallest and largest heights.
func (f *Field) Range() (lo, hi float32) {
	lo, hi = f.Data[0], f.Data[0]
	for _, h := range f.Data[1:] {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	return lo, hi
}
