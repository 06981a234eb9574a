// Package shading holds the per-fragment surface programs: the triplanar
// marble pattern, ridge and splatter detail, stylized lighting, the
// two-stage atmosphere and the temporal post-process stack, for terrain and
// water, plus the flat-lit alternative.
//
// Every program is a pure function of its fragment and a parameter block
// copied at frame start, so fragments can be shaded in any order on any
// goroutine.
package shading

import "github.com/go-gl/mathgl/mgl32"

// HeightTap is the UV offset of the four neighbour height samples.
const HeightTap = 0.004

// HeightSamples are the height-field values at the fragment UV and its four
// neighbours.
type HeightSamples struct {
	Center float32
	Left   float32 // uv - (tap, 0)
	Right  float32 // uv + (tap, 0)
	Up     float32 // uv + (0, tap)
	Down   float32 // uv - (0, tap)
}

// FlatHeights returns samples of a constant field.
func FlatHeights(h float32) HeightSamples {
	return HeightSamples{Center: h, Left: h, Right: h, Up: h, Down: h}
}

// HeightSampler reads a height in [0,1] at a normalized UV.
type HeightSampler interface {
	Sample(uv mgl32.Vec2) float32
}

// SampleHeights taps s at uv and its four neighbours.
func SampleHeights(s HeightSampler, uv mgl32.Vec2) HeightSamples {
	return HeightSamples{
		Center: s.Sample(uv),
		Left:   s.Sample(uv.Sub(mgl32.Vec2{HeightTap, 0})),
		Right:  s.Sample(uv.Add(mgl32.Vec2{HeightTap, 0})),
		Up:     s.Sample(uv.Add(mgl32.Vec2{0, HeightTap})),
		Down:   s.Sample(uv.Sub(mgl32.Vec2{0, HeightTap})),
	}
}

// Fragment is everything a program may read for one covered sample.
type Fragment struct {
	Position mgl32.Vec3 // world space
	Normal   mgl32.Vec3 // world space, need not be unit length
	UV       mgl32.Vec2
	Heights  HeightSamples
	Camera   mgl32.Vec3 // camera position in world space
}

// Distance is the camera-to-fragment distance.
func (f *Fragment) Distance() float32 {
	return f.Position.Sub(f.Camera).Len()
}

// Program computes the RGBA colour of a fragment. Alpha is always 1.
type Program func(f *Fragment) mgl32.Vec4
