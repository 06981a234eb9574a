package heightfield

import (
	"fmt"
	"image/png"
	"io"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// Algorithm selects the gradient noise behind Generate.
type Algorithm string

const (
	Perlin  Algorithm = "perlin"
	Simplex Algorithm = "simplex"
)

// GenerateOptions shapes a synthesized height map.
type GenerateOptions struct {
	Size        int
	Seed        int64
	Algorithm   Algorithm
	Frequency   float64 // features per field side at the first octave
	Octaves     int
	Persistence float64
	// Falloff blends the result toward the radial fallback mound so the
	// peak sits where the camera looks. 0 keeps pure noise.
	Falloff float64
}

// DefaultGenerateOptions returns a mountain-range preset.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Size:        512,
		Seed:        1,
		Algorithm:   Perlin,
		Frequency:   3,
		Octaves:     6,
		Persistence: 0.5,
		Falloff:     0.6,
	}
}

type noise2D func(x, y float64) float64

func newSource(algo Algorithm, seed int64) (noise2D, error) {
	switch algo {
	case Perlin, "":
		p := perlin.NewPerlin(2, 2, 3, seed)
		return p.Noise2D, nil
	case Simplex:
		return opensimplex.New(seed).Eval2, nil
	}
	return nil, fmt.Errorf("unknown noise algorithm %q", algo)
}

// Generate synthesizes a field from octaves of gradient noise, normalized
// to [0,1].
func Generate(opts GenerateOptions) (*Field, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid generated size %d", opts.Size)
	}
	if opts.Octaves <= 0 {
		opts.Octaves = 1
	}
	src, err := newSource(opts.Algorithm, opts.Seed)
	if err != nil {
		return nil, err
	}

	n := opts.Size
	raw := make([]float64, n*n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			u := (float64(x) + 0.5) / float64(n) * opts.Frequency
			v := (float64(y) + 0.5) / float64(n) * opts.Frequency
			var sum, amp, norm float64 = 0, 1, 0
			freq := 1.0
			for o := 0; o < opts.Octaves; o++ {
				sum += amp * src(u*freq, v*freq)
				norm += amp
				amp *= opts.Persistence
				freq *= 2
			}
			h := sum / norm
			raw[y*n+x] = h
			lo = math.Min(lo, h)
			hi = math.Max(hi, h)
		}
	}

	f := &Field{Width: n, Height: n, Data: make([]float32, n*n)}
	span := hi - lo
	for y := 0; y < n; y++ {
		tv := 1 - (float32(y)+0.5)/float32(n)
		for x := 0; x < n; x++ {
			h := 0.5
			if span > 0 {
				h = (raw[y*n+x] - lo) / span
			}
			if opts.Falloff > 0 {
				mound := float64(FallbackHeight(mgl32.Vec2{(float32(x) + 0.5) / float32(n), tv}))
				h = h*(1-opts.Falloff) + h*mound*opts.Falloff
			}
			f.Data[y*n+x] = float32(h)
		}
	}
	return f, nil
}

// EncodePNG writes the field as a 16-bit grayscale PNG.
func EncodePNG(w io.Writer, f *Field) error {
	if err := png.Encode(w, f.Image()); err != nil {
		return fmt.Errorf("encode height map: %w", err)
	}
	return nil
}
