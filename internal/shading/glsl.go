package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Scalar helpers with GLSL semantics, so the stages read like the formulas
// they implement.

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// smoothstep degrades to step when the edges coincide.
func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		return step(edge0, x)
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func absf(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func mixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func clampVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{clamp01(v[0]), clamp01(v[1]), clamp01(v[2])}
}

func splat(x float32) mgl32.Vec3 {
	return mgl32.Vec3{x, x, x}
}

func xz(p mgl32.Vec3) mgl32.Vec2 { return mgl32.Vec2{p[0], p[2]} }
func xy(p mgl32.Vec3) mgl32.Vec2 { return mgl32.Vec2{p[0], p[1]} }
func yz(p mgl32.Vec3) mgl32.Vec2 { return mgl32.Vec2{p[1], p[2]} }

// normalize returns v unchanged when it has no length instead of NaNs.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// luminance uses Rec.601 weights.
func luminance(c mgl32.Vec3) float32 {
	return c.Dot(mgl32.Vec3{0.299, 0.587, 0.114})
}

func floorf(x float32) float32 {
	return float32(math.Floor(float64(x)))
}
