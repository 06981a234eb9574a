// Package telemetry measures rendered frames and logs them as CSV rows.
package telemetry

import (
	"image"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats is one CSV row per rendered frame.
type FrameStats struct {
	Frame     int     `csv:"frame"`
	Time      float32 `csv:"time"`
	Variant   string  `csv:"variant"`
	Surfaces  int     `csv:"surfaces"`
	Culled    int     `csv:"culled"`
	Triangles int     `csv:"triangles"`
	Fragments int64   `csv:"fragments"`
	Coverage  float64 `csv:"coverage"` // covered pixels / all pixels

	LumaMean   float64 `csv:"luma_mean"`
	LumaStdDev float64 `csv:"luma_stddev"`
	LumaMin    float64 `csv:"luma_min"`
	LumaMax    float64 `csv:"luma_max"`

	RasterMS float64 `csv:"raster_ms"`
	ShadeMS  float64 `csv:"shade_ms"`
}

// Luma summarizes the Rec. 709 luminance of an image, channels in [0,1].
type Luma struct {
	Mean, StdDev, Min, Max float64
}

// MeasureLuma computes luminance statistics over every pixel of img.
func MeasureLuma(img *image.RGBA) Luma {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return Luma{}
	}
	values := make([]float64, 0, n)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			p := img.Pix[off : off+3 : off+3]
			values = append(values, (0.2126*float64(p[0])+0.7152*float64(p[1])+0.0722*float64(p[2]))/255)
		}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if n == 1 {
		std = 0
	}
	return Luma{Mean: mean, StdDev: std, Min: floats.Min(values), Max: floats.Max(values)}
}

// SetLuma fills the luminance columns.
func (s *FrameStats) SetLuma(l Luma) {
	s.LumaMean, s.LumaStdDev, s.LumaMin, s.LumaMax = l.Mean, l.StdDev, l.Min, l.Max
}

// SetTimings fills the timing columns.
func (s *FrameStats) SetTimings(raster, shade time.Duration) {
	s.RasterMS = float64(raster) / float64(time.Millisecond)
	s.ShadeMS = float64(shade) / float64(time.Millisecond)
}
