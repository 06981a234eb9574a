package renderer

import (
	"image"
	"runtime"
	"sync/atomic"
	"time"

	"Terrashade/internal/logger"
	"Terrashade/internal/shading"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Stats describes the last rendered frame.
type Stats struct {
	Frame     int
	Surfaces  int
	Culled    int
	Triangles int
	Fragments int64
	Raster    time.Duration
	Shade     time.Duration
}

var _ Render = (*SoftwareRenderer)(nil)

// SoftwareRenderer rasterizes every surface into a visibility buffer on the
// calling goroutine, then shades rows in parallel on a pond worker pool.
type SoftwareRenderer struct {
	Surfaces []*Surface

	opts    Options
	workers int
	pool    pond.Pool
	vb      *VisibilityBuffer
	stats   Stats
}

func NewSoftwareRenderer(opts Options) *SoftwareRenderer {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &SoftwareRenderer{
		opts:    opts,
		workers: workers,
		pool:    pond.NewPool(workers),
	}
}

func (r *SoftwareRenderer) Init(width, height int) {
	r.vb = NewVisibilityBuffer(width, height)
	logger.Log.Info("Software renderer initialized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("workers", r.workers),
		zap.Bool("frustumCulling", r.opts.FrustumCulling))
}

func (r *SoftwareRenderer) AddSurface(surface *Surface) {
	r.Surfaces = append(r.Surfaces, surface)
}

func (r *SoftwareRenderer) RemoveSurface(surface *Surface) {
	for i, s := range r.Surfaces {
		if s == surface {
			r.Surfaces = append(r.Surfaces[:i], r.Surfaces[i+1:]...)
			return
		}
	}
}

// Stats returns the statistics of the last frame.
func (r *SoftwareRenderer) Stats() Stats {
	return r.stats
}

// Render draws one frame as seen from camera. Each surface's program is
// taken once up front, so parameter edits made while the frame renders
// only show on the next one.
func (r *SoftwareRenderer) Render(camera *Camera, frame int) (*image.RGBA, error) {
	if r.vb == nil {
		r.Init(800, 600)
	}
	stats := Stats{Frame: frame, Surfaces: len(r.Surfaces)}

	programs := make([]shading.Program, len(r.Surfaces))
	for i, s := range r.Surfaces {
		programs[i] = s.Material.Program()
	}

	start := time.Now()
	r.vb.Clear()
	vp := camera.GetViewProjection()
	frustum := camera.CalculateFrustum()
	for i, s := range r.Surfaces {
		verts := s.transform(vp)
		if r.opts.FrustumCulling {
			world := make([]mgl32.Vec3, len(verts))
			for k := range verts {
				world[k] = verts[k].world
			}
			if center, radius := Bounds(world); !frustum.IntersectsSphere(center, radius) {
				stats.Culled++
				continue
			}
		}
		stats.Triangles += r.vb.DrawTriangles(int32(i), verts, s.Mesh.Indices, s.DepthWrite, s.DoubleSided)
	}
	stats.Raster = time.Since(start)

	start = time.Now()
	img := image.NewRGBA(image.Rect(0, 0, r.vb.Width, r.vb.Height))
	fragments, err := r.shade(img, programs, camera.Position)
	if err != nil {
		return nil, err
	}
	stats.Fragments = fragments
	stats.Shade = time.Since(start)
	r.stats = stats

	logger.Log.Debug("Frame rendered",
		zap.Int("frame", frame),
		zap.Int("triangles", stats.Triangles),
		zap.Int64("fragments", stats.Fragments),
		zap.Duration("raster", stats.Raster),
		zap.Duration("shade", stats.Shade))
	return img, nil
}

// shade runs the fragment programs over the visibility buffer in row bands.
func (r *SoftwareRenderer) shade(img *image.RGBA, programs []shading.Program, cameraPos mgl32.Vec3) (int64, error) {
	var fragments atomic.Int64
	band := max(1, r.vb.Height/(r.workers*4))

	group := r.pool.NewGroup()
	for y0 := 0; y0 < r.vb.Height; y0 += band {
		y0, y1 := y0, min(r.vb.Height, y0+band)
		group.Submit(func() {
			fragments.Add(r.shadeRows(img, programs, cameraPos, y0, y1))
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}
	return fragments.Load(), nil
}

func (r *SoftwareRenderer) shadeRows(img *image.RGBA, programs []shading.Program, cameraPos mgl32.Vec3, y0, y1 int) int64 {
	var covered int64
	background := toRGBA(r.opts.ClearColor.Vec4(1))
	for y := y0; y < y1; y++ {
		for x := 0; x < r.vb.Width; x++ {
			s := r.vb.samples[y*r.vb.Width+x]
			off := img.PixOffset(x, y)
			if s.surface < 0 {
				copy(img.Pix[off:off+4], background[:])
				continue
			}

			surf := r.Surfaces[s.surface]
			frag := shading.Fragment{
				Position: s.pos,
				Normal:   s.normal,
				UV:       s.uv,
				Camera:   cameraPos,
			}
			if surf.HeightField != nil {
				frag.Heights = shading.SampleHeights(surf.HeightField, s.uv)
			}
			c := toRGBA(programs[s.surface](&frag))
			copy(img.Pix[off:off+4], c[:])
			covered++
		}
	}
	return covered
}

func toRGBA(c mgl32.Vec4) [4]uint8 {
	var out [4]uint8
	for i := 0; i < 4; i++ {
		v := c[i]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[i] = uint8(v*255 + 0.5)
	}
	return out
}

func (r *SoftwareRenderer) Cleanup() {
	r.pool.StopAndWait()
}
