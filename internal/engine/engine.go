// Package engine assembles the scene from configuration and drives the
// frame loop: animation clock, render, telemetry.
package engine

import (
	"context"
	"fmt"
	"image"
	"math"

	"Terrashade/internal/config"
	"Terrashade/internal/heightfield"
	"Terrashade/internal/logger"
	"Terrashade/internal/renderer"
	"Terrashade/internal/shading"
	"Terrashade/internal/telemetry"

	"go.uber.org/zap"
)

// FrameSink receives every rendered frame in order.
type FrameSink func(frame int, img *image.RGBA) error

type Engine struct {
	Width    int
	Height   int
	Camera   *renderer.Camera
	Renderer *renderer.SoftwareRenderer
	Animator *Animator

	// Surfaces in draw order
	Sky     *renderer.Surface
	Terrain *renderer.Surface
	Water   *renderer.Surface

	// Parameter blocks read by the surfaces' materials
	SkyParams     *shading.SkyParams
	TerrainParams *shading.TerrainParams
	WaterParams   *shading.WaterParams

	Field  *heightfield.Field
	Source string // location the field came from, or "fallback"

	recorder *telemetry.Recorder
	frame    int
	closed   bool
}

// New resolves the height field, then builds camera, surfaces and renderer
// from cfg. A nil fetcher reads files under cfg.HeightField.Root and URLs
// over HTTP.
func New(ctx context.Context, cfg *config.Config, fetcher heightfield.Fetcher) (*Engine, error) {
	logger.Log.Info("Terrashade initializing...",
		zap.Int("width", cfg.Screen.Width),
		zap.Int("height", cfg.Screen.Height),
		zap.String("terrainVariant", string(cfg.Derived.TerrainVariant)),
		zap.String("waterVariant", string(cfg.Derived.WaterVariant)))

	e := &Engine{Width: cfg.Screen.Width, Height: cfg.Screen.Height}
	e.Field, e.Source = resolveField(ctx, cfg.HeightField, fetcher)

	sky, terrain, water := cfg.SkyParams(), cfg.TerrainParams(), cfg.WaterParams()
	e.SkyParams, e.TerrainParams, e.WaterParams = &sky, &terrain, &water
	e.Animator = NewAnimator(cfg.Render.FrameDT, e.TerrainParams, e.WaterParams)

	var err error
	if e.Sky, err = newSky(cfg.Sky, e.SkyParams); err != nil {
		return nil, err
	}
	if e.Terrain, err = newTerrain(cfg, e.TerrainParams, e.Field); err != nil {
		return nil, err
	}
	if e.Water, err = newWater(cfg.Water, e.WaterParams); err != nil {
		return nil, err
	}

	e.Camera = renderer.NewDefaultCamera(e.Width, e.Height)
	e.Camera.SetAspectRatio(cfg.Derived.Aspect)
	e.Camera.SetFov(cfg.Camera.Fov)
	e.Camera.SetNear(cfg.Camera.Near)
	e.Camera.SetFar(cfg.Camera.Far)
	e.Camera.Orbit(cfg.Camera.Target, cfg.Camera.Distance, cfg.Derived.Polar, cfg.Camera.Azimuth)

	if e.recorder, err = telemetry.NewRecorder(cfg.Telemetry.CSVPath); err != nil {
		return nil, err
	}

	e.Renderer = renderer.NewSoftwareRenderer(renderer.Options{
		Workers:        cfg.Render.Workers,
		ClearColor:     cfg.Render.ClearColor.Vec3(),
		FrustumCulling: cfg.Render.FrustumCulling,
	})
	e.Renderer.Init(e.Width, e.Height)
	e.Renderer.AddSurface(e.Sky)
	e.Renderer.AddSurface(e.Terrain)
	e.Renderer.AddSurface(e.Water)
	return e, nil
}

func resolveField(ctx context.Context, cfg config.HeightFieldConfig, fetcher heightfield.Fetcher) (*heightfield.Field, string) {
	if fetcher == nil {
		fetcher = heightfield.DefaultFetcher(cfg.Root)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	r := heightfield.NewResolver(heightfield.Options{
		Locations:     cfg.Locations,
		Fetcher:       fetcher,
		MaxResolution: cfg.MaxResolution,
		FallbackSize:  cfg.FallbackSize,
	})
	return r.Resolve(ctx), r.Source()
}

func newSky(cfg config.SkyConfig, params *shading.SkyParams) (*renderer.Surface, error) {
	mesh, err := renderer.NewPlane(cfg.Width, cfg.Height, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("sky mesh: %w", err)
	}
	s := renderer.NewSurface("sky", mesh, params)
	s.SetPosition(cfg.Position[0], cfg.Position[1], cfg.Position[2])
	s.DepthWrite = false
	return s, nil
}

func newTerrain(cfg *config.Config, params *shading.TerrainParams, field *heightfield.Field) (*renderer.Surface, error) {
	t := cfg.Terrain
	mesh, err := renderer.NewPlane(t.Width, t.Depth, t.WidthSegments, t.DepthSegments)
	if err != nil {
		return nil, fmt.Errorf("terrain mesh: %w", err)
	}
	s := renderer.NewSurface("terrain", mesh, params)
	s.HeightField = field
	s.RecalculateNormals = cfg.HeightField.RecalculateNormals
	s.Rotate(t.RotationX, 0, 0)
	s.SetPosition(t.Position[0], t.Position[1], t.Position[2])
	s.SetScale(t.Scale, t.Scale, t.Scale)
	return s, nil
}

func newWater(cfg config.WaterConfig, params *shading.WaterParams) (*renderer.Surface, error) {
	mesh, err := renderer.NewPlane(cfg.Size, cfg.Size, cfg.Segments, cfg.Segments)
	if err != nil {
		return nil, fmt.Errorf("water mesh: %w", err)
	}
	// Baked into the geometry, so the model matrix only translates
	mesh.RotateX(-math.Pi / 2)
	s := renderer.NewSurface("water", mesh, params)
	s.SetPosition(cfg.Position[0], cfg.Position[1], cfg.Position[2])
	return s, nil
}

// Frame returns the number of frames rendered so far.
func (e *Engine) Frame() int { return e.frame }

// SetVariant switches the material variant of terrain and water. Geometry
// is unaffected; the change shows from the next frame.
func (e *Engine) SetVariant(terrain, water shading.Variant) {
	e.TerrainParams.Variant = terrain
	e.WaterParams.Variant = water
	logger.Log.Info("Material variant switched",
		zap.String("terrain", string(terrain)),
		zap.String("water", string(water)))
}

// RenderFrame advances the clock by one step and renders the scene.
func (e *Engine) RenderFrame() (*image.RGBA, error) {
	t := e.Animator.Advance()
	img, err := e.Renderer.Render(e.Camera, e.frame)
	if err != nil {
		return nil, fmt.Errorf("render frame %d: %w", e.frame, err)
	}

	if e.recorder != nil {
		st := e.Renderer.Stats()
		row := telemetry.FrameStats{
			Frame:     e.frame,
			Time:      t,
			Variant:   string(e.TerrainParams.Variant),
			Surfaces:  st.Surfaces,
			Culled:    st.Culled,
			Triangles: st.Triangles,
			Fragments: st.Fragments,
			Coverage:  float64(st.Fragments) / float64(e.Width*e.Height),
		}
		row.SetLuma(telemetry.MeasureLuma(img))
		row.SetTimings(st.Raster, st.Shade)
		if err := e.recorder.Write(row); err != nil {
			return nil, err
		}
	}

	e.frame++
	return img, nil
}

// Run renders frames until n have been produced or ctx is done.
func (e *Engine) Run(ctx context.Context, n int, sink FrameSink) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := e.frame
		img, err := e.RenderFrame()
		if err != nil {
			return err
		}
		if sink != nil {
			if err := sink(frame, img); err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
		}
	}
	logger.Log.Info("Frames rendered",
		zap.Int("frames", n),
		zap.Float32("time", e.Animator.Time),
		zap.String("heightField", e.Source))
	return nil
}

// Close stops the worker pool and flushes telemetry. Later calls are no-ops.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.Renderer.Cleanup()
	return e.recorder.Close()
}
