// Command terrashade renders animated frames of the shaded terrain and
// water scene to PNG files.
//
// Usage: go run ./cmd/terrashade -frames 60 -out frames
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"Terrashade/internal/config"
	"Terrashade/internal/engine"
	"Terrashade/internal/logger"
	"Terrashade/internal/shading"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 1, "Number of frames to render")
	outDir := flag.String("out", "frames", "Directory for frame_NNNN.png files")
	variant := flag.String("variant", "", "Material variant for terrain and water: procedural or flat-lit (empty = use config)")
	heightMap := flag.String("heightmap", "", "Comma-separated height map locations, files or URLs (empty = use config)")
	csvPath := flag.String("csv", "", "Frame statistics CSV path (empty = use config)")
	dumpConfig := flag.String("dump-config", "", "Write the effective config to this path and exit")
	probe := flag.String("probe", "", "Log the shading stages of pixel \"x,y\" after the last frame")
	flag.Parse()

	logger.Init()
	defer logger.Sync()

	opts := options{
		configPath: *configPath,
		frames:     *frames,
		outDir:     *outDir,
		variant:    *variant,
		heightMap:  *heightMap,
		csvPath:    *csvPath,
		dumpConfig: *dumpConfig,
		probe:      *probe,
	}
	if err := run(opts); err != nil {
		logger.Log.Error("terrashade failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	frames     int
	outDir     string
	variant    string
	heightMap  string
	csvPath    string
	dumpConfig string
	probe      string
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.variant != "" {
		v, err := shading.ParseVariant(opts.variant)
		if err != nil {
			return err
		}
		cfg.Terrain.Variant, cfg.Water.Variant = string(v), string(v)
		cfg.Derived.TerrainVariant, cfg.Derived.WaterVariant = v, v
	}
	if opts.heightMap != "" {
		cfg.HeightField.Locations = strings.Split(opts.heightMap, ",")
	}
	if opts.csvPath != "" {
		cfg.Telemetry.CSVPath = opts.csvPath
	}
	if opts.dumpConfig != "" {
		return cfg.WriteYAML(opts.dumpConfig)
	}
	var px, py int
	if opts.probe != "" {
		if _, err := fmt.Sscanf(opts.probe, "%d,%d", &px, &py); err != nil {
			return fmt.Errorf("parsing -probe %q: %w", opts.probe, err)
		}
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := engine.New(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer eng.Close()

	err = eng.Run(ctx, opts.frames, func(frame int, img *image.RGBA) error {
		return writePNG(filepath.Join(opts.outDir, fmt.Sprintf("frame_%04d.png", frame)), img)
	})
	if err != nil || opts.probe == "" {
		return err
	}
	logProbe(eng, px, py)
	return nil
}

func logProbe(eng *engine.Engine, x, y int) {
	p, ok := eng.Probe(x, y)
	if !ok {
		logger.Log.Info("Probe hit the background", zap.Int("x", x), zap.Int("y", y))
		return
	}
	fields := []zap.Field{
		zap.Int("x", x),
		zap.Int("y", y),
		zap.String("surface", p.Surface),
		zap.Float32("distance", p.Hit.Distance),
		zap.Any("position", p.Hit.Position),
		zap.Any("uv", p.Hit.UV),
		zap.Any("color", p.Color),
	}
	if p.Terrain != nil {
		fields = append(fields, zap.Any("terrain", p.Terrain))
	}
	if p.Water != nil {
		fields = append(fields, zap.Any("water", p.Water))
	}
	logger.Log.Info("Probe", fields...)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
