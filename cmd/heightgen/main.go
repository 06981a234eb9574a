// Command heightgen writes a procedural height map PNG usable as the
// terrain displacement source.
//
// Usage: go run ./cmd/heightgen -o h2.png -algorithm simplex -seed 7
package main

import (
	"flag"
	"fmt"
	"os"

	"Terrashade/internal/heightfield"
	"Terrashade/internal/logger"

	"go.uber.org/zap"
)

func main() {
	def := heightfield.DefaultGenerateOptions()
	out := flag.String("o", "h2.png", "Output PNG path")
	size := flag.Int("size", def.Size, "Width and height in pixels")
	seed := flag.Int64("seed", def.Seed, "Noise seed")
	algorithm := flag.String("algorithm", string(def.Algorithm), "Noise algorithm: perlin or simplex")
	frequency := flag.Float64("frequency", def.Frequency, "Base frequency across the map")
	octaves := flag.Int("octaves", def.Octaves, "Noise octaves")
	persistence := flag.Float64("persistence", def.Persistence, "Amplitude falloff per octave")
	falloff := flag.Float64("falloff", def.Falloff, "Blend toward a central mound, 0 = none")
	fallback := flag.Bool("fallback", false, "Write the radial fallback map instead of noise")
	flag.Parse()

	logger.Init()
	defer logger.Sync()

	opts := heightfield.GenerateOptions{
		Size:        *size,
		Seed:        *seed,
		Algorithm:   heightfield.Algorithm(*algorithm),
		Frequency:   *frequency,
		Octaves:     *octaves,
		Persistence: *persistence,
		Falloff:     *falloff,
	}
	if err := run(*out, opts, *fallback); err != nil {
		logger.Log.Error("heightgen failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(path string, opts heightfield.GenerateOptions, fallback bool) error {
	var (
		field *heightfield.Field
		err   error
	)
	if fallback {
		field = heightfield.Fallback(opts.Size)
	} else if field, err = heightfield.Generate(opts); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := heightfield.EncodePNG(f, field); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	lo, hi := field.Range()
	logger.Log.Info("Height map written",
		zap.String("path", path),
		zap.Int("size", field.Width),
		zap.String("algorithm", string(opts.Algorithm)),
		zap.Bool("fallback", fallback),
		zap.Float32("min", lo),
		zap.Float32("max", hi))
	return nil
}
