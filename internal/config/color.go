package config

import (
	"fmt"
	"strconv"
	"strings"

	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Color is an RGB colour in [0,1]. In YAML it is either a hex string
// ("#6b7501" or "0x6b7501") or a three-element float list.
type Color mgl32.Vec3

// Vec3 returns the channels as a vector.
func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3(c) }

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		rgb, err := parseHex(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*c = Color(shading.Hex(rgb))
		return nil
	case yaml.SequenceNode:
		var v [3]float32
		if err := value.Decode(&v); err != nil {
			return err
		}
		*c = Color(v)
		return nil
	}
	return fmt.Errorf("line %d: colour must be a hex string or a list of three numbers", value.Line)
}

// MarshalYAML writes the colour back as a float list so no precision is
// lost on a round trip.
func (c Color) MarshalYAML() (interface{}, error) {
	return []float32{c[0], c[1], c[2]}, nil
}

func parseHex(s string) (uint32, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(h) != 6 {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	return uint32(v), nil
}
