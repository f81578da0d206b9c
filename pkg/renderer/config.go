package renderer

import (
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// TracerConfig contains shading recursion and shadow sampling settings
type TracerConfig struct {
	MaxDepth      int            // Maximum reflection/refraction depth
	MinWeight     float64        // Stop recursing once the accumulated coefficient falls below this
	ShadowSamples int            // Grid size per side for soft shadows (1 = hard shadows)
	ShadowShape   core.GridShape // Footprint of the soft shadow grid
}

// DefaultTracerConfig returns sensible default values
func DefaultTracerConfig() TracerConfig {
	return TracerConfig{
		MaxDepth:      10,
		MinWeight:     0.001,
		ShadowSamples: 1,
		ShadowShape:   core.GridCircle,
	}
}

// Validate rejects settings that cannot bound the recursion
func (c TracerConfig) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must be non-negative, got %d", core.ErrInvalidConfig, c.MaxDepth)
	}
	if c.MinWeight < 0 || c.MinWeight > 1 {
		return fmt.Errorf("%w: min weight must be in [0, 1], got %g", core.ErrInvalidConfig, c.MinWeight)
	}
	if c.ShadowSamples < 1 {
		return fmt.Errorf("%w: shadow samples must be at least 1, got %d", core.ErrInvalidConfig, c.ShadowSamples)
	}
	return nil
}

// TracerOverride holds optional replacements for a TracerConfig.
// Nil fields keep the base value, so zero depth or GridSquare can be selected.
type TracerOverride struct {
	MaxDepth      *int
	MinWeight     *float64
	ShadowSamples *int
	ShadowShape   *core.GridShape
}

// Apply returns base with every set field of the override replaced
func (o TracerOverride) Apply(base TracerConfig) TracerConfig {
	result := base
	if o.MaxDepth != nil {
		result.MaxDepth = *o.MaxDepth
	}
	if o.MinWeight != nil {
		result.MinWeight = *o.MinWeight
	}
	if o.ShadowSamples != nil {
		result.ShadowSamples = *o.ShadowSamples
	}
	if o.ShadowShape != nil {
		result.ShadowShape = *o.ShadowShape
	}
	return result
}

// RenderMode selects how pixels are distributed across goroutines
type RenderMode int

const (
	// RenderPool has a fixed set of workers claim pixels from a shared atomic counter
	RenderPool RenderMode = iota
	// RenderSequential renders every pixel on the calling goroutine
	RenderSequential
	// RenderScanline starts one goroutine per image row
	RenderScanline
)

func (m RenderMode) String() string {
	switch m {
	case RenderPool:
		return "pool"
	case RenderSequential:
		return "sequential"
	case RenderScanline:
		return "scanline"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseRenderMode converts a mode name to a RenderMode
func ParseRenderMode(name string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pool", "parallel", "":
		return RenderPool, nil
	case "sequential", "single":
		return RenderSequential, nil
	case "scanline", "rows":
		return RenderScanline, nil
	default:
		return 0, fmt.Errorf("%w: unknown render mode %q", core.ErrInvalidConfig, name)
	}
}

// RenderConfig contains configuration for distributing pixels
type RenderConfig struct {
	Mode         RenderMode
	Workers      int // Number of pool workers (0 = use CPU count)
	ProgressStep int // Log progress every this many percent (0 = silent)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Mode:         RenderPool,
		Workers:      0,
		ProgressStep: 10,
	}
}
