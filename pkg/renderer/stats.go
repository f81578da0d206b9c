package renderer

import (
	"fmt"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Mode        RenderMode
	Workers     int           // Goroutines that traced pixels
	TotalPixels int           // Pixels written
	PrimaryRays int           // Camera rays, including supersamples
	RaysTraced  int64         // Primary plus reflected and refracted rays
	Duration    time.Duration // Wall time of the render
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d pixels, %d primary rays, %d rays traced in %v (%s, %d workers)",
		s.TotalPixels, s.PrimaryRays, s.RaysTraced, s.Duration.Round(time.Millisecond), s.Mode, s.Workers)
}
