package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene         string
	mode          renderer.RenderMode
	workers       int
	accel         string // Empty keeps the scene's own mode
	depth         int
	depthSet      bool // False keeps the scene's depth
	samples       int
	shadowSamples int // Zero keeps the scene's setting
	width         int
	height        int
	output        string
	list          bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	mode := fs.String("mode", "pool", "Render mode: 'sequential', 'pool' or 'scanline'")
	fs.StringVar(&opts.scene, "scene", "default", "Scene: built-in name, xml:<name> or path to an XML file")
	fs.IntVar(&opts.workers, "workers", 0, "Worker goroutines for pool mode (0 = number of CPUs)")
	fs.StringVar(&opts.accel, "accel", "", "Acceleration: 'none', 'flat' or 'hierarchy' (default: scene setting)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum reflection/refraction depth (default: scene setting)")
	fs.IntVar(&opts.samples, "samples", 0, "Supersampling grid size per pixel side (default: scene setting)")
	fs.IntVar(&opts.shadowSamples, "shadow-samples", 0, "Soft shadow grid size per side (default: scene setting)")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (default: scene setting)")
	fs.IntVar(&opts.height, "height", 0, "Image height in pixels (default: scene setting)")
	fs.StringVar(&opts.output, "output", "", "Output PNG path (default: output/<scene>/render_<timestamp>.png)")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Whitted Raytracer")
		fmt.Fprintln(stderr, "Usage: raytracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "depth" {
			opts.depthSet = true
		}
	})

	var err error
	if opts.mode, err = renderer.ParseRenderMode(*mode); err != nil {
		return opts, err
	}
	if opts.accel != "" {
		if _, err := geometry.ParseAcceleration(opts.accel); err != nil {
			return opts, err
		}
	}
	if opts.depth < 0 || opts.samples < 0 || opts.shadowSamples < 0 || opts.width < 0 || opts.height < 0 || opts.workers < 0 {
		return opts, fmt.Errorf("%w: numeric flags must be non-negative", core.ErrInvalidConfig)
	}
	return opts, nil
}

// createScene loads the scene and applies the command line overrides
func createScene(opts options) (*scene.Scene, error) {
	if opts.scene == "" {
		return nil, fmt.Errorf("no scene given")
	}

	overrides := renderer.CameraConfig{
		ResolutionX: opts.width,
		ResolutionY: opts.height,
		Samples:     opts.samples,
	}
	load := scene.Load
	if strings.HasSuffix(opts.scene, ".xml") {
		load = scene.NewXMLScene
	}
	s, err := load(opts.scene, overrides)
	if err != nil {
		return nil, err
	}

	var override renderer.TracerOverride
	if opts.depthSet {
		override.MaxDepth = &opts.depth
	}
	if opts.shadowSamples != 0 {
		override.ShadowSamples = &opts.shadowSamples
	}
	s.TracerConfig = override.Apply(s.TracerConfig)
	if opts.accel != "" {
		mode, err := geometry.ParseAcceleration(opts.accel)
		if err != nil {
			return nil, err
		}
		s.Acceleration = mode
	}
	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

// outputPath returns the explicit path or a timestamped one under output/<scene>
func outputPath(opts options, s *scene.Scene, now time.Time) string {
	if opts.output != "" {
		return opts.output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", s.Name, fmt.Sprintf("render_%s.png", timestamp))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.list {
		scenes, err := scene.ListAllScenes()
		if err != nil {
			return err
		}
		for _, info := range scenes {
			fmt.Fprintf(stdout, "  %-14s %s\n", info.ID, info.Description)
		}
		return nil
	}

	logger := renderer.NewDefaultLogger()
	logger.Printf("Starting Whitted Raytracer...\n")

	s, err := createScene(opts)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	stats := s.Root.Stats()
	logger.Printf("Scene %s: %d primitives, %d lights, acceleration %s (%d nodes, %d leaves, depth %d)\n",
		s.Name, s.GetPrimitiveCount(), len(s.Lights), s.Acceleration, stats.Nodes, stats.Leaves, stats.MaxDepth)

	tracer, err := renderer.NewTracer(s, s.TracerConfig)
	if err != nil {
		return err
	}
	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		return err
	}

	config := renderer.DefaultRenderConfig()
	config.Mode = opts.mode
	config.Workers = opts.workers
	r, err := renderer.NewRenderer(tracer, camera, config, logger)
	if err != nil {
		return err
	}

	img := renderer.NewImage(camera.ResolutionX(), camera.ResolutionY())
	if _, err := r.Render(ctx, img); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	filename := outputPath(opts, s, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := img.SavePNG(filename); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
