package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageWriter receives exactly one color per pixel
type ImageWriter interface {
	WritePixel(x, y int, c core.Color)
}

// Image is a radiance buffer on the 0..255 scale. Distinct pixels may be
// written from different goroutines.
type Image struct {
	width  int
	height int
	pixels []core.Color
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{width: width, height: height, pixels: make([]core.Color, width*height)}
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// WritePixel stores the color of pixel (x, y)
func (img *Image) WritePixel(x, y int, c core.Color) {
	img.pixels[y*img.width+x] = c
}

// At returns the color of pixel (x, y)
func (img *Image) At(x, y int) core.Color {
	return img.pixels[y*img.width+x]
}

// ToRGBA converts the buffer to 8-bit channels, clamping at 255
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			out.SetRGBA(x, y, toRGBA(img.At(x, y)))
		}
	}
	return out
}

// toRGBA converts a color with proper clamping
func toRGBA(c core.Color) color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// EncodePNG writes the image as PNG
func (img *Image) EncodePNG(w io.Writer) error {
	return png.Encode(w, img.ToRGBA())
}

// SavePNG writes the image to a PNG file
func (img *Image) SavePNG(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := img.EncodePNG(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return file.Close()
}
