package core

import "fmt"

// Color is a non-negative RGB radiance triple. Channels are not clamped
// until the image is written.
type Color struct {
	R, G, B float64
}

// Black is the zero color
var Black = Color{}

// NewColor creates a new Color, flooring negative channels at zero
func NewColor(r, g, b float64) Color {
	return Color{R: max(0, r), G: max(0, g), B: max(0, b)}
}

// Add returns the channel-wise sum of colors
func (c Color) Add(others ...Color) Color {
	for _, o := range others {
		c.R += o.R
		c.G += o.G
		c.B += o.B
	}
	return c
}

// Scale returns the color multiplied by a scalar
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k}
}

// Attenuate returns the color multiplied channel-wise by a coefficient triple
func (c Color) Attenuate(f Factor) Color {
	return Color{c.R * f.R, c.G * f.G, c.B * f.B}
}

// Reduce returns the color divided by n
func (c Color) Reduce(n int) Color {
	return c.Scale(1.0 / float64(n))
}

// IsBlack reports whether every channel is zero within Epsilon
func (c Color) IsBlack() bool {
	return IsZero(c.R) && IsZero(c.G) && IsZero(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%g, %g, %g)", c.R, c.G, c.B)
}

// Factor is a per-channel coefficient triple used for material coefficients
// and accumulated ray weights
type Factor struct {
	R, G, B float64
}

// Common factors
var (
	FactorZero = Factor{}
	FactorOne  = Factor{1, 1, 1}
)

// NewFactor creates a new per-channel Factor
func NewFactor(r, g, b float64) Factor {
	return Factor{R: r, G: g, B: b}
}

// Uniform broadcasts a scalar to all three channels
func Uniform(k float64) Factor {
	return Factor{k, k, k}
}

// Product returns the channel-wise product of two factors
func (f Factor) Product(other Factor) Factor {
	return Factor{f.R * other.R, f.G * other.G, f.B * other.B}
}

// Scale returns the factor multiplied by a scalar
func (f Factor) Scale(k float64) Factor {
	return Factor{f.R * k, f.G * k, f.B * k}
}

// Add returns the channel-wise sum of two factors
func (f Factor) Add(other Factor) Factor {
	return Factor{f.R + other.R, f.G + other.G, f.B + other.B}
}

// LowerThan reports whether every channel is below k
func (f Factor) LowerThan(k float64) bool {
	return f.R < k && f.G < k && f.B < k
}

// IsZero reports whether every channel is zero within Epsilon
func (f Factor) IsZero() bool {
	return IsZero(f.R) && IsZero(f.G) && IsZero(f.B)
}

// Negative reports whether any channel is below zero
func (f Factor) Negative() bool {
	return f.R < 0 || f.G < 0 || f.B < 0
}

func (f Factor) String() string {
	return fmt.Sprintf("(%g, %g, %g)", f.R, f.G, f.B)
}
