package material

import "github.com/df07/go-whitted-raytracer/pkg/core"

// NewMatte creates a diffuse-only material
func NewMatte(kd float64) Material {
	m := Default()
	m.KD = core.Uniform(kd)
	return m
}

// NewPlastic creates a material with diffuse and specular highlights
func NewPlastic(kd, ks float64, shininess int) Material {
	m := NewMatte(kd)
	m.KS = core.Uniform(ks)
	m.Shininess = shininess
	return m
}

// NewMirror creates a reflective material with a faint highlight
func NewMirror(kr float64) Material {
	m := NewPlastic(0.1, 0.2, 300)
	m.KR = core.Uniform(kr)
	return m
}

// NewGlass creates a transparent material. Refracted rays keep their direction.
func NewGlass(kt float64) Material {
	m := NewPlastic(0.2, 0.2, 30)
	m.KT = core.Uniform(kt)
	return m
}
