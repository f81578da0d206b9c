package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material holds the Phong coefficients of a surface.
// Coefficients are not required to sum to one.
type Material struct {
	KD        core.Factor // Diffuse
	KS        core.Factor // Specular
	KA        core.Factor // Ambient
	KR        core.Factor // Reflection
	KT        core.Factor // Transparency
	Shininess int         // Specular exponent
}

// Default returns a material that only reflects ambient light
func Default() Material {
	return Material{KA: core.FactorOne}
}

// Validate reports negative coefficients or a negative shininess
func (m Material) Validate() error {
	for name, k := range map[string]core.Factor{"kd": m.KD, "ks": m.KS, "ka": m.KA, "kr": m.KR, "kt": m.KT} {
		if k.Negative() {
			return fmt.Errorf("%w: negative %s coefficient %v", core.ErrInvalidConfig, name, k)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("%w: negative shininess %d", core.ErrInvalidConfig, m.Shininess)
	}
	return nil
}

// Reflective reports whether reflected rays contribute
func (m Material) Reflective() bool {
	return !m.KR.IsZero()
}

// Transparent reports whether refracted rays contribute
func (m Material) Transparent() bool {
	return !m.KT.IsZero()
}
