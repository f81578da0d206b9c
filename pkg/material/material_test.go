package material

import (
	"errors"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestDefault(t *testing.T) {
	m := Default()
	if m.KA != core.FactorOne {
		t.Errorf("Expected default ambient coefficient 1, got %v", m.KA)
	}
	if m.Reflective() || m.Transparent() {
		t.Error("Expected default material to be neither reflective nor transparent")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Material)
		wantErr bool
	}{
		{"valid plastic", func(m *Material) { *m = NewPlastic(0.5, 0.5, 100) }, false},
		{"coefficients above one", func(m *Material) { *m = NewPlastic(0.9, 0.9, 10) }, false},
		{"negative diffuse", func(m *Material) { m.KD = core.NewFactor(0.5, -0.1, 0.5) }, true},
		{"negative transparency", func(m *Material) { m.KT = core.Uniform(-1) }, true},
		{"negative shininess", func(m *Material) { m.Shininess = -3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	if !NewMirror(0.9).Reflective() {
		t.Error("Expected mirror to be reflective")
	}
	if !NewGlass(0.7).Transparent() {
		t.Error("Expected glass to be transparent")
	}
	if m := NewPlastic(0.4, 0.6, 80); m.Shininess != 80 || m.KS != core.Uniform(0.6) {
		t.Errorf("Unexpected plastic material %+v", m)
	}
}
