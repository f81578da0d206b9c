package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

const asciiCube = `ply
format ascii 1.0
comment unit quad plus triangle
element vertex 5
property float x
property float y
property float z
property uchar red
element face 2
property list uchar int vertex_indices
end_header
0 0 0 255
1 0 0 255
1 1 0 255
0 1 0 255
0 0 1 255
4 0 1 2 3
3 0 1 4
`

// createTestPLY builds a binary PLY with a single triangle in the given byte order
func createTestPLY(t *testing.T, format string, order binary.ByteOrder) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("element vertex 3\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	buf.WriteString("element face 1\n")
	buf.WriteString("property list uchar uint vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}}
	for _, v := range vertices {
		if err := binary.Write(&buf, order, v); err != nil {
			t.Fatal(err)
		}
	}
	buf.WriteByte(3)
	for _, index := range []uint32{0, 1, 2} {
		if err := binary.Write(&buf, order, index); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestParsePLYAscii(t *testing.T) {
	data, err := ParsePLY(strings.NewReader(asciiCube))
	if err != nil {
		t.Fatalf("ParsePLY failed: %v", err)
	}

	if len(data.Vertices) != 5 {
		t.Fatalf("expected 5 vertices, got %d", len(data.Vertices))
	}
	if !data.Vertices[2].Equals(core.NewPoint(1, 1, 0)) {
		t.Errorf("vertex 2 = %v", data.Vertices[2])
	}

	// Quad fans into two triangles, plus the explicit triangle
	if data.TriangleCount() != 3 {
		t.Fatalf("expected 3 triangles, got %d", data.TriangleCount())
	}
	expected := []int{0, 1, 2, 0, 2, 3, 0, 1, 4}
	for i, index := range expected {
		if data.Faces[i] != index {
			t.Errorf("face index %d = %d, expected %d", i, data.Faces[i], index)
		}
	}
}

func TestParsePLYBinary(t *testing.T) {
	tests := []struct {
		format string
		order  binary.ByteOrder
	}{
		{"binary_little_endian", binary.LittleEndian},
		{"binary_big_endian", binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := ParsePLY(bytes.NewReader(createTestPLY(t, tt.format, tt.order)))
			if err != nil {
				t.Fatalf("ParsePLY failed: %v", err)
			}
			if len(data.Vertices) != 3 || data.TriangleCount() != 1 {
				t.Fatalf("got %d vertices and %d triangles", len(data.Vertices), data.TriangleCount())
			}
			if !data.Vertices[1].Equals(core.NewPoint(2, 0, 0)) || !data.Vertices[2].Equals(core.NewPoint(0, 3, 0)) {
				t.Errorf("unexpected vertices %v", data.Vertices)
			}
		})
	}
}

func TestParsePLYErrors(t *testing.T) {
	tests := map[string]string{
		"missing magic":    "plx\nformat ascii 1.0\nend_header\n",
		"unknown format":   "ply\nformat binary_middle_endian 1.0\nend_header\n",
		"no end_header":    "ply\nformat ascii 1.0\nelement vertex 1\n",
		"unknown type":     "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n",
		"truncated data":   "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n",
		"bad index":        "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n3 0 1 2\n",
		"short face":       "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n2 0 1\n",
		"missing z":        "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n",
		"orphan property":  "ply\nformat ascii 1.0\nproperty float x\nend_header\n",
		"not a number":     "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 zero 0\n",
		"truncated binary": "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n\x00\x00",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePLY(strings.NewReader(input)); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

func TestLoadPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiCube), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY failed: %v", err)
	}
	if data.TriangleCount() != 3 {
		t.Errorf("expected 3 triangles, got %d", data.TriangleCount())
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("expected error for missing file")
	}
}
