package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/plyview/internal/geometry"
	"github.com/Faultbox/plyview/pkg/ply"
)

func TestGenerate_Tetra(t *testing.T) {
	vertices, faces, err := generate("tetra", 0, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(vertices) != 4 || len(faces) != 4 {
		t.Fatalf("got %d vertices, %d faces", len(vertices), len(faces))
	}

	for i, f := range faces {
		p0, p1, p2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		center := p0.Add(p1).Add(p2)
		if ply.FaceNormal(p0, p1, p2).Dot(center) <= 0 {
			t.Errorf("face %d points inward", i)
		}
	}
}

func TestGenerate_SphereFacesOutward(t *testing.T) {
	vertices, faces, err := generate("sphere", 16, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(faces) == 0 {
		t.Fatal("no faces generated")
	}

	for _, v := range vertices {
		if r := v.Length(); r < 0.8 || r > 1.2 {
			t.Fatalf("vertex %v has radius %f, want about 1", v, r)
		}
	}
	for i, f := range faces {
		p0, p1, p2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		if ply.FaceNormal(p0, p1, p2).Dot(p0.Add(p1).Add(p2)) < 0 {
			t.Fatalf("face %d points inward", i)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape string
		cells int
		size  float64
	}{
		{"unknown shape", "torus", 16, 1},
		{"zero size", "sphere", 16, 0},
		{"too few cells", "box", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := generate(tt.shape, tt.cells, tt.size); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenInfoNormals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.ply")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"gen", "tetra", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("gen: %v", err)
	}
	if !strings.Contains(out.String(), "4 vertices, 4 faces") {
		t.Errorf("gen output = %q", out.String())
	}

	out.Reset()
	if err := runInfo(&out, path); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"Format:     binary_little_endian 1.0",
		"Comment:    generated by plytool tetra",
		"Vertices:   4",
		"Faces:      4",
		"Center:     (0.0000, 0.0000, 0.0000)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, out.String())
		}
	}

	cache := geometry.NewCache()

	out.Reset()
	if err := runNormals(&out, cache, path, false, 0); err != nil {
		t.Fatalf("normals: %v", err)
	}
	if n := strings.Count(out.String(), "face "); n != 4 {
		t.Errorf("printed %d face normals, want 4", n)
	}

	out.Reset()
	if err := runNormals(&out, cache, path, true, 2); err != nil {
		t.Fatalf("normals --smooth: %v", err)
	}
	if n := strings.Count(out.String(), "vertex "); n != 2 {
		t.Errorf("printed %d vertex normals, want 2", n)
	}
	if hits, misses := cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("cache stats = (%d, %d), want (1, 1)", hits, misses)
	}
}
