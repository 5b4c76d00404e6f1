package geometry

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Faultbox/plyview/pkg/math"
	"github.com/Faultbox/plyview/pkg/ply"
)

var (
	tetraVertices = []math.Vec3{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	tetraFaces = []ply.Face{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
)

func writeModel(t *testing.T, path string, vertices []math.Vec3, faces []ply.Face) {
	t.Helper()
	var buf bytes.Buffer
	if err := ply.Encode(&buf, vertices, faces); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestCache_HitSkipsReparse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.ply")
	writeModel(t, path, tetraVertices, tetraFaces)

	c := NewCache()
	first, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.FaceCount != 4 {
		t.Errorf("FaceCount = %d, want 4", first.FaceCount)
	}

	// Overwrite the file; a cached path must not be read again.
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	second, err := c.Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("second Load returned a different mesh")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (1, 1)", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_RelativeAndAbsoluteShareEntry(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, filepath.Join(dir, "tetra.ply"), tetraVertices, tetraFaces)
	t.Chdir(dir)

	c := NewCache()
	rel, err := c.Load("tetra.ply")
	if err != nil {
		t.Fatalf("Load relative: %v", err)
	}
	abs, err := c.Load(filepath.Join(dir, "tetra.ply"))
	if err != nil {
		t.Fatalf("Load absolute: %v", err)
	}
	if rel != abs || c.Len() != 1 {
		t.Errorf("relative and absolute paths were cached separately (Len=%d)", c.Len())
	}
}

func TestCache_OpenFailure(t *testing.T) {
	c := NewCache()
	_, err := c.Load(filepath.Join(t.TempDir(), "missing.ply"))

	var openErr *FileOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("Load = %v, want *FileOpenError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("FileOpenError should wrap fs.ErrNotExist, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failed open", c.Len())
	}
}

func TestCache_ParseFailureNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ply")
	if err := os.WriteFile(path, []byte("not a ply file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	if _, err := c.Load(path); !errors.Is(err, ply.ErrInvalidMagic) {
		t.Fatalf("Load = %v, want ErrInvalidMagic", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after parse failure", c.Len())
	}

	// A fixed file is picked up on the next request.
	writeModel(t, path, tetraVertices, tetraFaces)
	m, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load after fix: %v", err)
	}
	if m.VertexCount != 4 {
		t.Errorf("VertexCount = %d, want 4", m.VertexCount)
	}
}

func TestCache_OutOfRangeIndexNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ply")

	// Encode refuses bad indices, so patch the last index of the only face.
	writeModel(t, path, tetraVertices[:3], []ply.Face{{0, 1, 2}})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-4] = 9
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	if _, err := c.Load(path); !errors.Is(err, ply.ErrIndexOutOfRange) {
		t.Fatalf("Load = %v, want ErrIndexOutOfRange", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCache_ConcurrentLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.ply")
	writeModel(t, path, tetraVertices, tetraFaces)

	c := NewCache()
	const n = 8
	meshes := make([]*ply.Mesh, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			meshes[i], errs[i] = c.Load(path)
		}()
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("Load[%d]: %v", i, errs[i])
		}
		if meshes[i] != meshes[0] {
			t.Errorf("Load[%d] returned a different mesh", i)
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
