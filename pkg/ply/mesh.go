package ply

import (
	"fmt"

	"github.com/Faultbox/plyview/pkg/math"
)

// Mesh is a triangle mesh decoded from a PLY file.
// A Mesh must not be modified once returned by Decode; it is shared
// read-only between the geometry cache and the renderer.
type Mesh struct {
	VertexCount uint32
	FaceCount   uint32

	// IndexedVertices holds one position per distinct vertex, in file order.
	IndexedVertices []math.Vec3
	// IndexedNormals holds the mean of the face normals adjacent to each
	// indexed vertex. It is not renormalized.
	IndexedNormals []math.Vec3
	// Faces holds the vertex indices of each triangle.
	Faces []Face

	// Vertices holds FaceCount*3 positions, triangle by triangle.
	Vertices []math.Vec3
	// Normals holds the flat face normal for each entry of Vertices.
	Normals []math.Vec3

	// ModelCenter is the mean of IndexedVertices (zero for an empty mesh).
	ModelCenter math.Vec3
}

// DrawCount returns the number of vertices for a non-indexed draw call.
func (m *Mesh) DrawCount() int {
	return int(m.FaceCount) * 3
}

// ModelTranslation returns the model-to-world transform that moves
// ModelCenter to the origin.
func (m *Mesh) ModelTranslation() math.Mat4 {
	return math.TranslateVec3(m.ModelCenter.Negate())
}

// Bounds returns the axis-aligned bounding box of the indexed vertices.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.IndexedVertices) == 0 {
		return
	}
	lo, hi = m.IndexedVertices[0], m.IndexedVertices[0]
	for _, v := range m.IndexedVertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// Radius returns the largest distance from ModelCenter to any vertex.
func (m *Mesh) Radius() float32 {
	var r float32
	for _, v := range m.IndexedVertices {
		r = max(r, v.Distance(m.ModelCenter))
	}
	return r
}

// FlatVertexData returns Vertices as packed xyz floats for GPU upload.
func (m *Mesh) FlatVertexData() []float32 {
	return flatten(m.Vertices)
}

// FlatNormalData returns Normals as packed xyz floats for GPU upload.
func (m *Mesh) FlatNormalData() []float32 {
	return flatten(m.Normals)
}

// SmoothNormalData returns the smoothed normal of every triangle corner,
// packed like FlatNormalData so the two can share a vertex layout.
func (m *Mesh) SmoothNormalData() []float32 {
	out := make([]float32, 0, len(m.Faces)*9)
	for _, f := range m.Faces {
		for _, vi := range f {
			n := m.IndexedNormals[vi]
			out = append(out, n.X, n.Y, n.Z)
		}
	}
	return out
}

// String returns a short summary for logs.
func (m *Mesh) String() string {
	return fmt.Sprintf("Mesh{vertices: %d, faces: %d, center: (%.3f, %.3f, %.3f)}",
		m.VertexCount, m.FaceCount, m.ModelCenter.X, m.ModelCenter.Y, m.ModelCenter.Z)
}

func flatten(vs []math.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}
