package ply

import (
	"fmt"
	"io"

	"github.com/Faultbox/plyview/pkg/math"
)

// maxPrealloc caps up-front slice allocation so a corrupt count in the
// header cannot reserve gigabytes before the body runs out.
const maxPrealloc = 1 << 20

// Decode parses a complete PLY stream into a Mesh.
func Decode(r io.Reader) (*Mesh, error) {
	pr := NewReader(r)

	h, err := ParseHeader(pr)
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	m, err := LoadGeometry(pr, h)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LoadGeometry reads the vertex and face blocks that follow the header,
// computes flat and smoothed normals, and returns the finished Mesh.
func LoadGeometry(r *Reader, h Header) (*Mesh, error) {
	m := &Mesh{
		VertexCount: h.VertexCount,
		FaceCount:   h.FaceCount,
	}

	if err := readVertices(r, m); err != nil {
		return nil, err
	}

	acc := NewNormalAccumulator(len(m.IndexedVertices))
	if err := readFaces(r, m, acc); err != nil {
		return nil, err
	}
	m.IndexedNormals = acc.Mean()

	return m, nil
}

// readVertices fills IndexedVertices and ModelCenter.
func readVertices(r *Reader, m *Mesh) error {
	n := int(m.VertexCount)
	m.IndexedVertices = make([]math.Vec3, 0, min(n, maxPrealloc))

	var sum math.Vec3
	for i := 0; i < n; i++ {
		v, err := r.ReadVec3()
		if err != nil {
			return fmt.Errorf("reading vertex %d of %d: %w", i, n, err)
		}
		m.IndexedVertices = append(m.IndexedVertices, v)
		sum = sum.Add(v)
	}

	// An empty vertex block has no center; leave it at the origin.
	if n > 0 {
		m.ModelCenter = sum.Scale(1 / float32(n))
	}
	return nil
}

// readFaces fills Vertices and Normals and feeds every face normal to acc.
func readFaces(r *Reader, m *Mesh, acc *NormalAccumulator) error {
	n := int(m.FaceCount)
	m.Vertices = make([]math.Vec3, 0, min(n*3, maxPrealloc))
	m.Normals = make([]math.Vec3, 0, min(n*3, maxPrealloc))
	m.Faces = make([]Face, 0, min(n, maxPrealloc))

	for i := 0; i < n; i++ {
		idx, err := readFace(r, i, m.VertexCount)
		if err != nil {
			return err
		}

		p0 := m.IndexedVertices[idx[0]]
		p1 := m.IndexedVertices[idx[1]]
		p2 := m.IndexedVertices[idx[2]]
		normal := FaceNormal(p0, p1, p2)

		m.Vertices = append(m.Vertices, p0, p1, p2)
		m.Normals = append(m.Normals, normal, normal, normal)
		m.Faces = append(m.Faces, Face{uint32(idx[0]), uint32(idx[1]), uint32(idx[2])})

		for _, vi := range idx {
			acc.Add(vi, normal)
		}
	}
	return nil
}

// readFace reads one face record and validates it as a triangle whose
// indices address existing vertices.
func readFace(r *Reader, face int, vertexCount uint32) ([3]int, error) {
	var idx [3]int

	k, err := r.ReadUint8()
	if err != nil {
		return idx, fmt.Errorf("reading face %d: %w", face, err)
	}
	if k != 3 {
		return idx, formatErrorf(ErrNonTriangleFace, "face %d has %d indices", face, k)
	}

	for j := 0; j < 3; j++ {
		v, err := r.ReadInt32()
		if err != nil {
			return idx, fmt.Errorf("reading face %d index %d: %w", face, j, err)
		}
		if v < 0 || int64(v) >= int64(vertexCount) {
			return idx, formatErrorf(ErrIndexOutOfRange, "face %d index %d is %d, vertex count %d", face, j, v, vertexCount)
		}
		idx[j] = int(v)
	}
	return idx, nil
}

// FaceNormal returns the unit normal of triangle (p0, p1, p2) with
// counter-clockwise winding. Degenerate triangles give the zero vector.
func FaceNormal(p0, p1, p2 math.Vec3) math.Vec3 {
	v0 := p1.Sub(p0)
	v1 := p2.Sub(p0)
	return v0.Cross(v1).Normalize()
}
