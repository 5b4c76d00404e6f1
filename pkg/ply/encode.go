package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	gomath "math"

	"github.com/Faultbox/plyview/pkg/math"
)

// Face is a triangle given as three indices into a vertex list.
type Face [3]uint32

// Encode writes vertices and triangular faces as a binary little-endian PLY file.
func Encode(w io.Writer, vertices []math.Vec3, faces []Face, comments ...string) error {
	for i, f := range faces {
		for _, idx := range f {
			if int(idx) >= len(vertices) {
				return formatErrorf(ErrIndexOutOfRange, "face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, magicLine)
	fmt.Fprintf(bw, "%s%s %s\n", formatPrefix, binaryLEFormat, defaultVersion)
	for _, c := range comments {
		fmt.Fprintf(bw, "%s%s\n", commentPrefix, c)
	}
	fmt.Fprintf(bw, "%s%d\n", vertexPrefix, len(vertices))
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintf(bw, "%s%d\n", facePrefix, len(faces))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, endHeaderLine)

	buf := make([]byte, 0, 13)
	for _, v := range vertices {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v.X))
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v.Y))
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v.Z))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	for _, f := range faces {
		buf = buf[:0]
		buf = append(buf, 3)
		for _, idx := range f {
			buf = binary.LittleEndian.AppendUint32(buf, idx)
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// IndexTriangles welds a triangle soup into shared vertices, so that
// the decoded mesh gets meaningful smoothed normals. Vertices are
// merged only when their positions are bit-for-bit equal.
func IndexTriangles(tris [][3]math.Vec3) ([]math.Vec3, []Face) {
	lookup := make(map[math.Vec3]uint32, len(tris))
	vertices := make([]math.Vec3, 0, len(tris))
	faces := make([]Face, 0, len(tris))

	for _, tri := range tris {
		var f Face
		for j, p := range tri {
			idx, ok := lookup[p]
			if !ok {
				idx = uint32(len(vertices))
				lookup[p] = idx
				vertices = append(vertices, p)
			}
			f[j] = idx
		}
		faces = append(faces, f)
	}
	return vertices, faces
}
