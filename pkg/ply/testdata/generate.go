//go:build ignore

// This program generates the tetrahedron fixture used by unit tests.
// Run with: go run generate.go
package main

import (
	"os"

	"github.com/Faultbox/plyview/pkg/math"
	"github.com/Faultbox/plyview/pkg/ply"
)

func main() {
	vertices := []math.Vec3{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	faces := []ply.Face{
		{0, 1, 2},
		{0, 3, 1},
		{0, 2, 3},
		{1, 3, 2},
	}

	f, err := os.Create("tetra.ply")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if err := ply.Encode(f, vertices, faces, "regular tetrahedron"); err != nil {
		panic(err)
	}
}
