package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/plyview/internal/logger"
	"github.com/Faultbox/plyview/pkg/math"
	"github.com/Faultbox/plyview/pkg/ply"
)

const defaultCells = 48

func newGenCmd() *cobra.Command {
	var (
		cells int
		size  float64
	)

	cmd := &cobra.Command{
		Use:   "gen <sphere|box|cylinder|tetra> <out.ply>",
		Short: "Write a generated test mesh",
		Long: `Write a generated test mesh.

sphere, box and cylinder are tessellated with marching cubes over --cells
cells along the longest axis; tetra is an exact regular tetrahedron.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vertices, faces, err := generate(args[0], cells, size)
			if err != nil {
				return err
			}
			if err := writeMesh(args[1], vertices, faces, "generated by plytool "+args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d vertices, %d faces\n", args[1], len(vertices), len(faces))
			return nil
		},
	}
	cmd.Flags().IntVar(&cells, "cells", defaultCells, "Marching cubes resolution")
	cmd.Flags().Float64Var(&size, "size", 2, "Overall size of the shape")
	return cmd
}

// generate builds the named shape as an indexed triangle mesh.
func generate(shape string, cells int, size float64) ([]math.Vec3, []ply.Face, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("size must be positive, got %v", size)
	}
	if shape == "tetra" {
		return tetrahedron(float32(size / 2))
	}
	if cells < 4 {
		return nil, nil, fmt.Errorf("cells must be at least 4, got %d", cells)
	}

	s, err := solid(shape, size)
	if err != nil {
		return nil, nil, err
	}

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	tris := make([][3]math.Vec3, 0, len(triangles))
	for _, tri := range triangles {
		var t [3]math.Vec3
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		}
		// Every generated solid is convex and centered on the origin.
		centroid := t[0].Add(t[1]).Add(t[2])
		if ply.FaceNormal(t[0], t[1], t[2]).Dot(centroid) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		tris = append(tris, t)
	}

	vertices, faces := ply.IndexTriangles(tris)
	logger.Debug("tessellated",
		zap.String("shape", shape),
		zap.Int("cells", cells),
		zap.Int("triangles", len(tris)),
		zap.Int("vertices", len(vertices)),
	)
	return vertices, faces, nil
}

func solid(shape string, size float64) (sdf.SDF3, error) {
	switch shape {
	case "sphere":
		return sdf.Sphere3D(size / 2)
	case "box":
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, size*0.1)
	case "cylinder":
		return sdf.Cylinder3D(size, size/4, size*0.05)
	default:
		return nil, fmt.Errorf("unknown shape %q (want sphere, box, cylinder or tetra)", shape)
	}
}

// tetrahedron returns a regular tetrahedron inscribed in the cube [-r, r]^3
// with outward-facing counter-clockwise faces.
func tetrahedron(r float32) ([]math.Vec3, []ply.Face, error) {
	vertices := []math.Vec3{
		{X: r, Y: r, Z: r},
		{X: r, Y: -r, Z: -r},
		{X: -r, Y: r, Z: -r},
		{X: -r, Y: -r, Z: r},
	}
	faces := []ply.Face{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
	return vertices, faces, nil
}

func writeMesh(path string, vertices []math.Vec3, faces []ply.Face, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := ply.Encode(w, vertices, faces, comment); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
