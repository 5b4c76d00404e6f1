package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Faultbox/plyview/internal/geometry"
	"github.com/Faultbox/plyview/pkg/math"
)

func newNormalsCmd() *cobra.Command {
	var (
		smooth bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "normals <file.ply>",
		Short: "Print face normals, or smoothed vertex normals with --smooth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormals(cmd.OutOrStdout(), geometry.NewCache(), args[0], smooth, limit)
		},
	}
	cmd.Flags().BoolVar(&smooth, "smooth", false, "Print one averaged normal per vertex")
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most N normals (0 for all)")
	return cmd
}

func runNormals(w io.Writer, cache *geometry.Cache, path string, smooth bool, limit int) error {
	m, err := cache.Load(path)
	if err != nil {
		return err
	}

	var normals []math.Vec3
	if smooth {
		normals = m.IndexedNormals
	} else {
		// Flat normals repeat per corner; print one per face.
		normals = make([]math.Vec3, 0, m.FaceCount)
		for i := 0; i < len(m.Normals); i += 3 {
			normals = append(normals, m.Normals[i])
		}
	}

	if limit > 0 && limit < len(normals) {
		normals = normals[:limit]
	}

	label := "face"
	if smooth {
		label = "vertex"
	}
	for i, n := range normals {
		fmt.Fprintf(w, "%s %d: %9.6f %9.6f %9.6f\n", label, i, n.X, n.Y, n.Z)
	}
	return nil
}
