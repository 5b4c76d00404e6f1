package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Faultbox/plyview/pkg/ply"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.ply>",
		Short: "Show header, counts, center and bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInfo(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	r := ply.NewReader(f)
	h, err := ply.ParseHeader(r)
	if err != nil {
		return fmt.Errorf("parsing header: %w", err)
	}
	m, err := ply.LoadGeometry(r, h)
	if err != nil {
		return err
	}

	lo, hi := m.Bounds()
	size := hi.Sub(lo)

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(w, "Format:     %s %s\n", h.Format, h.Version)
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(stat.Size())/1024)
	for _, c := range h.Comments {
		fmt.Fprintf(w, "Comment:    %s\n", c)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", m.VertexCount)
	fmt.Fprintf(w, "Faces:      %d\n", m.FaceCount)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Center:     (%.4f, %.4f, %.4f)\n", m.ModelCenter.X, m.ModelCenter.Y, m.ModelCenter.Z)
	fmt.Fprintf(w, "Bounds min: (%.4f, %.4f, %.4f)\n", lo.X, lo.Y, lo.Z)
	fmt.Fprintf(w, "Bounds max: (%.4f, %.4f, %.4f)\n", hi.X, hi.Y, hi.Z)
	fmt.Fprintf(w, "Extent:     %.4f x %.4f x %.4f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Radius:     %.4f\n", m.Radius())
	return nil
}
