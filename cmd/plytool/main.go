// plytool is a CLI utility for inspecting and generating binary PLY meshes.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/plyview/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "plytool",
		Short: "Inspect and generate binary little-endian PLY meshes",
		Long: `plytool - binary PLY mesh utility

Reads the same triangle meshes as plyview: a "ply" header with
"format binary_little_endian 1.0", float x/y/z vertices and
uchar-counted int triangle faces.

Examples:
  plytool info bunny.ply
  plytool normals bunny.ply --smooth --limit 10
  plytool gen sphere sphere.ply --cells 64 --size 2`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if debug {
				level = "debug"
			}
			return logger.Init(level, "")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newInfoCmd(), newNormalsCmd(), newGenCmd())
	return cmd
}
