package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlview/internal/config"
	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/stl"
)

var infoCmd = &cobra.Command{
	Use:   "info <file-or-url>",
	Short: "Print model statistics and the computed camera placement",
	Long: `Decode a model without opening a window and print its statistics
together with the framing the viewer would apply: normalization scale,
translation, camera distance and clipping limits.`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	ref := args[0]

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	data, err := stl.Fetch(ctx, ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", ref, err)
		os.Exit(1)
	}

	mesh, err := stl.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", ref, err)
		os.Exit(1)
	}

	bbox := mesh.BoundingBox()
	size := bbox.Size()

	fmt.Println("Model")
	fmt.Println("=====")
	if mesh.Name != "" {
		fmt.Printf("Name: %s\n", mesh.Name)
	}
	fmt.Printf("Source: %s\n\n", ref)

	fmt.Println("Statistics:")
	fmt.Printf("  Triangles: %d\n", mesh.TriangleCount())
	fmt.Printf("  Surface Area: %.6f square units\n\n", mesh.SurfaceArea())

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: (%.6f, %.6f, %.6f)\n", bbox.Min.X, bbox.Min.Y, bbox.Min.Z)
	fmt.Printf("  Max: (%.6f, %.6f, %.6f)\n", bbox.Max.X, bbox.Max.Y, bbox.Max.Z)
	fmt.Printf("  Size: (%.6f, %.6f, %.6f)\n\n", size.X, size.Y, size.Z)

	placement := framing.Frame(mesh, config.GetFloat("camera.fovDegrees"))
	if err := placement.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Framing: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Framing:")
	fmt.Printf("  Uniform Scale: %.6f\n", placement.UniformScale)
	fmt.Printf("  Translation: (%.6f, %.6f, %.6f)\n",
		placement.Translation.X, placement.Translation.Y, placement.Translation.Z)
	fmt.Printf("  Camera Distance: %.6f\n", placement.CameraDistance)
	fmt.Printf("  Far Plane: %.6f\n", placement.FarPlane)
	fmt.Printf("  Max Orbit Distance: %.6f\n", placement.MaxOrbitDistance)
}
