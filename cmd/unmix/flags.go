package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/internal/config"
)

// separationFlags are the [separation] overrides shared by split and plan.
type separationFlags struct {
	cropWidth   int
	offset      int
	batchSize   int
	parallelism int
	tta         bool
	postprocess bool
}

func (f *separationFlags) register(cmd *cobra.Command) {
	defaults := config.Default().Separation
	cmd.Flags().IntVar(&f.cropWidth, "crop-width", defaults.CropWidth, "Frames per model crop")
	cmd.Flags().IntVar(&f.offset, "offset", defaults.Offset, "Context frames on each side of a crop")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", defaults.BatchSize, "Crops per model call")
	cmd.Flags().IntVar(&f.parallelism, "parallelism", defaults.Parallelism, "Batches evaluated concurrently")
	cmd.Flags().BoolVar(&f.tta, "tta", defaults.TTA, "Average with a half-stride shifted pass")
	cmd.Flags().BoolVar(&f.postprocess, "postprocess", defaults.Postprocess, "Smooth the mask before splitting")
}

// apply copies every flag the user set into cfg.
func (f *separationFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("crop-width") {
		cfg.Separation.CropWidth = f.cropWidth
	}
	if changed("offset") {
		cfg.Separation.Offset = f.offset
	}
	if changed("batch-size") {
		cfg.Separation.BatchSize = f.batchSize
	}
	if changed("parallelism") {
		cfg.Separation.Parallelism = f.parallelism
	}
	if changed("tta") {
		cfg.Separation.TTA = f.tta
	}
	if changed("postprocess") {
		cfg.Separation.Postprocess = f.postprocess
	}
}
