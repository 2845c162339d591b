package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/separate"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var sepFlags separationFlags
	var frames, samples int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how an input of the given length is padded, cropped and batched",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			sepFlags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			switch {
			case cmd.Flags().Changed("frames") && cmd.Flags().Changed("samples"):
				return errors.New("use either --frames or --samples")
			case cmd.Flags().Changed("samples"):
				if samples <= 0 {
					return fmt.Errorf("--samples must be > 0, got %d", samples)
				}
				frames = 1 + samples/cfg.STFT.HopLength
			case !cmd.Flags().Changed("frames"):
				return errors.New("--frames or --samples is required")
			}
			if frames <= 0 {
				return fmt.Errorf("--frames must be > 0, got %d", frames)
			}

			sc := cfg.SeparationConfig()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frames:      %d\n", frames)
			fmt.Fprintf(out, "crop width:  %d\n", sc.CropWidth)
			fmt.Fprintf(out, "offset:      %d\n", sc.Offset)
			fmt.Fprintf(out, "stride:      %d\n", sc.Stride())

			plan, err := separate.MakePadding(frames, sc.CropWidth, sc.Offset)
			if err != nil {
				return err
			}
			printPlan(out, "pass", plan, frames, sc.BatchSize)

			if sc.TTA {
				shifted, err := separate.MakeShiftedPadding(frames, sc.CropWidth, sc.Offset, plan.Stride/2)
				if err != nil {
					return err
				}
				printPlan(out, "shifted pass", shifted, frames, sc.BatchSize)
			}
			return nil
		},
	}

	sepFlags.register(cmd)
	cmd.Flags().IntVar(&frames, "frames", 0, "Input length in spectrogram frames")
	cmd.Flags().IntVar(&samples, "samples", 0, "Input length in samples, converted with the configured hop length")
	return cmd
}

func printPlan(w io.Writer, name string, plan separate.Plan, frames, batchSize int) {
	crops := plan.Crops(frames)
	batches := len(separate.BatchRanges(crops, batchSize))
	fmt.Fprintf(w, "%s: pad %d+%d, %d padded frames, %d crops in %d batches\n",
		name, plan.Left, plan.Right, plan.PaddedLen(frames), crops, batches)
}
