package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/internal/config"
	"github.com/cwbudde/algo-unmix/separate"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var sepFlags separationFlags
	var outputDir string
	var bitDepth int
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "split <input.wav>...",
		Short: "Write instruments and vocals stems for each input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			sepFlags.apply(cmd, &cfg)
			if cmd.Flags().Changed("output-dir") {
				dir, err := config.ExpandPath(strings.TrimSpace(outputDir))
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				cfg.Output.Dir = dir
			}
			if cmd.Flags().Changed("bit-depth") {
				cfg.Output.BitDepth = bitDepth
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			p, err := newPipeline(&cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, input := range args {
				var progress separate.ProgressFunc
				var bar *progressBar
				if !noProgress {
					bar = newProgressBar(cmd.ErrOrStderr(), filepath.Base(input))
					progress = bar.update()
				}

				inst, voc, err := p.separateFile(cmd.Context(), input, progress)
				if bar != nil {
					bar.finish(err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n  instruments: %s\n  vocals:      %s\n", input, inst, voc)
			}
			return nil
		},
	}

	sepFlags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the stems (default: next to each input)")
	cmd.Flags().IntVar(&bitDepth, "bit-depth", config.Default().Output.BitDepth, "Output bit depth: 16, 24 or 32")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}
