package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-unmix/dsp/resample"
	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
	"github.com/cwbudde/algo-unmix/dsp/stft"
	"github.com/cwbudde/algo-unmix/dsp/window"
	"github.com/cwbudde/algo-unmix/internal/config"
	"github.com/cwbudde/algo-unmix/internal/wavio"
	"github.com/cwbudde/algo-unmix/model/centercut"
	"github.com/cwbudde/algo-unmix/separate"
)

const (
	instrumentsSuffix = "_Instruments.wav"
	vocalsSuffix      = "_Vocals.wav"
)

// pipeline turns one WAV file into its two stems.
type pipeline struct {
	cfg    *config.Config
	codec  *stft.Codec
	model  separate.Model
	logger *slog.Logger
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	wt, err := window.ParseType(cfg.STFT.Window)
	if err != nil {
		return nil, err
	}
	codec, err := stft.New(cfg.STFT.NFFT, cfg.STFT.HopLength, stft.WithWindow(wt))
	if err != nil {
		return nil, err
	}
	model, err := newModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	return &pipeline{cfg: cfg, codec: codec, model: model, logger: logger}, nil
}

func newModel(m config.Model) (separate.Model, error) {
	switch m.Name {
	case centercut.Name:
		return centercut.New(centercut.WithRadius(m.Radius), centercut.WithFloor(m.Floor))
	default:
		return nil, fmt.Errorf("unknown model %q", m.Name)
	}
}

// stemPaths returns the output locations for input.
func (p *pipeline) stemPaths(input string) (instruments, vocals string) {
	dir := p.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+instrumentsSuffix), filepath.Join(dir, base+vocalsSuffix)
}

// separateFile runs the whole chain for one input and returns the written paths.
func (p *pipeline) separateFile(ctx context.Context, input string, progress separate.ProgressFunc) (string, string, error) {
	start := time.Now()
	logger := p.logger.With(slog.String("input", input))

	in, err := wavio.ReadFile(input)
	if err != nil {
		return "", "", err
	}
	in, err = in.Stereo()
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", input, err)
	}
	logger.Debug("decoded input",
		slog.Int("sample_rate", in.SampleRate),
		slog.Int("bit_depth", in.BitDepth),
		slog.Int("samples", in.Len()),
	)
	if in, err = p.resample(in, logger); err != nil {
		return "", "", fmt.Errorf("%s: %w", input, err)
	}

	spec, err := p.codec.Forward(in.Channels)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", input, err)
	}

	sep, err := separate.New(p.model,
		separate.WithConfig(p.cfg.SeparationConfig()),
		separate.WithLogger(logger),
		separate.WithProgress(progress),
	)
	if err != nil {
		return "", "", err
	}
	res, err := sep.Separate(ctx, spec)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", input, err)
	}

	instPath, vocPath := p.stemPaths(input)
	if err := os.MkdirAll(filepath.Dir(instPath), 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}
	for _, stem := range []struct {
		path string
		spec *spectrogram.Spectrogram
	}{
		{instPath, res.Instruments},
		{vocPath, res.Vocals},
	} {
		wave, err := p.codec.Inverse(stem.spec, in.Len())
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", stem.path, err)
		}
		out := &wavio.Audio{SampleRate: in.SampleRate, BitDepth: p.cfg.Output.BitDepth, Channels: wave}
		if err := wavio.WriteFile(stem.path, out); err != nil {
			return "", "", err
		}
	}

	logger.Info("separated",
		slog.String("instruments", instPath),
		slog.String("vocals", vocPath),
		slog.Int("frames", spec.Frames),
		slog.Duration("elapsed", time.Since(start)),
	)
	return instPath, vocPath, nil
}

// resample converts in to the configured analysis rate. Stems are written at
// that rate.
func (p *pipeline) resample(in *wavio.Audio, logger *slog.Logger) (*wavio.Audio, error) {
	target := p.cfg.STFT.SampleRate
	if target == 0 || target == in.SampleRate {
		return in, nil
	}
	conv, err := resample.NewForRates(in.SampleRate, target)
	if err != nil {
		return nil, err
	}
	out := &wavio.Audio{
		SampleRate: target,
		BitDepth:   in.BitDepth,
		Channels:   conv.ConvertChannels(in.Channels),
	}
	logger.Debug("resampled input",
		slog.Int("from", in.SampleRate),
		slog.Int("to", target),
		slog.Int("samples", out.Len()),
	)
	return out, nil
}
