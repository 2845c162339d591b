package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-unmix/dsp/window"
)

var (
	knownModels    = []string{"centercut"}
	knownBitDepths = []int{16, 24, 32}
	knownFormats   = []string{"text", "console", "json"}
	knownLevels    = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSeparation(); err != nil {
		return err
	}
	if err := c.validateSTFT(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if !slices.Contains(knownBitDepths, c.Output.BitDepth) {
		return fmt.Errorf("output.bit_depth must be one of %v, got %d", knownBitDepths, c.Output.BitDepth)
	}
	if !slices.Contains(knownFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", knownFormats, c.Logging.Format)
	}
	if !slices.Contains(knownLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", knownLevels, c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSeparation() error {
	if err := c.SeparationConfig().Validate(); err != nil {
		return fmt.Errorf("separation: %w", err)
	}
	return nil
}

func (c *Config) validateSTFT() error {
	if c.STFT.SampleRate < 0 {
		return fmt.Errorf("stft.sample_rate must be >= 0, got %d", c.STFT.SampleRate)
	}
	n := c.STFT.NFFT
	if n < 16 || n&(n-1) != 0 {
		return fmt.Errorf("stft.n_fft must be a power of two >= 16, got %d", n)
	}
	if c.STFT.HopLength <= 0 || c.STFT.HopLength > n {
		return fmt.Errorf("stft.hop_length must be in [1, %d], got %d", n, c.STFT.HopLength)
	}
	if _, err := window.ParseType(c.STFT.Window); err != nil {
		return fmt.Errorf("stft.window: %w", err)
	}
	return nil
}

func (c *Config) validateModel() error {
	if !slices.Contains(knownModels, c.Model.Name) {
		return fmt.Errorf("model.name must be one of %v, got %q", knownModels, c.Model.Name)
	}
	if c.Model.Radius < 0 {
		return errors.New("model.radius must be >= 0")
	}
	if c.Model.Radius > c.Separation.Offset {
		return fmt.Errorf("model.radius %d exceeds separation.offset %d", c.Model.Radius, c.Separation.Offset)
	}
	if c.Model.Floor < 0 || c.Model.Floor > 1 {
		return errors.New("model.floor must be between 0 and 1")
	}
	return nil
}
