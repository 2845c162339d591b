package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-unmix/separate"
)

//go:embed sample_config.toml
var sampleConfig string

// Separation contains the crop scheduling parameters.
type Separation struct {
	CropWidth   int  `toml:"crop_width"`
	Offset      int  `toml:"offset"`
	BatchSize   int  `toml:"batch_size"`
	TTA         bool `toml:"tta"`
	Postprocess bool `toml:"postprocess"`
	Parallelism int  `toml:"parallelism"`
}

// STFT contains the spectrogram analysis parameters.
type STFT struct {
	// SampleRate is the analysis rate inputs are resampled to. 0 keeps the
	// rate of each input file.
	SampleRate int    `toml:"sample_rate"`
	NFFT       int    `toml:"n_fft"`
	HopLength  int    `toml:"hop_length"`
	Window     string `toml:"window"`
}

// Model selects and tunes the mask model.
type Model struct {
	Name   string  `toml:"name"`
	Radius int     `toml:"radius"`
	Floor  float64 `toml:"floor"`
}

// Output contains configuration for the written stems.
type Output struct {
	// Dir is the output directory. Empty writes next to each input file.
	Dir      string `toml:"dir"`
	BitDepth int    `toml:"bit_depth"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for unmix.
type Config struct {
	Separation Separation `toml:"separation"`
	STFT       STFT       `toml:"stft"`
	Model      Model      `toml:"model"`
	Output     Output     `toml:"output"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads and validates a configuration file. An empty path means the
// default location. A missing file is not an error: the defaults are
// returned and exists is false.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	c := Default()

	resolved, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&c); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := c.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := c.Validate(); err != nil {
		return nil, "", false, err
	}
	return &c, resolved, exists, nil
}

// SeparationConfig converts the [separation] section for separate.New.
func (c *Config) SeparationConfig() separate.Config {
	return separate.Config{
		CropWidth:   c.Separation.CropWidth,
		Offset:      c.Separation.Offset,
		BatchSize:   c.Separation.BatchSize,
		TTA:         c.Separation.TTA,
		Postprocess: c.Separation.Postprocess,
		Parallelism: c.Separation.Parallelism,
	}
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is left alone unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func (c *Config) normalize() error {
	c.STFT.Window = strings.ToLower(strings.TrimSpace(c.STFT.Window))
	c.Model.Name = strings.ToLower(strings.TrimSpace(c.Model.Name))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = ""
		return nil
	}
	dir, err := expandPath(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Dir = dir
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config %s is a directory", expanded)
	}
	return expanded, true, nil
}

// ExpandPath resolves a leading ~ and makes pathValue absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
