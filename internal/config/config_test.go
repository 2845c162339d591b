package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-unmix/internal/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want, err := config.DefaultConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if *cfg != config.Default() {
		t.Fatalf("cfg = %+v, want defaults", *cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "unmix.toml")
	body := `
[separation]
crop_width = 128
offset = 16
tta = true

[stft]
window = " Hamming "

[output]
dir = "~/stems"
bit_depth = 24

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Separation.CropWidth != 128 || cfg.Separation.Offset != 16 || !cfg.Separation.TTA {
		t.Fatalf("unexpected separation %+v", cfg.Separation)
	}
	if cfg.Separation.BatchSize != config.Default().Separation.BatchSize {
		t.Fatalf("batch size lost its default: %d", cfg.Separation.BatchSize)
	}
	if cfg.STFT.Window != "hamming" || cfg.Logging.Format != "json" {
		t.Fatalf("values not normalized: %q %q", cfg.STFT.Window, cfg.Logging.Format)
	}
	if cfg.Output.Dir != filepath.Join(home, "stems") || cfg.Output.BitDepth != 24 {
		t.Fatalf("unexpected output %+v", cfg.Output)
	}

	sep := cfg.SeparationConfig()
	if sep.CropWidth != 128 || sep.Offset != 16 || sep.Stride() != 96 || !sep.TTA {
		t.Fatalf("unexpected separation config %+v", sep)
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown key", body: "[separation]\ncropwidth = 3\n", wantErr: "parse config"},
		{name: "syntax", body: "[separation\n", wantErr: "parse config"},
		{name: "no stride", body: "[separation]\ncrop_width = 128\noffset = 64\n", wantErr: "separation"},
		{name: "sample rate", body: "[stft]\nsample_rate = -1\n", wantErr: "stft.sample_rate"},
		{name: "fft size", body: "[stft]\nn_fft = 1000\n", wantErr: "stft.n_fft"},
		{name: "hop", body: "[stft]\nhop_length = 4096\n", wantErr: "stft.hop_length"},
		{name: "window", body: "[stft]\nwindow = \"kaiser\"\n", wantErr: "stft.window"},
		{name: "model", body: "[model]\nname = \"mdx\"\n", wantErr: "model.name"},
		{name: "radius", body: "[model]\nradius = 65\n", wantErr: "model.radius"},
		{name: "floor", body: "[model]\nfloor = 2.0\n", wantErr: "model.floor"},
		{name: "bit depth", body: "[output]\nbit_depth = 12\n", wantErr: "output.bit_depth"},
		{name: "log level", body: "[logging]\nlevel = \"trace\"\n", wantErr: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := config.CreateSample(path, false); err == nil {
		t.Fatal("expected CreateSample to refuse overwriting")
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample overwrite: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample not found")
	}
	if *cfg != config.Default() {
		t.Fatalf("sample config %+v differs from defaults %+v", *cfg, config.Default())
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Separation.TTA = true
	cfg.Model.Floor = 0.25

	data, err := cfg.Encode()
	if err != nil {
		t.Fatal(err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, data)
	}
	if decoded != cfg {
		t.Fatalf("decoded %+v, want %+v", decoded, cfg)
	}
}
