package config

const (
	defaultCropWidth   = 256
	defaultOffset      = 64
	defaultBatchSize   = 4
	defaultParallelism = 1
	defaultSampleRate  = 44100
	defaultNFFT        = 2048
	defaultHopLength   = 1024
	defaultWindow      = "hann"
	defaultModel       = "centercut"
	defaultModelRadius = 2
	defaultBitDepth    = 16
	defaultLogFormat   = "text"
	defaultLogLevel    = "info"
	defaultConfigPath  = "~/.config/unmix/config.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Separation: Separation{
			CropWidth:   defaultCropWidth,
			Offset:      defaultOffset,
			BatchSize:   defaultBatchSize,
			Parallelism: defaultParallelism,
		},
		STFT: STFT{
			SampleRate: defaultSampleRate,
			NFFT:       defaultNFFT,
			HopLength:  defaultHopLength,
			Window:     defaultWindow,
		},
		Model: Model{
			Name:   defaultModel,
			Radius: defaultModelRadius,
		},
		Output: Output{
			BitDepth: defaultBitDepth,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
