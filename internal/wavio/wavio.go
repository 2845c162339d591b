// Package wavio reads and writes PCM WAV files as planar float64 channels.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1

var (
	// ErrInvalidFile indicates input that is not a readable WAV file.
	ErrInvalidFile = errors.New("wavio: invalid wav file")
	// ErrUnsupported indicates a valid WAV file this package cannot handle.
	ErrUnsupported = errors.New("wavio: unsupported format")
)

// Audio is a decoded recording. Every channel has the same length and
// samples are nominally in [-1, 1].
type Audio struct {
	SampleRate int
	// BitDepth is the source bit depth on read and the target on write.
	BitDepth int
	Channels [][]float64
}

// Len returns the number of samples per channel.
func (a *Audio) Len() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Stereo returns a two-channel view of a. Mono is duplicated; stereo is
// returned as is.
func (a *Audio) Stereo() (*Audio, error) {
	switch len(a.Channels) {
	case 2:
		return a, nil
	case 1:
		return &Audio{
			SampleRate: a.SampleRate,
			BitDepth:   a.BitDepth,
			Channels:   [][]float64{a.Channels[0], a.Channels[0]},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d channels, want mono or stereo", ErrUnsupported, len(a.Channels))
	}
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	a, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Read decodes integer PCM WAV data from r.
func Read(r io.ReadSeeker) (*Audio, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if decoder.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: audio format %d, want integer PCM", ErrUnsupported, decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM buffer: %w", err)
	}
	numChannels := buf.Format.NumChannels
	if numChannels <= 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidFile)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(decoder.BitDepth)
	}
	scale := fullScale(bitDepth)

	n := len(buf.Data) / numChannels
	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, n)
	}
	for i := range n {
		for c := range numChannels {
			channels[c][i] = float64(buf.Data[i*numChannels+c]) / scale
		}
	}

	return &Audio{SampleRate: buf.Format.SampleRate, BitDepth: bitDepth, Channels: channels}, nil
}

// WriteFile encodes a as a WAV file at path, replacing any existing file.
func WriteFile(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if err := Write(f, a); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Write encodes a as integer PCM at a.BitDepth bits. Samples outside
// [-1, 1] are clipped.
func Write(w io.WriteSeeker, a *Audio) error {
	switch a.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit depth %d", ErrUnsupported, a.BitDepth)
	}
	if len(a.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrUnsupported)
	}
	n := a.Len()
	for c, ch := range a.Channels {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrUnsupported, c, len(ch), n)
		}
	}

	numChannels := len(a.Channels)
	scale := fullScale(a.BitDepth)
	data := make([]int, n*numChannels)
	for i := range n {
		for c := range numChannels {
			data[i*numChannels+c] = quantize(a.Channels[c][i], scale)
		}
	}

	encoder := wav.NewEncoder(w, a.SampleRate, a.BitDepth, numChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  a.SampleRate,
		},
		Data:           data,
		SourceBitDepth: a.BitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	return nil
}

func fullScale(bitDepth int) float64 {
	return math.Ldexp(1, bitDepth-1)
}

// quantize maps v to the signed integer range of a scale-sized half range.
func quantize(v, scale float64) int {
	q := math.Round(v * scale)
	return int(min(max(q, -scale), scale-1))
}
