// Package testutil holds deterministic fixtures and tolerance assertions
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// RandomSpectrogram returns a seeded spectrogram whose cells are uniform in
// the square [-1,1] x [-1,1] of the complex plane.
func RandomSpectrogram(seed int64, channels, bins, frames int) *spectrogram.Spectrogram {
	s := spectrogram.New(channels, bins, frames)
	rng := rand.New(rand.NewSource(seed))
	for i := range s.Data {
		s.Data[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return s
}

// RandomMask returns a seeded mask with weights in [0, 1).
func RandomMask(seed int64, channels, bins, frames int) *spectrogram.Mask {
	m := spectrogram.NewMask(channels, bins, frames)
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = rng.Float64()
	}
	return m
}
