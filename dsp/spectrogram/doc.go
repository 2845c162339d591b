// Package spectrogram provides the dense containers shared by the separation
// pipeline: complex multichannel spectrograms and real-valued masks.
//
// Both containers store cells contiguously as [channel][bin][frame] so that a
// single frequency row of one channel is a contiguous slice. Only the frame
// extent changes along the pipeline; channel and bin extents are fixed by the
// STFT parameters.
package spectrogram
