package spectrogram_test

import (
	"fmt"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

func ExampleSpectrogram_Pad() {
	s := spectrogram.New(2, 1025, 10)
	padded := s.Pad(64, 182)
	fmt.Println(s.Shape, padded.Shape)
	// Output:
	// [2 1025 10] [2 1025 256]
}

func ExampleConcat() {
	a := spectrogram.NewMask(1, 1, 2)
	a.Fill(0.25)
	b := spectrogram.NewMask(1, 1, 1)
	b.Fill(1)

	out, _ := spectrogram.Concat(a, b)
	fmt.Println(out.Shape, out.Data)
	// Output:
	// [1 1 3] [0.25 0.25 1]
}
