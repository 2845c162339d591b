package separate

import (
	"errors"
	"testing"
)

func TestMakePaddingScenario(t *testing.T) {
	plan, err := MakePadding(10, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Stride != 4 || plan.Left != 2 || plan.Right != 4 {
		t.Fatalf("plan = %+v, want left=2 right=4 stride=4", plan)
	}
	if got := plan.PaddedLen(10); got != 16 {
		t.Fatalf("PaddedLen = %d, want 16", got)
	}
	if got := plan.Crops(10); got != 3 {
		t.Fatalf("Crops = %d, want 3", got)
	}
	if got := plan.CropWidth(); got != 8 {
		t.Fatalf("CropWidth = %d, want 8", got)
	}
}

func TestMakePaddingTable(t *testing.T) {
	tests := []struct {
		name             string
		frames, width    int
		offset           int
		left, right, str int
	}{
		{name: "exact multiple", frames: 8, width: 8, offset: 2, left: 2, right: 2, str: 4},
		{name: "one frame", frames: 1, width: 8, offset: 2, left: 2, right: 5, str: 4},
		{name: "no context", frames: 5, width: 4, offset: 0, left: 0, right: 3, str: 4},
		{name: "reference model", frames: 1000, width: 256, offset: 64, left: 64, right: 88, str: 128},
		{name: "empty", frames: 0, width: 8, offset: 2, left: 2, right: 2, str: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := MakePadding(tt.frames, tt.width, tt.offset)
			if err != nil {
				t.Fatal(err)
			}
			if plan.Left != tt.left || plan.Right != tt.right || plan.Stride != tt.str {
				t.Fatalf("plan = %+v, want left=%d right=%d stride=%d", plan, tt.left, tt.right, tt.str)
			}
		})
	}
}

func TestMakePaddingProperties(t *testing.T) {
	geometries := []struct{ width, offset int }{
		{8, 2}, {9, 2}, {7, 3}, {16, 0}, {256, 64}, {11, 1},
	}
	for _, g := range geometries {
		for n := 1; n <= 70; n++ {
			plan, err := MakePadding(n, g.width, g.offset)
			if err != nil {
				t.Fatal(err)
			}
			padded := plan.PaddedLen(n)
			usable := padded - 2*g.offset
			if usable%plan.Stride != 0 {
				t.Fatalf("n=%d %+v: usable %d not a multiple of stride %d", n, g, usable, plan.Stride)
			}
			if padded-plan.Left-plan.Right != n {
				t.Fatalf("n=%d %+v: padded %d minus pads != n", n, g, padded)
			}
			if usable < n || usable-n >= plan.Stride {
				t.Fatalf("n=%d %+v: usable %d not the smallest cover", n, g, usable)
			}
			if plan.Left != g.offset {
				t.Fatalf("n=%d %+v: left %d, want offset", n, g, plan.Left)
			}
		}
	}
}

func TestMakeShiftedPaddingCoversShift(t *testing.T) {
	for _, g := range []struct{ width, offset int }{{8, 2}, {9, 2}, {13, 4}, {10, 0}} {
		stride := g.width - 2*g.offset
		for n := 1; n <= 40; n++ {
			plan, err := MakeShiftedPadding(n, g.width, g.offset, stride/2)
			if err != nil {
				t.Fatal(err)
			}
			if plan.Left != g.offset+stride/2 {
				t.Fatalf("left = %d, want %d", plan.Left, g.offset+stride/2)
			}
			usable := plan.PaddedLen(n) - 2*g.offset
			if usable%stride != 0 {
				t.Fatalf("n=%d %+v: usable %d not a multiple of %d", n, g, usable, stride)
			}
			if plan.Crops(n)*stride < n+plan.Shift {
				t.Fatalf("n=%d %+v: %d crops do not cover shifted input", n, g, plan.Crops(n))
			}
			if extra := plan.Right - g.offset; extra < 0 || extra >= stride {
				t.Fatalf("n=%d %+v: right = %d, want smallest covering pad in [%d, %d)", n, g, plan.Right, g.offset, g.offset+stride)
			}
		}
	}
}

func TestMakePaddingErrors(t *testing.T) {
	tests := []struct {
		name                    string
		frames, width, off, sft int
	}{
		{name: "zero stride", frames: 10, width: 8, off: 4},
		{name: "negative stride", frames: 10, width: 8, off: 5},
		{name: "negative offset", frames: 10, width: 8, off: -1},
		{name: "negative frames", frames: -1, width: 8, off: 2},
		{name: "negative shift", frames: 10, width: 8, off: 2, sft: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakeShiftedPadding(tt.frames, tt.width, tt.off, tt.sft)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("err = %v, want ErrConfig", err)
			}
		})
	}
}
