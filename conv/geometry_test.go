package conv_test

import (
	"testing"

	"github.com/sw965/heron/conv"
)

func TestGeometryDerived(t *testing.T) {
	g := conv.Geometry{
		Channels:   3,
		Rows:       7,
		Cols:       5,
		KernelRows: 3,
		KernelCols: 3,
		PadRows:    1,
		PadCols:    0,
		StrideRows: 2,
		StrideCols: 1,
	}

	if err := g.Validate(); err != nil {
		t.Fatal(err)
	}

	if got := g.OutputRows(); got != 4 {
		t.Errorf("OutputRows() = %d, want 4", got)
	}

	if got := g.OutputCols(); got != 3 {
		t.Errorf("OutputCols() = %d, want 3", got)
	}

	if got := g.PatchChannels(); got != 27 {
		t.Errorf("PatchChannels() = %d, want 27", got)
	}

	if got := g.ImageN(); got != 3*7*5 {
		t.Errorf("ImageN() = %d, want %d", got, 3*7*5)
	}

	if got := g.ColN(); got != 4*3*27 {
		t.Errorf("ColN() = %d, want %d", got, 4*3*27)
	}
}

func TestGeometryValidate(t *testing.T) {
	valid := conv.NewGeometry(1, 4, 4, 3, 3)

	testCases := []struct {
		name   string
		modify func(*conv.Geometry)
	}{
		{"zero channels", func(g *conv.Geometry) { g.Channels = 0 }},
		{"zero rows", func(g *conv.Geometry) { g.Rows = 0 }},
		{"zero kernel rows", func(g *conv.Geometry) { g.KernelRows = 0 }},
		{"negative padding", func(g *conv.Geometry) { g.PadRows = -1 }},
		{"zero stride", func(g *conv.Geometry) { g.StrideCols = 0 }},
		{"kernel larger than image", func(g *conv.Geometry) { g.KernelRows = 5 }},
		{"kernel larger than padded cols", func(g *conv.Geometry) { g.KernelCols = 7; g.PadCols = 1 }},
	}

	for _, tc := range testCases {
		g := valid
		tc.modify(&g)
		if err := g.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tc.name)
		}
	}
}

func TestImageIndex(t *testing.T) {
	g := conv.NewGeometry(3, 4, 5, 2, 2)
	idx := 0
	for ch := 0; ch < g.Channels; ch++ {
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				if got := g.ImageIndex(ch, row, col); got != idx {
					t.Fatalf("ImageIndex(%d, %d, %d) = %d, want %d", ch, row, col, got, idx)
				}
				idx++
			}
		}
	}
}
