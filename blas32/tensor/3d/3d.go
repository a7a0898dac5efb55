package tensor3d

import (
	"math"
	"math/rand"
	"slices"

	"github.com/sw965/heron/conv"
	hrand "github.com/sw965/heron/math/rand"
	"gonum.org/v1/gonum/blas/blas32"
)

type General struct {
	Channels      int
	Rows          int
	Cols          int
	ChannelStride int
	RowStride     int
	Data          []float32
}

func NewZeros(chs, rows, cols int) General {
	rowStride := cols
	chStride := rows * rowStride
	n := chs * chStride
	return General{
		Channels:      chs,
		Rows:          rows,
		Cols:          cols,
		ChannelStride: chStride,
		RowStride:     rowStride,
		Data:          make([]float32, n),
	}
}

func NewZerosLike(gen General) General {
	return NewZeros(gen.Channels, gen.Rows, gen.Cols)
}

func NewOnes(chs, rows, cols int) General {
	gen := NewZeros(chs, rows, cols)
	for i := range gen.Data {
		gen.Data[i] = 1.0
	}
	return gen
}

func NewOnesLike(gen General) General {
	return NewOnes(gen.Channels, gen.Rows, gen.Cols)
}

func NewHe(chs, rows, cols int, rng *rand.Rand) General {
	gen := NewZeros(chs, rows, cols)
	fanIn := float64(chs * rows * cols)
	std := float32(math.Sqrt(2.0 / fanIn))
	for i := range gen.Data {
		gen.Data[i] = float32(rng.NormFloat64()) * std
	}
	return gen
}

func NewRademacher(chs, rows, cols int, rng *rand.Rand) General {
	gen := NewZeros(chs, rows, cols)
	for i := range gen.Data {
		gen.Data[i] = hrand.Rademacher(rng)
	}
	return gen
}

func NewRademacherLike(gen General, rng *rand.Rand) General {
	return NewRademacher(gen.Channels, gen.Rows, gen.Cols, rng)
}

func (g General) N() int {
	return g.Channels * g.Rows * g.Cols
}

func (g General) Clone() General {
	return General{
		Channels:      g.Channels,
		Rows:          g.Rows,
		Cols:          g.Cols,
		ChannelStride: g.ChannelStride,
		RowStride:     g.RowStride,
		Data:          slices.Clone(g.Data),
	}
}

func (g General) At(ch, row, col int) int {
	return ch*g.ChannelStride + row*g.RowStride + col
}

func (g General) ToVector() blas32.Vector {
	return blas32.Vector{
		N:    g.N(),
		Inc:  1,
		Data: g.Data,
	}
}

func (g General) Flatten() blas32.Vector {
	return blas32.Vector{
		N:    g.N(),
		Inc:  1,
		Data: slices.Clone(g.Data),
	}
}

func (g General) Axpy(alpha float32, x General) {
	xv := x.ToVector()
	yv := g.ToVector()
	blas32.Axpy(alpha, xv, yv)
}

func (g General) MulScalar(alpha float32) {
	blas32.Scal(alpha, g.ToVector())
}

func (g General) ZeroPadding2D(top, bot, left, right int) General {
	padded := NewZeros(g.Channels, g.Rows+top+bot, g.Cols+left+right)
	for ch := 0; ch < g.Channels; ch++ {
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				oldIdx := g.At(ch, row, col)
				newIdx := padded.At(ch, row+top, col+left)
				padded.Data[newIdx] = g.Data[oldIdx]
			}
		}
	}
	return padded
}

func (g General) SameZeroPadding2D(filterRows, filterCols int) General {
	top := (filterRows - 1) / 2
	bot := filterRows - 1 - top
	left := (filterCols - 1) / 2
	right := filterCols - 1 - left
	return g.ZeroPadding2D(top, bot, left, right)
}

// ConvGeometry は画像の形状にフィルターの形状を合わせた Geometry を作る。
func (g General) ConvGeometry(filterRows, filterCols, padRows, padCols, strideRows, strideCols int) conv.Geometry {
	return conv.Geometry{
		Channels:   g.Channels,
		Rows:       g.Rows,
		Cols:       g.Cols,
		KernelRows: filterRows,
		KernelCols: filterCols,
		PadRows:    padRows,
		PadCols:    padCols,
		StrideRows: strideRows,
		StrideCols: strideCols,
	}
}

// ToCol は画像を列行列に展開する。行は出力位置、列は (チャネル, フィルター行, フィルター列) の複合インデックス。
func (g General) ToCol(geo conv.Geometry) (blas32.General, error) {
	patchChs := geo.PatchChannels()
	newData := make([]float32, geo.ColN())
	if err := conv.Im2Col(g.Data, geo, newData); err != nil {
		return blas32.General{}, err
	}

	return blas32.General{
		Rows:   geo.OutputRows() * geo.OutputCols(),
		Cols:   patchChs,
		Stride: patchChs,
		Data:   newData,
	}, nil
}
