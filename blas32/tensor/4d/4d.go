package tensor4d

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/chewxy/math32"
	hrand "github.com/sw965/heron/math/rand"
	"gonum.org/v1/gonum/blas/blas32"
)

type General struct {
	Batches       int
	Channels      int
	Rows          int
	Cols          int
	BatchStride   int
	ChannelStride int
	RowStride     int
	Data          []float32
}

func NewZeros(batches, chs, rows, cols int) General {
	rowStride := cols
	chStride := rows * rowStride
	batchStride := chs * chStride
	n := batches * batchStride

	return General{
		Batches:       batches,
		Channels:      chs,
		Rows:          rows,
		Cols:          cols,
		BatchStride:   batchStride,
		ChannelStride: chStride,
		RowStride:     rowStride,
		Data:          make([]float32, n),
	}
}

func NewZerosLike(gen General) General {
	return NewZeros(gen.Batches, gen.Channels, gen.Rows, gen.Cols)
}

func NewOnes(batches, chs, rows, cols int) General {
	gen := NewZeros(batches, chs, rows, cols)
	for i := range gen.Data {
		gen.Data[i] = 1.0
	}
	return gen
}

func NewOnesLike(gen General) General {
	return NewOnes(gen.Batches, gen.Channels, gen.Rows, gen.Cols)
}

func NewHe(batches, chs, rows, cols int, rng *rand.Rand) General {
	gen := NewZeros(batches, chs, rows, cols)
	fanIn := float32(chs * rows * cols)
	std := math32.Sqrt(2.0 / fanIn)
	for i := range gen.Data {
		gen.Data[i] = float32(rng.NormFloat64()) * std
	}
	return gen
}

func NewRademacher(batches, chs, rows, cols int, rng *rand.Rand) General {
	gen := NewZeros(batches, chs, rows, cols)
	for i := range gen.Data {
		gen.Data[i] = hrand.Rademacher(rng)
	}
	return gen
}

func NewRademacherLike(gen General, rng *rand.Rand) General {
	return NewRademacher(gen.Batches, gen.Channels, gen.Rows, gen.Cols, rng)
}

func (g General) N() int {
	return g.Batches * g.Channels * g.Rows * g.Cols
}

func (g General) Clone() General {
	return General{
		Batches:       g.Batches,
		Channels:      g.Channels,
		Rows:          g.Rows,
		Cols:          g.Cols,
		BatchStride:   g.BatchStride,
		ChannelStride: g.ChannelStride,
		RowStride:     g.RowStride,
		Data:          slices.Clone(g.Data),
	}
}

func (g General) At(batch, ch, row, col int) int {
	return batch*g.BatchStride + ch*g.ChannelStride + row*g.RowStride + col
}

func (g General) ToVector() blas32.Vector {
	return blas32.Vector{
		N:    g.N(),
		Inc:  1,
		Data: g.Data,
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

// FromGeneral は (Batches, Channels*Rows*Cols) の行列をフィルター群として見直す。
func FromGeneral(gen blas32.General, chs, rows, cols int) (General, error) {
	if gen.Stride != gen.Cols {
		return General{}, fmt.Errorf("tensor4d: gen must be packed (Stride=%d, Cols=%d)", gen.Stride, gen.Cols)
	}

	if gen.Cols != chs*rows*cols {
		return General{}, fmt.Errorf("tensor4d: gen.Cols=%d, want %d", gen.Cols, chs*rows*cols)
	}

	return General{
		Batches:       gen.Rows,
		Channels:      chs,
		Rows:          rows,
		Cols:          cols,
		BatchStride:   gen.Cols,
		ChannelStride: rows * cols,
		RowStride:     cols,
		Data:          gen.Data,
	}, nil
}

// ToGeneral はフィルター群を (Batches, Channels*Rows*Cols) の行列として見る。
// 各行の要素順は列行列の複合チャネルと同じ並びになる。
func (g General) ToGeneral() blas32.General {
	return blas32.General{
		Rows:   g.Batches,
		Cols:   g.BatchStride,
		Stride: g.BatchStride,
		Data:   g.Data,
	}
}
