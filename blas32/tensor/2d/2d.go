package tensor2d

import (
	"fmt"
	"slices"

	"github.com/sw965/heron/blas32/tensor/3d"
	"github.com/sw965/heron/conv"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

func NewZeros(rows, cols int) blas32.General {
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float32, rows*cols),
	}
}

func NewZerosLike(gen blas32.General) blas32.General {
	return NewZeros(gen.Rows, gen.Cols)
}

func NewOnes(rows, cols int) blas32.General {
	gen := NewZeros(rows, cols)
	for i := range gen.Data {
		gen.Data[i] = 1.0
	}
	return gen
}

func NewOnesLike(gen blas32.General) blas32.General {
	return NewOnes(gen.Rows, gen.Cols)
}

func N(gen blas32.General) int {
	return gen.Rows * gen.Cols
}

func Clone(gen blas32.General) blas32.General {
	return blas32.General{
		Rows:   gen.Rows,
		Cols:   gen.Cols,
		Stride: gen.Stride,
		Data:   slices.Clone(gen.Data),
	}
}

func At(gen blas32.General, row, col int) int {
	return row*gen.Stride + col
}

func ToVector(gen blas32.General) blas32.Vector {
	return blas32.Vector{
		N:    N(gen),
		Inc:  1,
		Data: gen.Data,
	}
}

func Scal(alpha float32, gen blas32.General) {
	vec := ToVector(gen)
	blas32.Scal(alpha, vec)
}

func Axpy(alpha float32, x, y blas32.General) {
	xv := ToVector(x)
	yv := ToVector(y)
	blas32.Axpy(alpha, xv, yv)
}

func Sum0(gen blas32.General) blas32.Vector {
	sums := make([]float32, gen.Cols)
	for c := 0; c < gen.Cols; c++ {
		var sum float32
		for r := 0; r < gen.Rows; r++ {
			idx := At(gen, r, c)
			sum += gen.Data[idx]
		}
		sums[c] = sum
	}

	return blas32.Vector{
		N:    gen.Cols,
		Inc:  1,
		Data: sums,
	}
}

func Transpose(gen blas32.General) blas32.General {
	t := blas32.General{
		Rows:   gen.Cols,
		Cols:   gen.Rows,
		Stride: gen.Rows,
		Data:   make([]float32, N(gen)),
	}

	for i := 0; i < t.Rows; i++ {
		for j := 0; j < t.Cols; j++ {
			newIdx := At(t, i, j)
			oldIdx := At(gen, j, i)
			t.Data[newIdx] = gen.Data[oldIdx]
		}
	}
	return t
}

func Dot(tA, tB blas.Transpose, a, b blas32.General) blas32.General {
	aRows := a.Rows
	if tA == blas.Trans {
		aRows = a.Cols
	}

	bCols := b.Cols
	if tB == blas.Trans {
		bCols = b.Rows
	}

	y := blas32.General{
		Rows:   aRows,
		Cols:   bCols,
		Stride: bCols,
		Data:   make([]float32, aRows*bCols),
	}
	blas32.Gemm(tA, tB, 1.0, a, b, 0.0, y)
	return y
}

// Col2Im は列行列を画像に畳み戻す。ToCol の随伴変換であり、
// 同じ画素に重なった寄与は加算される。勾配の逆伝播に使う。
func Col2Im(col blas32.General, geo conv.Geometry) (tensor3d.General, error) {
	if col.Stride != col.Cols {
		return tensor3d.General{}, fmt.Errorf("tensor2d: Col2Im: col must be packed (Stride=%d, Cols=%d)", col.Stride, col.Cols)
	}

	if col.Rows != geo.OutputRows()*geo.OutputCols() {
		return tensor3d.General{}, fmt.Errorf("tensor2d: Col2Im: col.Rows=%d, want %d", col.Rows, geo.OutputRows()*geo.OutputCols())
	}

	if col.Cols != geo.PatchChannels() {
		return tensor3d.General{}, fmt.Errorf("tensor2d: Col2Im: col.Cols=%d, want %d", col.Cols, geo.PatchChannels())
	}

	recon := tensor3d.NewZeros(geo.Channels, geo.Rows, geo.Cols)
	if err := conv.Col2Im(col.Data, geo, recon.Data); err != nil {
		return tensor3d.General{}, err
	}
	return recon, nil
}
