package tensor2d_test

import (
	"slices"
	"testing"

	"github.com/sw965/heron/blas32/tensor/2d"
	"github.com/sw965/heron/blas32/tensor/3d"
	"github.com/sw965/heron/conv"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

func TestDot(t *testing.T) {
	a := blas32.General{
		Rows:   2,
		Cols:   3,
		Stride: 3,
		Data: []float32{
			1, 2, 3,
			4, 5, 6,
		},
	}

	b := blas32.General{
		Rows:   3,
		Cols:   2,
		Stride: 2,
		Data: []float32{
			7, 8,
			9, 10,
			11, 12,
		},
	}

	y := tensor2d.Dot(blas.NoTrans, blas.NoTrans, a, b)
	expected := []float32{
		58, 64,
		139, 154,
	}
	if !slices.Equal(y.Data, expected) {
		t.Errorf("y = %v, want %v", y.Data, expected)
	}

	// A・B == (Bᵀ・Aᵀ)ᵀ
	yt := tensor2d.Dot(blas.Trans, blas.Trans, b, a)
	if !slices.Equal(tensor2d.Transpose(yt).Data, expected) {
		t.Errorf("transposed dot = %v, want %v", tensor2d.Transpose(yt).Data, expected)
	}
}

func TestSum0(t *testing.T) {
	gen := blas32.General{
		Rows:   3,
		Cols:   2,
		Stride: 2,
		Data: []float32{
			1, 2,
			3, 4,
			5, 6,
		},
	}

	sums := tensor2d.Sum0(gen)
	expected := []float32{9, 12}
	if !slices.Equal(sums.Data, expected) {
		t.Errorf("sums = %v, want %v", sums.Data, expected)
	}
}

func TestCol2ImCounts(t *testing.T) {
	geo := conv.NewGeometry(1, 4, 4, 3, 3)
	col := tensor2d.NewOnes(geo.OutputRows()*geo.OutputCols(), geo.PatchChannels())

	img, err := tensor2d.Col2Im(col, geo)
	if err != nil {
		t.Fatal(err)
	}

	expected := []float32{
		1, 2, 2, 1,
		2, 4, 4, 2,
		2, 4, 4, 2,
		1, 2, 2, 1,
	}
	if !slices.Equal(img.Data, expected) {
		t.Errorf("img = %v, want %v", img.Data, expected)
	}
}

func TestCol2ImRoundTrip(t *testing.T) {
	x := tensor3d.General{
		Channels:      2,
		Rows:          4,
		Cols:          4,
		ChannelStride: 16,
		RowStride:     4,
		Data:          make([]float32, 32),
	}
	for i := range x.Data {
		x.Data[i] = float32(i) - 16.0
	}

	// stride == kernel なのでパッチは重ならない
	geo := x.ConvGeometry(2, 2, 0, 0, 2, 2)
	col, err := x.ToCol(geo)
	if err != nil {
		t.Fatal(err)
	}

	recon, err := tensor2d.Col2Im(col, geo)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(recon.Data, x.Data) {
		t.Errorf("recon = %v, want %v", recon.Data, x.Data)
	}
}

func TestCol2ImShapeMismatch(t *testing.T) {
	geo := conv.NewGeometry(1, 4, 4, 3, 3)

	bad := tensor2d.NewZeros(geo.OutputRows()*geo.OutputCols()+1, geo.PatchChannels())
	if _, err := tensor2d.Col2Im(bad, geo); err == nil {
		t.Errorf("Col2Im accepted a col with the wrong number of rows")
	}

	bad = tensor2d.NewZeros(geo.OutputRows()*geo.OutputCols(), geo.PatchChannels()-1)
	if _, err := tensor2d.Col2Im(bad, geo); err == nil {
		t.Errorf("Col2Im accepted a col with the wrong number of cols")
	}
}
