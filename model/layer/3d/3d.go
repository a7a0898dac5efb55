package layer3d

import (
	"fmt"
	"slices"

	"github.com/chewxy/math32"
	"github.com/sw965/heron/blas32/tensor/2d"
	"github.com/sw965/heron/blas32/tensor/3d"
	"github.com/sw965/heron/blas32/tensor/4d"
	"github.com/sw965/heron/model/layer"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

type Forward func(tensor3d.General) (tensor3d.General, Backward, error)
type Forwards []Forward

func (fs Forwards) Propagate(x tensor3d.General) (tensor3d.General, Backwards, error) {
	var err error
	var backward Backward
	backwards := make(Backwards, len(fs))
	for i, f := range fs {
		x, backward, err = f(x)
		if err != nil {
			return tensor3d.General{}, nil, err
		}
		backwards[i] = backward
	}
	y := x
	slices.Reverse(backwards)
	return y, backwards, nil
}

type Backward func(tensor3d.General, *layer.GradBuffer) (tensor3d.General, error)
type Backwards []Backward

func (bs Backwards) Propagate(chain tensor3d.General) (tensor3d.General, layer.GradBuffer, error) {
	n := len(bs)
	grad := layer.GradBuffer{
		Filters: make([]tensor4d.General, 0, n),
		Biases:  make([]blas32.Vector, 0, n),
	}
	var err error

	for _, b := range bs {
		chain, err = b(chain, &grad)
		if err != nil {
			return tensor3d.General{}, layer.GradBuffer{}, err
		}
	}

	slices.Reverse(grad.Filters)
	slices.Reverse(grad.Biases)
	dx := chain
	return dx, grad, nil
}

// dotToImage は (出力位置, 出力チャネル) の行列を画像に並べ替える。
func dotToImage(dot blas32.General, outRows, outCols int) tensor3d.General {
	img := tensor3d.NewZeros(dot.Cols, outRows, outCols)
	for row := 0; row < outRows; row++ {
		for col := 0; col < outCols; col++ {
			base := (row*outCols + col) * dot.Stride
			for ch := 0; ch < dot.Cols; ch++ {
				img.Data[img.At(ch, row, col)] = dot.Data[base+ch]
			}
		}
	}
	return img
}

func imageToDot(img tensor3d.General) blas32.General {
	dot := tensor2d.NewZeros(img.Rows*img.Cols, img.Channels)
	for row := 0; row < img.Rows; row++ {
		for col := 0; col < img.Cols; col++ {
			base := (row*img.Cols + col) * dot.Stride
			for ch := 0; ch < img.Channels; ch++ {
				dot.Data[base+ch] = img.Data[img.At(ch, row, col)]
			}
		}
	}
	return dot
}

func NewConv2DForward(filter tensor4d.General, b blas32.Vector, padRows, padCols, strideRows, strideCols int) Forward {
	return func(x tensor3d.General) (tensor3d.General, Backward, error) {
		if x.Channels != filter.Channels {
			return tensor3d.General{}, nil, fmt.Errorf("layer3d: x.Channels=%d, filter.Channels=%d", x.Channels, filter.Channels)
		}

		if len(b.Data) != b.N {
			return tensor3d.General{}, nil, fmt.Errorf("layer3d: len(b.Data) != b.N")
		}

		if filter.Batches != b.N {
			return tensor3d.General{}, nil, fmt.Errorf("layer3d: filter.Batches=%d, b.N=%d", filter.Batches, b.N)
		}

		geo := x.ConvGeometry(filter.Rows, filter.Cols, padRows, padCols, strideRows, strideCols)
		col, err := x.ToCol(geo)
		if err != nil {
			return tensor3d.General{}, nil, err
		}

		w := filter.ToGeneral()
		outRows := geo.OutputRows()
		outCols := geo.OutputCols()

		dot := tensor2d.NewZeros(col.Rows, filter.Batches)

		// チャネル毎にバイアスを加算する
		for row := 0; row < dot.Rows; row++ {
			base := row * dot.Stride
			for ch := 0; ch < dot.Cols; ch++ {
				dot.Data[base+ch] = b.Data[ch]
			}
		}

		blas32.Gemm(blas.NoTrans, blas.Trans, 1.0, col, w, 1.0, dot)
		y := dotToImage(dot, outRows, outCols)

		var backward Backward
		backward = func(chain tensor3d.General, grad *layer.GradBuffer) (tensor3d.General, error) {
			if chain.Channels != filter.Batches || chain.Rows != outRows || chain.Cols != outCols {
				return tensor3d.General{}, fmt.Errorf(
					"layer3d: chain shape (%d, %d, %d), want (%d, %d, %d)",
					chain.Channels, chain.Rows, chain.Cols, filter.Batches, outRows, outCols,
				)
			}

			chainDot := imageToDot(chain)

			// ∂L/∂filter
			dw := tensor2d.Dot(blas.Trans, blas.NoTrans, chainDot, col)
			dFilter, err := tensor4d.FromGeneral(dw, filter.Channels, filter.Rows, filter.Cols)
			if err != nil {
				return tensor3d.General{}, err
			}
			grad.Filters = append(grad.Filters, dFilter)

			// ∂L/∂b
			db := tensor2d.Sum0(chainDot)
			grad.Biases = append(grad.Biases, db)

			// ∂L/∂x は列行列の勾配を随伴変換で画像に畳み戻す
			dcol := tensor2d.Dot(blas.NoTrans, blas.NoTrans, chainDot, w)
			dx, err := tensor2d.Col2Im(dcol, geo)
			if err != nil {
				return tensor3d.General{}, err
			}
			return dx, nil
		}
		return y, backward, nil
	}
}

func NewLeakyReLUForward(alpha float32) Forward {
	return func(x tensor3d.General) (tensor3d.General, Backward, error) {
		y := tensor3d.NewZerosLike(x)
		for i, e := range x.Data {
			if e > 0 {
				y.Data[i] = e
			} else {
				y.Data[i] = alpha * e
			}
		}

		var backward Backward
		backward = func(chain tensor3d.General, _ *layer.GradBuffer) (tensor3d.General, error) {
			if chain.N() != x.N() {
				return tensor3d.General{}, fmt.Errorf("layer3d: chain.N()=%d, want %d", chain.N(), x.N())
			}

			dx := tensor3d.NewZerosLike(x)
			for i, e := range x.Data {
				if e > 0 {
					dx.Data[i] = chain.Data[i]
				} else {
					dx.Data[i] = alpha * chain.Data[i]
				}
			}
			return dx, nil
		}
		return y, backward, nil
	}
}

func NewSigmoidForward() Forward {
	return func(x tensor3d.General) (tensor3d.General, Backward, error) {
		y := tensor3d.NewZerosLike(x)
		for i, e := range x.Data {
			y.Data[i] = 1.0 / (1.0 + math32.Exp(-e))
		}

		var backward Backward
		backward = func(chain tensor3d.General, _ *layer.GradBuffer) (tensor3d.General, error) {
			if chain.N() != y.N() {
				return tensor3d.General{}, fmt.Errorf("layer3d: chain.N()=%d, want %d", chain.N(), y.N())
			}

			dx := tensor3d.NewZerosLike(y)
			for i, e := range y.Data {
				dx.Data[i] = chain.Data[i] * e * (1.0 - e)
			}
			return dx, nil
		}
		return y, backward, nil
	}
}
