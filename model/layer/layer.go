package layer

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/sw965/heron/blas32/tensor/4d"
	"github.com/sw965/heron/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

// GradBuffer は逆伝播で集めたパラメータ勾配を層の並び順に保持する。
type GradBuffer struct {
	Filters []tensor4d.General
	Biases  []blas32.Vector
}

func (g *GradBuffer) NewZerosLike() GradBuffer {
	filters := make([]tensor4d.General, len(g.Filters))
	for i, f := range g.Filters {
		filters[i] = tensor4d.NewZerosLike(f)
	}

	biases := make([]blas32.Vector, len(g.Biases))
	for i, b := range g.Biases {
		biases[i] = vector.NewZerosLike(b)
	}

	return GradBuffer{
		Filters: filters,
		Biases:  biases,
	}
}

func (g *GradBuffer) Add(other *GradBuffer) error {
	if len(g.Filters) != len(other.Filters) || len(g.Biases) != len(other.Biases) {
		return fmt.Errorf("layer: GradBuffer length mismatch")
	}

	for i, f := range other.Filters {
		g.Filters[i].Axpy(1.0, f)
	}

	for i, b := range other.Biases {
		blas32.Axpy(1.0, b, g.Biases[i])
	}
	return nil
}

func (g *GradBuffer) MulScalar(alpha float32) {
	for i := range g.Filters {
		g.Filters[i].MulScalar(alpha)
	}

	for i := range g.Biases {
		blas32.Scal(alpha, g.Biases[i])
	}
}

func (g *GradBuffer) ComputeL2Norm() float32 {
	var sqSum float32
	for _, f := range g.Filters {
		for _, e := range f.Data {
			sqSum += e * e
		}
	}

	for _, b := range g.Biases {
		for _, e := range b.Data {
			sqSum += e * e
		}
	}
	return math32.Sqrt(sqSum)
}

func (g *GradBuffer) ClipUsingL2Norm(maxNorm float32) {
	norm := g.ComputeL2Norm()
	scale := maxNorm / norm
	if scale < 1.0 {
		g.MulScalar(scale)
	}
}
