package optimizer

import (
	"github.com/sw965/heron/blas32/tensor/4d"
	"github.com/sw965/heron/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

type FilterMomentum struct {
	Momentum float32
	Velocity tensor4d.General
}

func NewFilterMomentum(momentum float32, w tensor4d.General) FilterMomentum {
	return FilterMomentum{
		Momentum: momentum,
		Velocity: tensor4d.NewZerosLike(w),
	}
}

func (opt *FilterMomentum) Train(w, grad tensor4d.General, lr float32) {
	opt.Velocity.MulScalar(opt.Momentum)
	opt.Velocity.Axpy(-lr, grad)
	w.Axpy(1.0, opt.Velocity)
}

type VectorMomentum struct {
	Momentum float32
	Velocity blas32.Vector
}

func NewVectorMomentum(momentum float32, w blas32.Vector) VectorMomentum {
	return VectorMomentum{
		Momentum: momentum,
		Velocity: vector.NewZerosLike(w),
	}
}

func (opt *VectorMomentum) Train(w, grad blas32.Vector, lr float32) {
	blas32.Scal(opt.Momentum, opt.Velocity)
	blas32.Axpy(-lr, grad, opt.Velocity)
	blas32.Axpy(1.0, opt.Velocity, w)
}
