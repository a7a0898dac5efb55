package optimizer_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/sw965/heron/blas32/tensor/4d"
	"github.com/sw965/heron/blas32/vector"
	"github.com/sw965/heron/optimizer"
)

func TestFilterMomentum(t *testing.T) {
	w := tensor4d.NewOnes(1, 1, 2, 2)
	grad := tensor4d.NewOnes(1, 1, 2, 2)

	opt := optimizer.NewFilterMomentum(0.9, w)
	lr := float32(0.1)

	// 1回目: v = -lr*grad, w = 1 - 0.1
	opt.Train(w, grad, lr)
	for i, e := range w.Data {
		if diff := math32.Abs(e - 0.9); diff > 1e-6 {
			t.Fatalf("w.Data[%d] = %v, want 0.9", i, e)
		}
	}

	// 2回目: v = 0.9*(-0.1) - 0.1 = -0.19, w = 0.9 - 0.19
	opt.Train(w, grad, lr)
	for i, e := range w.Data {
		if diff := math32.Abs(e - 0.71); diff > 1e-6 {
			t.Fatalf("w.Data[%d] = %v, want 0.71", i, e)
		}
	}
}

func TestVectorMomentum(t *testing.T) {
	w := vector.NewZeros(3)
	grad := vector.NewZeros(3)
	for i := range grad.Data {
		grad.Data[i] = float32(i + 1)
	}

	opt := optimizer.NewVectorMomentum(0.5, w)
	opt.Train(w, grad, 1.0)

	for i, e := range w.Data {
		want := -float32(i + 1)
		if diff := math32.Abs(e - want); diff > 1e-6 {
			t.Fatalf("w.Data[%d] = %v, want %v", i, e, want)
		}
	}
}
