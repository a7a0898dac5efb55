package main

import (
	"fmt"
	"log"

	"github.com/sw965/heron/blas32/tensor/3d"
	"github.com/sw965/heron/blas32/tensor/4d"
	"github.com/sw965/heron/blas32/vector"
	"github.com/sw965/heron/model/layer/3d"
	"github.com/sw965/heron/optimizer"
	omwrand "github.com/sw965/omw/math/rand"
)

func main() {
	rng := omwrand.NewMt19937()

	x := tensor3d.NewRademacher(1, 8, 8, rng)

	// 0/1 のランダムな目標画像
	target := tensor3d.NewRademacherLike(x, rng)
	for i, e := range target.Data {
		target.Data[i] = (e + 1.0) / 2.0
	}

	filter1 := tensor4d.NewHe(4, 1, 3, 3, rng)
	b1 := vector.NewZeros(4)
	filter2 := tensor4d.NewHe(1, 4, 3, 3, rng)
	b2 := vector.NewZeros(1)

	forwards := layer3d.Forwards{
		layer3d.NewConv2DForward(filter1, b1, 1, 1, 1, 1),
		layer3d.NewLeakyReLUForward(0.1),
		layer3d.NewConv2DForward(filter2, b2, 1, 1, 1, 1),
		layer3d.NewSigmoidForward(),
	}

	optFilter1 := optimizer.NewFilterMomentum(0.9, filter1)
	optBias1 := optimizer.NewVectorMomentum(0.9, b1)
	optFilter2 := optimizer.NewFilterMomentum(0.9, filter2)
	optBias2 := optimizer.NewVectorMomentum(0.9, b2)

	lr := float32(0.1)

	for epoch := 0; epoch < 200; epoch++ {
		y, backwards, err := forwards.Propagate(x)
		if err != nil {
			log.Fatal(err)
		}

		// 二乗和誤差
		chain := tensor3d.NewZerosLike(y)
		var loss float32
		for i, e := range y.Data {
			diff := e - target.Data[i]
			loss += 0.5 * diff * diff
			chain.Data[i] = diff
		}

		_, grad, err := backwards.Propagate(chain)
		if err != nil {
			log.Fatal(err)
		}

		grad.ClipUsingL2Norm(5.0)

		optFilter1.Train(filter1, grad.Filters[0], lr)
		optBias1.Train(b1, grad.Biases[0], lr)
		optFilter2.Train(filter2, grad.Filters[1], lr)
		optBias2.Train(b2, grad.Biases[1], lr)

		if epoch%20 == 0 {
			fmt.Printf("epoch %d: loss = %f\n", epoch, loss)
		}
	}
}
