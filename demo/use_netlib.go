//go:build netlib

package main

import (
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/netlib/blas/netlib"
)

// -tags netlib で gonum の純Go実装の代わりに cgo の BLAS を使う。
func init() {
	blas32.Use(netlib.Implementation{})
}
