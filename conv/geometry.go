package conv

import (
	"fmt"
)

// Geometry は画像と畳み込みカーネルの形状をまとめたもの。
// Im2Col と Col2Im は同じ Geometry を共有する。
type Geometry struct {
	Channels   int
	Rows       int
	Cols       int
	KernelRows int
	KernelCols int
	PadRows    int
	PadCols    int
	StrideRows int
	StrideCols int
}

func NewGeometry(chs, rows, cols, kernelRows, kernelCols int) Geometry {
	return Geometry{
		Channels:   chs,
		Rows:       rows,
		Cols:       cols,
		KernelRows: kernelRows,
		KernelCols: kernelCols,
		StrideRows: 1,
		StrideCols: 1,
	}
}

func (g Geometry) OutputRows() int {
	return (g.Rows+2*g.PadRows-g.KernelRows)/g.StrideRows + 1
}

func (g Geometry) OutputCols() int {
	return (g.Cols+2*g.PadCols-g.KernelCols)/g.StrideCols + 1
}

// PatchChannels は列行列の1行あたりの要素数。
func (g Geometry) PatchChannels() int {
	return g.Channels * g.KernelRows * g.KernelCols
}

func (g Geometry) ImageN() int {
	return g.Channels * g.Rows * g.Cols
}

func (g Geometry) ColN() int {
	return g.OutputRows() * g.OutputCols() * g.PatchChannels()
}

func (g Geometry) ImageIndex(ch, row, col int) int {
	return (ch*g.Rows+row)*g.Cols + col
}

// ColIndex はチャネルを最下位軸とする列行列のインデックス。
func (g Geometry) ColIndex(outRow, outCol, patchCh int) int {
	patchChs := g.PatchChannels()
	return patchChs*g.OutputCols()*outRow + patchChs*outCol + patchCh
}

// decodePatchChannel は複合インデックスを (チャネル, 行オフセット, 列オフセット) に分解する。
func (g Geometry) decodePatchChannel(c int) (int, int, int) {
	colOffset := c % g.KernelCols
	rowOffset := (c / g.KernelCols) % g.KernelRows
	ch := c / (g.KernelRows * g.KernelCols)
	return ch, rowOffset, colOffset
}

func (g Geometry) Validate() error {
	if g.Channels < 1 || g.Rows < 1 || g.Cols < 1 {
		return fmt.Errorf("conv: invalid image shape (%d, %d, %d)", g.Channels, g.Rows, g.Cols)
	}

	if g.KernelRows < 1 || g.KernelCols < 1 {
		return fmt.Errorf("conv: invalid kernel shape (%d, %d)", g.KernelRows, g.KernelCols)
	}

	if g.PadRows < 0 || g.PadCols < 0 {
		return fmt.Errorf("conv: negative padding (%d, %d)", g.PadRows, g.PadCols)
	}

	if g.StrideRows < 1 || g.StrideCols < 1 {
		return fmt.Errorf("conv: invalid stride (%d, %d)", g.StrideRows, g.StrideCols)
	}

	if outRows, outCols := g.OutputRows(), g.OutputCols(); outRows < 1 || outCols < 1 {
		return fmt.Errorf(
			"conv: output shape (%d, %d) is not positive: kernel (%d, %d) does not fit the padded image (%d, %d)",
			outRows, outCols, g.KernelRows, g.KernelCols, g.Rows+2*g.PadRows, g.Cols+2*g.PadCols,
		)
	}
	return nil
}
