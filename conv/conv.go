package conv

import (
	"fmt"
)

type Float interface {
	~float32 | ~float64
}

// Im2Col は画像を列行列に展開する。
// col の各要素は一度だけ書き込まれ、パディング領域は 0 とする。
func Im2Col[T Float](img []T, g Geometry, col []T) error {
	if err := g.Validate(); err != nil {
		return err
	}

	if len(img) != g.ImageN() {
		return fmt.Errorf("conv: len(img)=%d, want %d", len(img), g.ImageN())
	}

	if len(col) != g.ColN() {
		return fmt.Errorf("conv: len(col)=%d, want %d", len(col), g.ColN())
	}

	outRows := g.OutputRows()
	outCols := g.OutputCols()
	patchChs := g.PatchChannels()
	colIdx := 0

	for or := 0; or < outRows; or++ {
		baseRow := or*g.StrideRows - g.PadRows
		for oc := 0; oc < outCols; oc++ {
			baseCol := oc*g.StrideCols - g.PadCols
			for c := 0; c < patchChs; c++ {
				ch, rowOffset, colOffset := g.decodePatchChannel(c)
				row := baseRow + rowOffset
				colPos := baseCol + colOffset
				if row >= 0 && row < g.Rows && colPos >= 0 && colPos < g.Cols {
					col[colIdx] = img[g.ImageIndex(ch, row, colPos)]
				} else {
					col[colIdx] = 0
				}
				colIdx++
			}
		}
	}
	return nil
}

// Col2Im は列行列を画像に畳み戻す。Im2Col の随伴変換。
// img を 0 で初期化した後、重なり合う寄与を (出力行, 出力列, 複合チャネル) の順に加算する。
// 範囲外 (パディング領域) の寄与は捨てる。
func Col2Im[T Float](col []T, g Geometry, img []T) error {
	if err := g.Validate(); err != nil {
		return err
	}

	if len(col) != g.ColN() {
		return fmt.Errorf("conv: len(col)=%d, want %d", len(col), g.ColN())
	}

	if len(img) != g.ImageN() {
		return fmt.Errorf("conv: len(img)=%d, want %d", len(img), g.ImageN())
	}

	for i := range img {
		img[i] = 0
	}

	outRows := g.OutputRows()
	outCols := g.OutputCols()
	patchChs := g.PatchChannels()
	colIdx := 0

	for or := 0; or < outRows; or++ {
		baseRow := or*g.StrideRows - g.PadRows
		for oc := 0; oc < outCols; oc++ {
			baseCol := oc*g.StrideCols - g.PadCols
			for c := 0; c < patchChs; c++ {
				ch, rowOffset, colOffset := g.decodePatchChannel(c)
				row := baseRow + rowOffset
				colPos := baseCol + colOffset
				if row >= 0 && row < g.Rows && colPos >= 0 && colPos < g.Cols {
					img[g.ImageIndex(ch, row, colPos)] += col[colIdx]
				}
				colIdx++
			}
		}
	}
	return nil
}
