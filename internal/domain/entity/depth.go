package entity

import (
	"fmt"
	"strings"
)

// DepthSide размер стороны матрицы дальномера.
const DepthSide = 8

// DepthMatrix кадр ToF-датчика 8×8, строки сверху вниз.
type DepthMatrix [DepthSide][DepthSide]uint8

// Min возвращает минимальное значение матрицы (ближайшая точка).
func (m DepthMatrix) Min() uint8 {
	lowest := m[0][0]
	for _, row := range m {
		for _, v := range row {
			if v < lowest {
				lowest = v
			}
		}
	}
	return lowest
}

// String форматирует матрицу построчно, по строке на ряд датчика.
func (m DepthMatrix) String() string {
	var b strings.Builder
	for i, row := range m {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%3d", v)
		}
		b.WriteByte(']')
	}
	return b.String()
}
