package entity

import "fmt"

// Границы каналов HSV в 8-битной шкале OpenCV.
const (
	MaxHue        = 180
	MaxSaturation = 255
	MaxValue      = 255
)

// HSVBound тройка значений в пространстве HSV (шкала OpenCV: H 0-180, S и V 0-255).
type HSVBound struct {
	H uint8
	S uint8
	V uint8
}

// HSVPair включительные нижняя и верхняя границы одного поддиапазона.
type HSVPair struct {
	Lower HSVBound
	Upper HSVBound
}

// Pair создаёт поддиапазон из двух троек.
func Pair(lh, ls, lv, uh, us, uv uint8) HSVPair {
	return HSVPair{
		Lower: HSVBound{H: lh, S: ls, V: lv},
		Upper: HSVBound{H: uh, S: us, V: uv},
	}
}

// ColorRange именованный цвет и набор поддиапазонов, объединяемых через OR.
// Красному нужно два поддиапазона, потому что тон замыкается в районе 0/180.
type ColorRange struct {
	Name  string
	Pairs []HSVPair
}

// Validate проверяет имя, наличие поддиапазонов и границы каналов.
func (r ColorRange) Validate() error {
	if r.Name == "" {
		return &InvalidRangeError{Color: r.Name, Reason: "name is empty"}
	}
	if len(r.Pairs) == 0 {
		return &InvalidRangeError{Color: r.Name, Reason: "no bound pairs"}
	}
	for i, p := range r.Pairs {
		for _, b := range []HSVBound{p.Lower, p.Upper} {
			if b.H > MaxHue {
				return &InvalidRangeError{Color: r.Name, Reason: fmt.Sprintf("pair %d: hue %d exceeds %d", i, b.H, MaxHue)}
			}
		}
		if p.Lower.H > p.Upper.H || p.Lower.S > p.Upper.S || p.Lower.V > p.Upper.V {
			return &InvalidRangeError{Color: r.Name, Reason: fmt.Sprintf("pair %d: lower bound exceeds upper bound", i)}
		}
	}
	return nil
}
