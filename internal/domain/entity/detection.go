package entity

import "sort"

// BoundingBox осевой ограничивающий прямоугольник.
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина в пикселях
	Height int // высота в пикселях
}

// AspectRatio возвращает отношение ширины к высоте.
func (b BoundingBox) AspectRatio() float64 {
	if b.Height == 0 {
		return 0
	}
	return float64(b.Width) / float64(b.Height)
}

// Detection найденный на кадре объект заданного класса и цвета.
type Detection struct {
	Class string
	Color string
	Box   BoundingBox
	Area  float64 // площадь контура в пикселях²
}

// Center возвращает координаты центра объекта
func (d Detection) Center() (x, y int) {
	return d.Box.X + d.Box.Width/2, d.Box.Y + d.Box.Height/2
}

// Label возвращает подпись для отрисовки, например "RED BALL".
func (d Detection) Label() string {
	return d.Color + " " + d.Class
}

// SortDetections упорядочивает детекции по левому верхнему углу (Y, затем X),
// при равенстве по убыванию площади.
func SortDetections(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		a, b := dets[i].Box, dets[j].Box
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return dets[i].Area > dets[j].Area
	})
}
