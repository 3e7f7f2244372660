package entity

import "math"

// ObjectClassProfile описывает геометрию класса объекта: минимальную площадь
// контура и допустимое соотношение сторон ширина/высота.
type ObjectClassProfile struct {
	Name        string
	MinArea     float64
	AspectMin   float64
	AspectMax   float64
	CheckAspect bool // фильтр по соотношению сторон можно отключить, площадь проверяется всегда
}

// Validate проверяет инварианты профиля.
func (p ObjectClassProfile) Validate() error {
	if p.Name == "" {
		return &InvalidProfileError{Class: p.Name, Reason: "name is empty"}
	}
	// NaN не проходит ни одно сравнение, поэтому условие записано через отрицание.
	if !(p.MinArea >= 0) {
		return &InvalidProfileError{Class: p.Name, Reason: "min area must be a non-negative number"}
	}
	if math.IsNaN(p.AspectMin) || math.IsNaN(p.AspectMax) {
		return &InvalidProfileError{Class: p.Name, Reason: "aspect bounds must be numbers"}
	}
	if p.AspectMin > p.AspectMax {
		return &InvalidProfileError{Class: p.Name, Reason: "aspect min exceeds aspect max"}
	}
	return nil
}

// Accepts применяет фильтры площади и соотношения сторон к одному контуру.
func (p ObjectClassProfile) Accepts(area float64, box BoundingBox) bool {
	if area < p.MinArea {
		return false
	}
	if !p.CheckAspect {
		return true
	}
	if box.Height == 0 {
		return false
	}
	aspect := box.AspectRatio()
	return aspect >= p.AspectMin && aspect <= p.AspectMax
}
