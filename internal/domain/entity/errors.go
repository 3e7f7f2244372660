package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColor возвращается, если цвет не найден в таблице профилей.
	ErrUnknownColor = errors.New("unknown color")
	// ErrUnknownClass возвращается, если класс объекта не найден в таблице профилей.
	ErrUnknownClass = errors.New("unknown object class")
	// ErrBadFrame возвращается датчиком глубины при повреждённом кадре; опрос продолжается.
	ErrBadFrame = errors.New("bad frame")
)

// InvalidRangeError пустой или некорректный цветовой диапазон.
type InvalidRangeError struct {
	Color  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid color range %q: %s", e.Color, e.Reason)
}

// InvalidProfileError некорректный профиль класса объекта.
type InvalidProfileError struct {
	Class  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid class profile %q: %s", e.Class, e.Reason)
}

// InputError кадр пустой, нулевого размера или с неподдерживаемым порядком каналов.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input frame: " + e.Reason
}
