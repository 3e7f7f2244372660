package vision

import (
	"errors"

	"pi-vision/internal/domain/entity"
)

// ErrBackendDisabled возвращается детектором, собранным без тега gocv.
var ErrBackendDisabled = errors.New("gocv build tag is not enabled")

// Параметры конвейера, общие для обеих сборок.
const (
	kernelSize  = 5 // эллиптический структурный элемент 5×5
	lineWidth   = 2
	labelOffset = 10
	fontScale   = 0.7
)

// validateInputs выполняет все проверки до начала обработки.
func validateInputs(frame entity.Frame, rng entity.ColorRange, profile entity.ObjectClassProfile) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	return frame.Validate()
}
