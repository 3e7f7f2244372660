//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
	"pi-vision/internal/infrastructure/overlay"
)

type GoCVDetector struct {
	KernelSize int
}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{KernelSize: kernelSize}
}

// Detect проверяет входные данные и возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, frame entity.Frame, rng entity.ColorRange, profile entity.ObjectClassProfile) ([]entity.Detection, error) {
	_ = ctx
	if err := validateInputs(frame, rng, profile); err != nil {
		return nil, err
	}
	return nil, ErrBackendDisabled
}

// Annotate рисует рамки без OpenCV.
func (d *GoCVDetector) Annotate(frame entity.Frame, dets []entity.Detection) (entity.Frame, error) {
	return overlay.DrawFrame(frame, dets)
}

var _ port.ObjectDetector = (*GoCVDetector)(nil)
