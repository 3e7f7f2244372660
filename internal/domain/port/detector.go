package port

import (
	"context"

	"pi-vision/internal/domain/entity"
)

// ObjectDetector интерфейс детектора цветных объектов
type ObjectDetector interface {
	// Detect ищет на кадре объекты класса profile цвета rng
	Detect(ctx context.Context, frame entity.Frame, rng entity.ColorRange, profile entity.ObjectClassProfile) ([]entity.Detection, error)

	// Annotate возвращает копию кадра с рамками и подписями детекций
	Annotate(frame entity.Frame, dets []entity.Detection) (entity.Frame, error)
}
