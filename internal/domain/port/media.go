package port

import (
	"context"

	"pi-vision/internal/domain/entity"
)

// FrameSource источник кадров (камера, файл)
type FrameSource interface {
	// Read блокируется до получения следующего кадра
	Read(ctx context.Context) (entity.Frame, error)
	Close() error
}

// FrameSink приёмник кадров (видеофайл)
type FrameSink interface {
	Write(frame entity.Frame) error
	Close() error
}
