package port

import (
	"context"

	"pi-vision/internal/domain/entity"
)

// DepthSensor интерфейс ToF-дальномера 8×8
type DepthSensor interface {
	// ReadMatrix читает один кадр; ошибка заголовка не фатальна для опроса
	ReadMatrix(ctx context.Context) (entity.DepthMatrix, error)
	Close() error
}
