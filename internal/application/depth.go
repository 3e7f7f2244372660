package app

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// DepthStats счётчики опроса датчика глубины.
type DepthStats struct {
	Reads int
	Bad   int
}

type DepthService struct {
	sensor   port.DepthSensor
	interval time.Duration
	clock    clock.Clock
	logger   *zap.Logger
}

func NewDepthService(sensor port.DepthSensor, interval time.Duration, clk clock.Clock, logger *zap.Logger) *DepthService {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepthService{sensor: sensor, interval: interval, clock: clk, logger: logger}
}

// Run опрашивает датчик с периодом interval и передаёт корректные матрицы в fn.
// Повреждённые кадры считаются и пропускаются. maxReads == 0 означает опрос до отмены контекста.
func (s *DepthService) Run(ctx context.Context, maxReads int, fn func(entity.DepthMatrix)) (DepthStats, error) {
	var stats DepthStats
	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	for {
		m, err := s.sensor.ReadMatrix(ctx)
		switch {
		case ctx.Err() != nil:
			return stats, nil
		case errors.Is(err, entity.ErrBadFrame):
			stats.Reads++
			stats.Bad++
			s.logger.Warn("bad frame", zap.Error(err))
		case err != nil:
			return stats, err
		default:
			stats.Reads++
			fn(m)
		}

		if maxReads > 0 && stats.Reads >= maxReads {
			return stats, nil
		}

		select {
		case <-ctx.Done():
			return stats, nil
		case <-ticker.C:
		}
	}
}
