package app

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// RecordPreset имя прогона записи в отчёте.
const RecordPreset = "record"

type RecordService struct {
	source port.FrameSource
	sink   port.FrameSink
	clock  clock.Clock
	logger *zap.Logger
}

func NewRecordService(source port.FrameSource, sink port.FrameSink, clk clock.Clock, logger *zap.Logger) *RecordService {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{source: source, sink: sink, clock: clk, logger: logger}
}

// Record копирует кадры из источника в приёмник, пока не истечёт duration.
func (s *RecordService) Record(ctx context.Context, duration time.Duration) (entity.RunReport, error) {
	report := entity.RunReport{Preset: RecordPreset}
	if duration <= 0 {
		return report, errors.Errorf("record duration must be positive, got %s", duration)
	}

	s.logger.Info("recording", zap.Duration("duration", duration))
	start := s.clock.Now()
	for s.clock.Since(start) < duration {
		if err := ctx.Err(); err != nil {
			report.Elapsed = s.clock.Since(start)
			return report, err
		}
		frame, err := s.source.Read(ctx)
		if err != nil {
			report.Elapsed = s.clock.Since(start)
			return report, errors.Wrap(err, "read frame")
		}
		if err := s.sink.Write(frame); err != nil {
			report.Elapsed = s.clock.Since(start)
			return report, errors.Wrap(err, "write frame")
		}
		report.Frames++
	}
	report.Elapsed = s.clock.Since(start)

	s.logger.Info("recording done", zap.Int("frames", report.Frames), zap.Float64("fps", report.FPS()))
	return report, nil
}
