package port

import (
	"context"

	"pi-vision/internal/domain/entity"
)

// DetectionJournal журнал детекций прогона
type DetectionJournal interface {
	// StartRun открывает новый прогон и возвращает его идентификатор
	StartRun(ctx context.Context, preset string) (int64, error)

	// Record сохраняет детекции одного кадра
	Record(ctx context.Context, runID int64, phase entity.Phase, frame int, dets []entity.Detection) error
}

// Notifier отправляет итоги прогона оператору
type Notifier interface {
	Notify(ctx context.Context, report entity.RunReport, snapshot *entity.Frame) error
}
