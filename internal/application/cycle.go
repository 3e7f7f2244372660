package app

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// CycleDeps зависимости сервиса перебора. Sink, Journal и Notifier необязательны.
type CycleDeps struct {
	Profiles *ProfileService
	Detector port.ObjectDetector
	Source   port.FrameSource
	Sink     port.FrameSink
	Journal  port.DetectionJournal
	Notifier port.Notifier
	Clock    clock.Clock
	Logger   *zap.Logger
}

// CycleService проходит рабочий список шагов по порядку: каждый шаг ищет
// один класс одного цвета на заданном числе кадров.
type CycleService struct {
	deps CycleDeps
}

func NewCycleService(deps CycleDeps) *CycleService {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &CycleService{deps: deps}
}

// Run выполняет рабочий список. При отмене контекста возвращает отчёт
// по уже обработанным кадрам вместе с ошибкой контекста.
func (s *CycleService) Run(ctx context.Context, preset string, phases []entity.Phase) (entity.RunReport, error) {
	d := s.deps
	report := entity.RunReport{Preset: preset}
	if d.Detector == nil || d.Source == nil {
		return report, errors.New("detector and frame source are required")
	}

	resolved, err := d.Profiles.resolvePhases(phases)
	if err != nil {
		return report, err
	}

	if d.Journal != nil {
		if report.RunID, err = d.Journal.StartRun(ctx, preset); err != nil {
			return report, pkgerrors.Wrap(err, "start run")
		}
	}

	start := d.Clock.Now()
	var snapshot *entity.Frame
	finish := func() entity.RunReport {
		report.Elapsed = d.Clock.Since(start)
		return report
	}

	for _, rp := range resolved {
		d.Logger.Info("now detecting", zap.String("color", rp.phase.Color), zap.String("class", rp.phase.Class),
			zap.Int("frames", rp.phase.Frames))

		pr := entity.PhaseReport{Phase: rp.phase}
		for i := 0; i < rp.phase.Frames; i++ {
			if err := ctx.Err(); err != nil {
				report.Phases = append(report.Phases, pr)
				return finish(), err
			}

			annotated, dets, err := s.processFrame(ctx, rp)
			if err != nil {
				report.Phases = append(report.Phases, pr)
				return finish(), err
			}

			if d.Journal != nil {
				if err := d.Journal.Record(ctx, report.RunID, rp.phase, report.Frames, dets); err != nil {
					d.Logger.Warn("journal write failed", zap.Int64("run_id", report.RunID), zap.Error(err))
				}
			}

			pr.Frames++
			report.Frames++
			if len(dets) > 0 {
				pr.FramesWithHits++
				pr.Detections += len(dets)
				pr.Largest = largest(pr.Largest, dets)
				frame := annotated
				snapshot = &frame
			}
		}
		d.Logger.Info("phase done", zap.Stringer("phase", rp.phase), zap.Int("frames_with_hits", pr.FramesWithHits),
			zap.Int("detections", pr.Detections))
		report.Phases = append(report.Phases, pr)
	}

	report = finish()
	d.Logger.Info("run complete", zap.Int64("run_id", report.RunID), zap.Int("frames", report.Frames),
		zap.Float64("fps", report.FPS()), zap.Duration("elapsed", report.Elapsed))

	if d.Notifier != nil {
		if err := d.Notifier.Notify(ctx, report, snapshot); err != nil {
			d.Logger.Warn("notify failed", zap.Error(err))
		}
	}
	return report, nil
}

// processFrame читает кадр, ищет объекты, пишет аннотированный кадр в приёмник.
func (s *CycleService) processFrame(ctx context.Context, rp resolvedPhase) (entity.Frame, []entity.Detection, error) {
	d := s.deps
	frame, err := d.Source.Read(ctx)
	if err != nil {
		return entity.Frame{}, nil, pkgerrors.Wrap(err, "read frame")
	}
	dets, err := d.Detector.Detect(ctx, frame, rp.rng, rp.profile)
	if err != nil {
		return entity.Frame{}, nil, pkgerrors.Wrapf(err, "detect %s", rp.phase)
	}
	annotated, err := d.Detector.Annotate(frame, dets)
	if err != nil {
		return entity.Frame{}, nil, pkgerrors.Wrap(err, "annotate")
	}
	if d.Sink != nil {
		if err := d.Sink.Write(annotated); err != nil {
			return entity.Frame{}, nil, pkgerrors.Wrap(err, "write frame")
		}
	}
	return annotated, dets, nil
}

func largest(cur *entity.Detection, dets []entity.Detection) *entity.Detection {
	for i := range dets {
		if cur == nil || dets[i].Area > cur.Area {
			det := dets[i]
			cur = &det
		}
	}
	return cur
}
