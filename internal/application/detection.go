package app

import (
	"context"
	"errors"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

type DetectionService struct {
	profiles *ProfileService
	detector port.ObjectDetector
}

// DetectionOutput содержит найденные объекты и кадр с подсветкой.
type DetectionOutput struct {
	Detections []entity.Detection
	Annotated  entity.Frame
}

// NewDetectionService создаёт сервис поиска объектов по именам цвета и класса.
func NewDetectionService(profiles *ProfileService, detector port.ObjectDetector) *DetectionService {
	return &DetectionService{profiles: profiles, detector: detector}
}

// Detect находит профили по именам и запускает детектор.
func (s *DetectionService) Detect(ctx context.Context, frame entity.Frame, colorName, className string) ([]entity.Detection, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	rng, profile, err := s.profiles.Resolve(colorName, className)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(ctx, frame, rng, profile)
}

// DetectAndAnnotate дополнительно возвращает копию кадра с рамками.
func (s *DetectionService) DetectAndAnnotate(ctx context.Context, frame entity.Frame, colorName, className string) (*DetectionOutput, error) {
	dets, err := s.Detect(ctx, frame, colorName, className)
	if err != nil {
		return nil, err
	}
	annotated, err := s.detector.Annotate(frame, dets)
	if err != nil {
		return nil, err
	}
	return &DetectionOutput{Detections: dets, Annotated: annotated}, nil
}
