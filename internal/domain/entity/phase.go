package entity

import (
	"fmt"
	"time"
)

// Phase один шаг рабочего списка: искать объекты класса Class цвета Color
// на протяжении Frames кадров.
type Phase struct {
	Class  string
	Color  string
	Frames int
}

func (p Phase) String() string {
	return fmt.Sprintf("%s %s x%d", p.Color, p.Class, p.Frames)
}

// Validate проверяет, что шаг заполнен.
func (p Phase) Validate() error {
	if p.Class == "" || p.Color == "" {
		return fmt.Errorf("phase %q: class and color are required", p.String())
	}
	if p.Frames <= 0 {
		return fmt.Errorf("phase %q: frame count must be positive", p.String())
	}
	return nil
}

// PhaseReport итог одного шага.
type PhaseReport struct {
	Phase          Phase
	Frames         int
	FramesWithHits int
	Detections     int
	Largest        *Detection // самая крупная детекция шага, nil если ничего не найдено
}

// RunReport итог прогона рабочего списка или записи видео.
type RunReport struct {
	RunID   int64
	Preset  string
	Phases  []PhaseReport
	Frames  int
	Elapsed time.Duration
}

// FPS возвращает измеренную частоту обработки кадров.
func (r RunReport) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// Detections возвращает общее число детекций по всем шагам.
func (r RunReport) Detections() int {
	total := 0
	for _, p := range r.Phases {
		total += p.Detections
	}
	return total
}
