package app

import (
	"go.uber.org/multierr"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

type ProfileService struct {
	repo port.ProfileRepository
}

func NewProfileService(repo port.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Seed кладёт в таблицу цвета и классы; ошибки всех записей возвращаются вместе.
func (s *ProfileService) Seed(colors []entity.ColorRange, classes []entity.ObjectClassProfile) error {
	var errs error
	for _, c := range colors {
		errs = multierr.Append(errs, s.repo.PutColor(c))
	}
	for _, c := range classes {
		errs = multierr.Append(errs, s.repo.PutClass(c))
	}
	return errs
}

func (s *ProfileService) Resolve(colorName, className string) (entity.ColorRange, entity.ObjectClassProfile, error) {
	rng, err := s.repo.Color(colorName)
	if err != nil {
		return entity.ColorRange{}, entity.ObjectClassProfile{}, err
	}
	profile, err := s.repo.Class(className)
	if err != nil {
		return entity.ColorRange{}, entity.ObjectClassProfile{}, err
	}
	return rng, profile, nil
}

// resolvedPhase шаг с уже найденными профилями.
type resolvedPhase struct {
	phase   entity.Phase
	rng     entity.ColorRange
	profile entity.ObjectClassProfile
}

// resolvePhases проверяет весь рабочий список до начала прогона.
func (s *ProfileService) resolvePhases(phases []entity.Phase) ([]resolvedPhase, error) {
	var errs error
	out := make([]resolvedPhase, 0, len(phases))
	for _, p := range phases {
		if err := p.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rng, profile, err := s.Resolve(p.Color, p.Class)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, resolvedPhase{phase: p, rng: rng, profile: profile})
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// Ranges возвращает все цвета таблицы в порядке имён.
func (s *ProfileService) Ranges() []entity.ColorRange {
	names := s.repo.Colors()
	out := make([]entity.ColorRange, 0, len(names))
	for _, name := range names {
		if rng, err := s.repo.Color(name); err == nil {
			out = append(out, rng)
		}
	}
	return out
}

// Profiles возвращает все классы таблицы в порядке имён.
func (s *ProfileService) Profiles() []entity.ObjectClassProfile {
	names := s.repo.Classes()
	out := make([]entity.ObjectClassProfile, 0, len(names))
	for _, name := range names {
		if p, err := s.repo.Class(name); err == nil {
			out = append(out, p)
		}
	}
	return out
}
