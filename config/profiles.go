package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"pi-vision/internal/domain/entity"
)

// profileFile формат YAML-файла с профилями.
type profileFile struct {
	Colors   map[string][]boundPair  `yaml:"colors"`
	Classes  map[string]classProfile `yaml:"classes"`
	Sequence []phaseEntry            `yaml:"sequence"`
}

type boundPair struct {
	Lower []int `yaml:"lower"`
	Upper []int `yaml:"upper"`
}

type classProfile struct {
	MinArea     float64 `yaml:"min_area"`
	AspectMin   float64 `yaml:"aspect_min"`
	AspectMax   float64 `yaml:"aspect_max"`
	CheckAspect bool    `yaml:"check_aspect"`
}

type phaseEntry struct {
	Class  string `yaml:"class"`
	Color  string `yaml:"color"`
	Frames int    `yaml:"frames"`
}

// LoadProfiles читает YAML-файл профилей. Все ошибки файла возвращаются разом.
func LoadProfiles(path string) (ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles разбирает содержимое файла профилей.
func ParseProfiles(data []byte) (ProfileSet, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ProfileSet{}, fmt.Errorf("parse profiles: %w", err)
	}

	var (
		set  = ProfileSet{Name: "file"}
		errs error
	)
	for _, name := range sortedKeys(file.Colors) {
		rng, err := file.colorRange(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		set.Colors = append(set.Colors, rng)
	}
	for _, name := range sortedKeys(file.Classes) {
		c := file.Classes[name]
		profile := entity.ObjectClassProfile{
			Name:        name,
			MinArea:     c.MinArea,
			AspectMin:   c.AspectMin,
			AspectMax:   c.AspectMax,
			CheckAspect: c.CheckAspect,
		}
		if err := profile.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		set.Classes = append(set.Classes, profile)
	}
	for _, p := range file.Sequence {
		phase := entity.Phase{Class: p.Class, Color: p.Color, Frames: p.Frames}
		if err := phase.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		set.Sequence = append(set.Sequence, phase)
	}
	if errs != nil {
		return ProfileSet{}, errs
	}
	return set, nil
}

func (f profileFile) colorRange(name string) (entity.ColorRange, error) {
	rng := entity.ColorRange{Name: name}
	for i, p := range f.Colors[name] {
		lower, err := toBound(p.Lower)
		if err != nil {
			return rng, &entity.InvalidRangeError{Color: name, Reason: fmt.Sprintf("pair %d lower: %v", i, err)}
		}
		upper, err := toBound(p.Upper)
		if err != nil {
			return rng, &entity.InvalidRangeError{Color: name, Reason: fmt.Sprintf("pair %d upper: %v", i, err)}
		}
		rng.Pairs = append(rng.Pairs, entity.HSVPair{Lower: lower, Upper: upper})
	}
	if err := rng.Validate(); err != nil {
		return rng, err
	}
	if err := CheckHueBand(rng); err != nil {
		return rng, err
	}
	return rng, nil
}

func toBound(v []int) (entity.HSVBound, error) {
	if len(v) != 3 {
		return entity.HSVBound{}, fmt.Errorf("want 3 values, got %d", len(v))
	}
	for _, x := range v {
		if x < 0 || x > 255 {
			return entity.HSVBound{}, fmt.Errorf("value %d out of 0-255", x)
		}
	}
	return entity.HSVBound{H: uint8(v[0]), S: uint8(v[1]), V: uint8(v[2])}, nil
}
