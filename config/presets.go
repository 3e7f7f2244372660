package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"pi-vision/internal/domain/entity"
)

// Встроенные наборы профилей.
const (
	// PresetCycle таблица перебора цветов: проверка соотношения сторон включена.
	PresetCycle = "cycle"
	// PresetScripts границы одноцветных скриптов, фильтр только по площади.
	PresetScripts = "scripts"
)

// hueBandHalfWidth полуширина полосы тона вокруг эталонного цвета (шкала OpenCV).
const hueBandHalfWidth = 15

// maxHueWidth наибольшая ширина поддиапазона тона для цвета с известным именем.
const maxHueWidth = 4 * hueBandHalfWidth

// Эталонные цвета для проверки подписанных диапазонов.
var referenceColors = map[string]string{
	"RED":    "#ff0000",
	"ORANGE": "#ff8000",
	"YELLOW": "#ffff00",
	"GREEN":  "#00ff00",
	"CYAN":   "#00ffff",
	"BLUE":   "#0000ff",
	"PURPLE": "#8000ff",
}

// ProfileSet таблица цветов, классов и рабочий список шагов.
type ProfileSet struct {
	Name     string
	Colors   []entity.ColorRange
	Classes  []entity.ObjectClassProfile
	Sequence []entity.Phase
}

// Preset возвращает встроенный набор профилей.
func Preset(name string, framesPerState int) (ProfileSet, error) {
	switch name {
	case PresetCycle:
		return cyclePreset(framesPerState), nil
	case PresetScripts:
		return scriptsPreset(), nil
	default:
		return ProfileSet{}, fmt.Errorf("unknown profile preset %q", name)
	}
}

// PresetNames возвращает имена встроенных наборов.
func PresetNames() []string {
	return []string{PresetCycle, PresetScripts}
}

func cyclePreset(framesPerState int) ProfileSet {
	set := ProfileSet{
		Name: PresetCycle,
		Colors: []entity.ColorRange{
			{Name: "RED", Pairs: []entity.HSVPair{
				entity.Pair(0, 120, 70, 10, 255, 255),
				entity.Pair(170, 120, 70, 180, 255, 255),
			}},
			{Name: "GREEN", Pairs: []entity.HSVPair{entity.Pair(40, 40, 40, 90, 255, 255)}},
			{Name: "BLUE", Pairs: []entity.HSVPair{entity.Pair(100, 150, 0, 140, 255, 255)}},
			{Name: "YELLOW", Pairs: []entity.HSVPair{entity.Pair(20, 100, 100, 35, 255, 255)}},
		},
		Classes: []entity.ObjectClassProfile{
			{Name: "BALL", MinArea: 100, AspectMin: 0.9, AspectMax: 1.1, CheckAspect: true},
			{Name: "BUCKET", MinArea: 2000, AspectMin: 1.3, AspectMax: 3.5, CheckAspect: true},
		},
	}
	for _, class := range []string{"BALL", "BUCKET"} {
		for _, c := range []string{"RED", "GREEN", "BLUE", "YELLOW"} {
			set.Sequence = append(set.Sequence, entity.Phase{Class: class, Color: c, Frames: framesPerState})
		}
	}
	return set
}

func scriptsPreset() ProfileSet {
	return ProfileSet{
		Name: PresetScripts,
		Colors: []entity.ColorRange{
			{Name: "RED", Pairs: []entity.HSVPair{
				entity.Pair(0, 120, 70, 10, 255, 255),
				entity.Pair(170, 120, 70, 180, 255, 255),
			}},
			{Name: "BLUE", Pairs: []entity.HSVPair{entity.Pair(100, 150, 50, 110, 255, 255)}},
		},
		Classes: []entity.ObjectClassProfile{
			{Name: "BALL", MinArea: 100, AspectMin: 0.9, AspectMax: 1.1},
			{Name: "BUCKET", MinArea: 2000, AspectMin: 1.3, AspectMax: 3.5},
			{Name: "BLOB", MinArea: 500},
		},
		Sequence: []entity.Phase{
			{Class: "BLOB", Color: "RED", Frames: 100},
			{Class: "BLOB", Color: "BLUE", Frames: 100},
		},
	}
}

// Merge накладывает записи other поверх набора; рабочий список заменяется, если задан.
func (s ProfileSet) Merge(other ProfileSet) ProfileSet {
	out := ProfileSet{Name: s.Name, Sequence: s.Sequence}

	colors := make(map[string]entity.ColorRange)
	for _, c := range append(append([]entity.ColorRange{}, s.Colors...), other.Colors...) {
		colors[c.Name] = c
	}
	for _, name := range sortedKeys(colors) {
		out.Colors = append(out.Colors, colors[name])
	}

	classes := make(map[string]entity.ObjectClassProfile)
	for _, c := range append(append([]entity.ObjectClassProfile{}, s.Classes...), other.Classes...) {
		classes[c.Name] = c
	}
	for _, name := range sortedKeys(classes) {
		out.Classes = append(out.Classes, classes[name])
	}

	if len(other.Sequence) > 0 {
		out.Sequence = other.Sequence
	}
	return out
}

// ReferenceHue возвращает эталонный тон цвета в шкале OpenCV (0-180).
func ReferenceHue(name string) (int, bool) {
	hex, ok := referenceColors[strings.ToUpper(name)]
	if !ok {
		return 0, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, false
	}
	h, _, _ := c.Hsv()
	return int(math.Round(h/2)) % entity.MaxHue, true
}

// CheckHueBand требует, чтобы середина тона каждого поддиапазона цвета с известным
// именем лежала в полосе вокруг эталона, а ширина не превышала maxHueWidth.
// Неизвестные имена не проверяются.
func CheckHueBand(rng entity.ColorRange) error {
	ref, ok := ReferenceHue(rng.Name)
	if !ok {
		return nil
	}
	for i, p := range rng.Pairs {
		if width := int(p.Upper.H) - int(p.Lower.H); width > maxHueWidth {
			return &entity.InvalidRangeError{
				Color:  rng.Name,
				Reason: fmt.Sprintf("pair %d hue %d-%d is wider than %d", i, p.Lower.H, p.Upper.H, maxHueWidth),
			}
		}
		if !midpointInBand(p, ref) {
			return &entity.InvalidRangeError{
				Color: rng.Name,
				Reason: fmt.Sprintf("pair %d hue %d-%d is outside the %s band %d±%d",
					i, p.Lower.H, p.Upper.H, strings.ToUpper(rng.Name), ref, hueBandHalfWidth),
			}
		}
	}
	return nil
}

// midpointInBand считает расстояние по кругу тона, поэтому 176 близко к 0.
// Работает в удвоенной шкале, чтобы середина оставалась целой.
func midpointInBand(p entity.HSVPair, ref int) bool {
	const circle = 2 * entity.MaxHue
	dist := (int(p.Lower.H) + int(p.Upper.H) - 2*ref) % circle
	if dist < 0 {
		dist += circle
	}
	if dist > circle-dist {
		dist = circle - dist
	}
	return dist <= 2*hueBandHalfWidth
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
