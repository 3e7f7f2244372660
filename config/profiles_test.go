package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"pi-vision/internal/domain/entity"
)

const sampleProfiles = `
colors:
  RED:
    - lower: [0, 120, 70]
      upper: [10, 255, 255]
    - lower: [170, 120, 70]
      upper: [180, 255, 255]
classes:
  CONE:
    min_area: 300
    aspect_min: 0.4
    aspect_max: 0.9
    check_aspect: true
sequence:
  - class: CONE
    color: RED
    frames: 20
`

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfiles), 0o644))

	set, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, set.Colors, 1)
	require.Len(t, set.Colors[0].Pairs, 2)
	require.Equal(t, entity.Pair(170, 120, 70, 180, 255, 255), set.Colors[0].Pairs[1])
	require.Equal(t, []entity.ObjectClassProfile{{Name: "CONE", MinArea: 300, AspectMin: 0.4, AspectMax: 0.9, CheckAspect: true}}, set.Classes)
	require.Equal(t, []entity.Phase{{Class: "CONE", Color: "RED", Frames: 20}}, set.Sequence)
}

func TestLoadProfilesMissingFile(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestParseProfilesCollectsErrors(t *testing.T) {
	data := []byte(`
colors:
  BLUE:
    - lower: [20, 100, 100]
      upper: [35, 255, 255]
  GREEN:
    - lower: [40, 40]
      upper: [90, 255, 255]
classes:
  BALL:
    min_area: -1
sequence:
  - class: BALL
    color: BLUE
    frames: 0
`)
	_, err := ParseProfiles(data)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 4)

	var rangeErr *entity.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	var profileErr *entity.InvalidProfileError
	require.ErrorAs(t, err, &profileErr)
}

func TestParseProfilesRejectsNaN(t *testing.T) {
	data := []byte(`
classes:
  BALL:
    min_area: .nan
    aspect_min: 0.8
    aspect_max: 1.2
    check_aspect: true
  CONE:
    min_area: 100
    aspect_min: .nan
    aspect_max: 1.0
`)
	_, err := ParseProfiles(data)
	require.Len(t, multierr.Errors(err), 2)

	var profileErr *entity.InvalidProfileError
	require.ErrorAs(t, err, &profileErr)
}

func TestParseProfilesRejectsSyntax(t *testing.T) {
	_, err := ParseProfiles([]byte("colors: [unterminated"))
	require.Error(t, err)
}
