package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rng     ColorRange
		wantErr bool
	}{
		{"red two pairs", ColorRange{Name: "RED", Pairs: []HSVPair{Pair(0, 120, 70, 10, 255, 255), Pair(170, 120, 70, 180, 255, 255)}}, false},
		{"empty", ColorRange{Name: "RED"}, true},
		{"no name", ColorRange{Pairs: []HSVPair{Pair(0, 0, 0, 10, 255, 255)}}, true},
		{"hue overflow", ColorRange{Name: "RED", Pairs: []HSVPair{Pair(170, 0, 0, 200, 255, 255)}}, true},
		{"inverted", ColorRange{Name: "GREEN", Pairs: []HSVPair{Pair(90, 40, 40, 40, 255, 255)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rng.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var rerr *InvalidRangeError
			require.True(t, errors.As(err, &rerr), "want InvalidRangeError, got %v", err)
		})
	}
}
