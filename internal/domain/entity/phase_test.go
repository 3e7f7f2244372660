package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPhase_Validate(t *testing.T) {
	require.NoError(t, Phase{Class: "BALL", Color: "RED", Frames: 75}.Validate())
	require.Error(t, Phase{Class: "BALL", Frames: 75}.Validate())
	require.Error(t, Phase{Class: "BALL", Color: "RED"}.Validate())
}

func TestRunReport_FPSAndTotals(t *testing.T) {
	r := RunReport{
		Frames:  150,
		Elapsed: 5 * time.Second,
		Phases: []PhaseReport{
			{Detections: 3},
			{Detections: 4},
		},
	}
	require.InDelta(t, 30.0, r.FPS(), 1e-9)
	require.Equal(t, 7, r.Detections())
	require.Zero(t, RunReport{Frames: 10}.FPS())
}

func TestDepthMatrix_MinAndString(t *testing.T) {
	var m DepthMatrix
	for i := range m {
		for j := range m[i] {
			m[i][j] = uint8(100 + i*8 + j)
		}
	}
	m[3][4] = 7
	require.Equal(t, uint8(7), m.Min())

	s := m.String()
	require.Contains(t, s, "[100 101 102")
	require.Contains(t, s, "  7")
}
