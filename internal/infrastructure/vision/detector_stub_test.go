//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"pi-vision/internal/domain/entity"
)

func TestStubDetector_ReportsDisabledBackend(t *testing.T) {
	d := NewGoCVDetector()
	_, err := d.Detect(context.Background(), solidFrame(16, 16, black), redRange, ball)
	require.ErrorIs(t, err, ErrBackendDisabled)
}

func TestStubDetector_AnnotatesWithoutOpenCV(t *testing.T) {
	d := NewGoCVDetector()
	frame := withRect(solidFrame(80, 80, black), image.Rect(20, 20, 40, 40), pureRed)
	dets := []entity.Detection{{Class: "BALL", Color: "RED", Box: entity.BoundingBox{X: 20, Y: 20, Width: 20, Height: 20}}}

	out, err := d.Annotate(frame, dets)
	require.NoError(t, err)
	require.Equal(t, entity.OrderBGR, out.Order)
	require.Equal(t, frame.Width, out.Width)
	require.Greater(t, out.At(20, 30).G, uint8(200))
}
