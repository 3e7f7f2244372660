//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pi-vision/internal/domain/entity"
)

const side = 40

func TestDetect_UniformFramesYieldNothing(t *testing.T) {
	d := NewGoCVDetector()
	ctx := context.Background()

	for _, bg := range []struct {
		name  string
		frame entity.Frame
	}{
		{"black", solidFrame(160, 120, black)},
		{"white", solidFrame(160, 120, white)},
	} {
		for _, rng := range []entity.ColorRange{redRange, greenRng, blueRange, yellowRng} {
			dets, err := d.Detect(ctx, bg.frame, rng, entity.ObjectClassProfile{Name: "ANY"})
			require.NoError(t, err)
			require.NotNil(t, dets)
			require.Empty(t, dets, "%s frame, %s range", bg.name, rng.Name)
		}
	}
}

func TestDetect_SingleSquareBall(t *testing.T) {
	d := NewGoCVDetector()
	frame := withRect(solidFrame(200, 150, black), image.Rect(50, 40, 50+side, 40+side), pureRed)

	dets, err := d.Detect(context.Background(), frame, redRange, ball)
	require.NoError(t, err)
	require.Len(t, dets, 1)

	det := dets[0]
	require.Equal(t, "BALL", det.Class)
	require.Equal(t, "RED", det.Color)
	require.InDelta(t, 50, det.Box.X, 2)
	require.InDelta(t, 40, det.Box.Y, 2)
	require.InDelta(t, side, det.Box.Width, 2)
	require.InDelta(t, side, det.Box.Height, 2)
	require.InEpsilon(t, float64(side*side), det.Area, 0.1)
}

func TestDetect_SquareRejectedByBucketAspect(t *testing.T) {
	d := NewGoCVDetector()
	frame := withRect(solidFrame(200, 150, black), image.Rect(50, 40, 50+side, 40+side), pureRed)

	narrow := ball
	narrow.AspectMin, narrow.AspectMax = 1.3, 3.5
	dets, err := d.Detect(context.Background(), frame, redRange, narrow)
	require.NoError(t, err)
	require.Empty(t, dets)

	narrow.CheckAspect = false
	dets, err = d.Detect(context.Background(), frame, redRange, narrow)
	require.NoError(t, err)
	require.Len(t, dets, 1, "with aspect filtering disabled only the area filter applies")
}

func TestDetect_Bucket(t *testing.T) {
	d := NewGoCVDetector()
	frame := withRect(solidFrame(300, 200, black), image.Rect(60, 50, 180, 110), yellow)

	dets, err := d.Detect(context.Background(), frame, yellowRng, bucket)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	require.InDelta(t, 2.0, dets[0].Box.AspectRatio(), 0.1)
}

func TestDetect_RedWrapsAroundHue(t *testing.T) {
	d := NewGoCVDetector()
	frame := solidFrame(240, 120, black)
	frame = withRect(frame, image.Rect(20, 30, 20+side, 30+side), pureRed)
	frame = withRect(frame, image.Rect(140, 30, 140+side, 30+side), deepRed)

	dets, err := d.Detect(context.Background(), frame, redRange, ball)
	require.NoError(t, err)
	require.Len(t, dets, 2)
	require.Less(t, dets[0].Box.X, dets[1].Box.X, "detections are sorted left to right within a row")

	onlyLow := entity.ColorRange{Name: "RED", Pairs: redRange.Pairs[:1]}
	dets, err = d.Detect(context.Background(), frame, onlyLow, ball)
	require.NoError(t, err)
	require.Len(t, dets, 1)
}

func TestDetect_AreaBoundary(t *testing.T) {
	d := NewGoCVDetector()
	ctx := context.Background()
	frame := withRect(solidFrame(120, 120, black), image.Rect(30, 30, 60, 60), pureBlue)

	probe := entity.ObjectClassProfile{Name: "PROBE"}
	dets, err := d.Detect(ctx, frame, blueRange, probe)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	area := dets[0].Area
	require.Greater(t, area, 0.0)

	probe.MinArea = area
	dets, err = d.Detect(ctx, frame, blueRange, probe)
	require.NoError(t, err)
	require.Len(t, dets, 1, "area equal to min area is kept")

	probe.MinArea = area + 1
	dets, err = d.Detect(ctx, frame, blueRange, probe)
	require.NoError(t, err)
	require.Empty(t, dets)
}

func TestDetect_MorphologyRemovesSpeckles(t *testing.T) {
	d := NewGoCVDetector()
	frame := solidFrame(60, 60, black)
	frame.Set(30, 30, pureRed)
	frame.Set(10, 45, pureRed)

	dets, err := d.Detect(context.Background(), frame, redRange, entity.ObjectClassProfile{Name: "ANY"})
	require.NoError(t, err)
	require.Empty(t, dets)
}

func TestDetect_IdempotentAndReadOnly(t *testing.T) {
	d := NewGoCVDetector()
	ctx := context.Background()
	frame := solidFrame(240, 120, black)
	frame = withRect(frame, image.Rect(20, 30, 60, 70), pureRed)
	frame = withRect(frame, image.Rect(140, 30, 180, 70), deepRed)
	before := frame.Clone()

	first, err := d.Detect(ctx, frame, redRange, ball)
	require.NoError(t, err)
	second, err := d.Detect(ctx, frame, redRange, ball)
	require.NoError(t, err)

	require.ElementsMatch(t, first, second)
	require.Equal(t, before.Pix, frame.Pix)
}

func TestDetect_ChannelOrdersAgree(t *testing.T) {
	d := NewGoCVDetector()
	ctx := context.Background()
	bgr := withRect(solidFrame(120, 100, black), image.Rect(30, 20, 70, 60), pureRed)

	want, err := d.Detect(ctx, bgr, redRange, ball)
	require.NoError(t, err)
	require.Len(t, want, 1)

	for _, order := range []entity.ChannelOrder{entity.OrderRGB, entity.OrderRGBA, entity.OrderBGRA} {
		other := entity.FrameFromImage(bgr.ToImage(), order)
		got, err := d.Detect(ctx, other, redRange, ball)
		require.NoError(t, err, order.String())
		require.Equal(t, want, got, order.String())
	}
}

func TestDetect_ConcurrentCalls(t *testing.T) {
	d := NewGoCVDetector()
	frame := withRect(solidFrame(120, 100, black), image.Rect(30, 20, 70, 60), pureRed)
	want, err := d.Detect(context.Background(), frame, redRange, ball)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]entity.Detection, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.Detect(context.Background(), frame, redRange, ball)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, want, results[i])
	}
}

func TestAnnotate_ReturnsSeparateBGRCopy(t *testing.T) {
	d := NewGoCVDetector()
	frame := withRect(solidFrame(100, 100, black), image.Rect(10, 30, 50, 70), pureBlue)
	before := frame.Clone()
	dets := []entity.Detection{{Class: "BALL", Color: "BLUE", Box: entity.BoundingBox{X: 10, Y: 30, Width: 40, Height: 40}}}

	out, err := d.Annotate(frame, dets)
	require.NoError(t, err)
	require.Equal(t, entity.OrderBGR, out.Order)
	require.Equal(t, 100, out.Width)
	require.Equal(t, 100, out.Height)
	require.Equal(t, color.RGBA{G: 255, A: 255}, out.At(10, 50))
	require.Equal(t, before.Pix, frame.Pix)
}
