package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/infrastructure/storage"
)

func newProfiles(t *testing.T) *ProfileService {
	t.Helper()
	svc := NewProfileService(storage.NewMemoryProfileRepository())
	require.NoError(t, svc.Seed(
		[]entity.ColorRange{
			{Name: "RED", Pairs: []entity.HSVPair{entity.Pair(0, 120, 70, 10, 255, 255), entity.Pair(170, 120, 70, 180, 255, 255)}},
			{Name: "BLUE", Pairs: []entity.HSVPair{entity.Pair(100, 150, 0, 140, 255, 255)}},
		},
		[]entity.ObjectClassProfile{
			{Name: "BALL", MinArea: 100, AspectMin: 0.9, AspectMax: 1.1, CheckAspect: true},
			{Name: "BUCKET", MinArea: 2000, AspectMin: 1.3, AspectMax: 3.5, CheckAspect: true},
		},
	))
	return svc
}

func box(x, y, side int, area float64) entity.Detection {
	return entity.Detection{Class: "BALL", Color: "RED", Box: entity.BoundingBox{X: x, Y: y, Width: side, Height: side}, Area: area}
}

type detectCall struct {
	rng     entity.ColorRange
	profile entity.ObjectClassProfile
}

type fakeDetector struct {
	mu      sync.Mutex
	byColor map[string][]entity.Detection
	calls   []detectCall
	err     error
}

func (f *fakeDetector) Detect(ctx context.Context, frame entity.Frame, rng entity.ColorRange, profile entity.ObjectClassProfile) ([]entity.Detection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, detectCall{rng: rng, profile: profile})
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.Detection(nil), f.byColor[rng.Name]...), nil
}

func (f *fakeDetector) Annotate(frame entity.Frame, dets []entity.Detection) (entity.Frame, error) {
	out := frame.Clone()
	out.Order = entity.OrderBGR
	return out, nil
}

// fakeSource отдаёт чёрные кадры и сдвигает часы на step при каждом чтении.
type fakeSource struct {
	clock       *clock.Mock
	step        time.Duration
	reads       int
	failAt      int
	err         error
	cancelAfter int
	cancel      context.CancelFunc
}

func (f *fakeSource) Read(ctx context.Context) (entity.Frame, error) {
	if f.err != nil && f.reads == f.failAt {
		return entity.Frame{}, f.err
	}
	f.reads++
	if f.clock != nil {
		f.clock.Add(f.step)
	}
	if f.cancel != nil && f.reads == f.cancelAfter {
		f.cancel()
	}
	return entity.NewFrame(8, 6, entity.OrderBGR), nil
}

func (f *fakeSource) Close() error { return nil }

type fakeSink struct {
	frames []entity.Frame
	err    error
}

func (f *fakeSink) Write(frame entity.Frame) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeSink) Close() error { return nil }

type journalRecord struct {
	runID int64
	phase entity.Phase
	frame int
	dets  int
}

type fakeJournal struct {
	runID   int64
	presets []string
	records []journalRecord
	err     error
}

func (f *fakeJournal) StartRun(ctx context.Context, preset string) (int64, error) {
	f.presets = append(f.presets, preset)
	return f.runID, nil
}

func (f *fakeJournal) Record(ctx context.Context, runID int64, phase entity.Phase, frame int, dets []entity.Detection) error {
	f.records = append(f.records, journalRecord{runID: runID, phase: phase, frame: frame, dets: len(dets)})
	return f.err
}

type fakeNotifier struct {
	reports   []entity.RunReport
	snapshots []*entity.Frame
	err       error
}

func (f *fakeNotifier) Notify(ctx context.Context, report entity.RunReport, snapshot *entity.Frame) error {
	f.reports = append(f.reports, report)
	f.snapshots = append(f.snapshots, snapshot)
	return f.err
}

type depthResult struct {
	m   entity.DepthMatrix
	err error
}

type fakeDepthSensor struct {
	results     []depthResult
	reads       int
	cancelAfter int
	cancel      context.CancelFunc
}

func (f *fakeDepthSensor) ReadMatrix(ctx context.Context) (entity.DepthMatrix, error) {
	r := f.results[f.reads%len(f.results)]
	f.reads++
	if f.cancel != nil && f.reads == f.cancelAfter {
		f.cancel()
	}
	return r.m, r.err
}

func (f *fakeDepthSensor) Close() error { return nil }

// runWithClock двигает фиктивные часы, пока fn не завершится.
func runWithClock(mock *clock.Mock, step time.Duration, fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	for {
		select {
		case <-done:
			return
		default:
			mock.Add(step)
		}
	}
}
