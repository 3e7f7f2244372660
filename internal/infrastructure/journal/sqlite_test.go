package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"pi-vision/internal/domain/entity"
)

func openTest(t *testing.T) *SQLiteJournal {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), mock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func det(color string, x, y int, area float64) entity.Detection {
	return entity.Detection{
		Class: "BALL",
		Color: color,
		Box:   entity.BoundingBox{X: x, Y: y, Width: 10, Height: 10},
		Area:  area,
	}
}

func TestJournalRecordsByRun(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	runID, err := j.StartRun(ctx, "cycle")
	require.NoError(t, err)
	other, err := j.StartRun(ctx, "scripts")
	require.NoError(t, err)
	require.NotEqual(t, runID, other)

	red := entity.Phase{Class: "BALL", Color: "RED", Frames: 3}
	blue := entity.Phase{Class: "BALL", Color: "BLUE", Frames: 3}
	require.NoError(t, j.Record(ctx, runID, red, 0, []entity.Detection{det("RED", 1, 2, 90), det("RED", 30, 2, 80)}))
	require.NoError(t, j.Record(ctx, runID, red, 1, nil))
	require.NoError(t, j.Record(ctx, runID, blue, 2, []entity.Detection{det("BLUE", 5, 6, 100)}))
	require.NoError(t, j.Record(ctx, other, blue, 0, []entity.Detection{det("BLUE", 7, 7, 100)}))

	entries, err := j.ByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, Entry{Phase: entity.Phase{Class: "BALL", Color: "RED"}, Frame: 0, Detection: det("RED", 1, 2, 90)}, entries[0])
	require.Equal(t, 2, entries[2].Frame)

	counts, err := j.CountByColor(ctx, runID)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"RED": 2, "BLUE": 1}, counts)
}

func TestJournalEmptyRun(t *testing.T) {
	j := openTest(t)
	entries, err := j.ByRun(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, entries)

	counts, err := j.CountByColor(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, counts)
}

func TestJournalReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path, nil)
	require.NoError(t, err)
	runID, err := j.StartRun(ctx, "cycle")
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, runID, entity.Phase{Class: "BALL", Color: "RED", Frames: 1}, 0, []entity.Detection{det("RED", 0, 0, 1)}))
	require.NoError(t, j.Close())

	j, err = Open(path, nil)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.ByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestNoopJournal(t *testing.T) {
	var j Noop
	id, err := j.StartRun(context.Background(), "cycle")
	require.NoError(t, err)
	require.Zero(t, id)
	require.NoError(t, j.Record(context.Background(), id, entity.Phase{}, 0, []entity.Detection{det("RED", 0, 0, 1)}))
}
