package journal

import (
	"context"
	"database/sql"
	"sync"

	"github.com/benbjohnson/clock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// Entry сохранённая детекция вместе с шагом и номером кадра.
type Entry struct {
	Phase     entity.Phase
	Frame     int
	Detection entity.Detection
}

// SQLiteJournal журнал детекций в SQLite с потокобезопасным доступом
type SQLiteJournal struct {
	conn  *sql.DB
	mu    sync.RWMutex
	clock clock.Clock
}

// Open открывает (или создаёт) базу и применяет схему
func Open(dbPath string, clk clock.Clock) (*SQLiteJournal, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal")
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if clk == nil {
		clk = clock.New()
	}
	j := &SQLiteJournal{conn: conn, clock: clk}

	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to migrate journal")
	}

	return j, nil
}

// migrate создаёт таблицы, если их ещё нет
func (j *SQLiteJournal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		preset TEXT NOT NULL,
		started_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS detections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		phase_class TEXT NOT NULL,
		phase_color TEXT NOT NULL,
		frame INTEGER NOT NULL,
		class TEXT NOT NULL,
		color TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		area REAL NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_detections_run_id ON detections(run_id);
	CREATE INDEX IF NOT EXISTS idx_detections_color ON detections(color);
	`

	_, err := j.conn.Exec(schema)
	return err
}

// StartRun регистрирует новый прогон
func (j *SQLiteJournal) StartRun(ctx context.Context, preset string) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	result, err := j.conn.ExecContext(ctx, `INSERT INTO runs (preset, started_at) VALUES (?, ?)`, preset, j.clock.Now().UTC())
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert run")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get run id")
	}
	return id, nil
}

// Record сохраняет детекции одного кадра одной транзакцией
func (j *SQLiteJournal) Record(ctx context.Context, runID int64, phase entity.Phase, frame int, dets []entity.Detection) error {
	if len(dets) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO detections (run_id, phase_class, phase_color, frame, class, color, x, y, width, height, area)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare detection statement")
	}
	defer stmt.Close()

	for _, d := range dets {
		if _, err := stmt.ExecContext(ctx, runID, phase.Class, phase.Color, frame,
			d.Class, d.Color, d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height, d.Area); err != nil {
			return errors.Wrap(err, "failed to insert detection")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit detections")
}

// ByRun возвращает детекции прогона в порядке записи
func (j *SQLiteJournal) ByRun(ctx context.Context, runID int64) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.conn.QueryContext(ctx, `
		SELECT phase_class, phase_color, frame, class, color, x, y, width, height, area
		FROM detections WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query detections")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		d := &e.Detection
		if err := rows.Scan(&e.Phase.Class, &e.Phase.Color, &e.Frame,
			&d.Class, &d.Color, &d.Box.X, &d.Box.Y, &d.Box.Width, &d.Box.Height, &d.Area); err != nil {
			return nil, errors.Wrap(err, "failed to scan detection")
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "failed to read detections")
}

// CountByColor считает детекции прогона по цветам
func (j *SQLiteJournal) CountByColor(ctx context.Context, runID int64) (map[string]int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.conn.QueryContext(ctx, `
		SELECT color, COUNT(*) FROM detections WHERE run_id = ? GROUP BY color
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count detections")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var color string
		var n int
		if err := rows.Scan(&color, &n); err != nil {
			return nil, errors.Wrap(err, "failed to scan count")
		}
		counts[color] = n
	}
	return counts, errors.Wrap(rows.Err(), "failed to read counts")
}

// Close закрывает соединение
func (j *SQLiteJournal) Close() error {
	return j.conn.Close()
}

// Noop журнал, который ничего не сохраняет; используется, если путь не задан
type Noop struct{}

func (Noop) StartRun(ctx context.Context, preset string) (int64, error) { return 0, nil }

func (Noop) Record(ctx context.Context, runID int64, phase entity.Phase, frame int, dets []entity.Detection) error {
	return nil
}

var (
	_ port.DetectionJournal = (*SQLiteJournal)(nil)
	_ port.DetectionJournal = Noop{}
)
