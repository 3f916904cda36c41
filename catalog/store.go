// Package catalog keeps a local history of detection runs in SQLite.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/logging"
	"github.com/RyanBlaney/courtside/plays"
)

// ErrNotFound is returned when a run id is not in the catalog.
var ErrNotFound = errors.New("run not found")

// timeLayout sorts lexically in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run kinds.
const (
	KindAudio = "audio"
	KindPlays = "plays"
)

// Run summarises one detection run.
type Run struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	ThresholdDB *float64  `json:"threshold_db,omitempty"`
	Candidates  int       `json:"candidates"`
	Whistles    int       `json:"whistles"`
	Highlights  int       `json:"highlights"`
}

// AudioHighlight is a stored audio peak.
type AudioHighlight struct {
	Rank int `json:"rank"`
	highlights.SelectedHighlight
	Clip string `json:"clip,omitempty"`
}

// RunDetail is a run together with its stored highlights.
type RunDetail struct {
	Run   Run               `json:"run"`
	Audio []AudioHighlight  `json:"audio,omitempty"`
	Plays []plays.Highlight `json:"plays,omitempty"`
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the catalog database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer connection keeps PRAGMAs applied to every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Debug("Catalog opened", logging.Fields{"component": "catalog", "path": path})
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) newRun(kind, source string) Run {
	return Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		CreatedAt: s.now().UTC(),
	}
}

func insertRun(ctx context.Context, tx *sql.Tx, run Run) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, source, created_at, threshold_db, candidates, whistles, highlight_count)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.Source, run.CreatedAt.Format(timeLayout),
		run.ThresholdDB, run.Candidates, run.Whistles, run.Highlights,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// SaveAudioRun records an audio selection. clips are matched to highlights
// by position and may be shorter or nil.
func (s *Store) SaveAudioRun(ctx context.Context, source string, sel highlights.Selection, clips []string) (Run, error) {
	run := s.newRun(KindAudio, source)
	threshold := sel.Threshold
	run.ThresholdDB = &threshold
	run.Candidates = len(sel.Candidates)
	run.Whistles = len(sel.Whistles)
	run.Highlights = len(sel.Highlights)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertRun(ctx, tx, run); err != nil {
			return err
		}
		for i, h := range sel.Highlights {
			var clip sql.NullString
			if i < len(clips) && clips[i] != "" {
				clip = sql.NullString{String: clips[i], Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO audio_highlights (run_id, rank, time, intensity_db, clip) VALUES (?, ?, ?, ?, ?)`,
				run.ID, i+1, h.Time, h.IntensityDB, clip,
			); err != nil {
				return fmt.Errorf("insert audio highlight %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// SavePlayRun records play-by-play highlights for a game.
func (s *Store) SavePlayRun(ctx context.Context, gameID string, hl []plays.Highlight) (Run, error) {
	run := s.newRun(KindPlays, gameID)
	run.Highlights = len(hl)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertRun(ctx, tx, run); err != nil {
			return err
		}
		for i, h := range hl {
			reasons, err := json.Marshal(h.Reasons)
			if err != nil {
				return fmt.Errorf("marshal reasons: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO play_highlights (run_id, rank, quarter, clock, score, description, reasons)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i+1, h.Quarter, h.Clock, h.Score, h.Description, string(reasons),
			); err != nil {
				return fmt.Errorf("insert play highlight %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const runColumns = `id, kind, source, created_at, threshold_db, candidates, whistles, highlight_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		createdAt string
		threshold sql.NullFloat64
	)
	if err := row.Scan(&run.ID, &run.Kind, &run.Source, &createdAt, &threshold,
		&run.Candidates, &run.Whistles, &run.Highlights); err != nil {
		return Run{}, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	if threshold.Valid {
		v := threshold.Float64
		run.ThresholdDB = &v
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunHighlights loads a run and its highlights.
func (s *Store) RunHighlights(ctx context.Context, id string) (RunDetail, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunDetail{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return RunDetail{}, fmt.Errorf("load run %s: %w", id, err)
	}

	detail := RunDetail{Run: run}
	switch run.Kind {
	case KindAudio:
		detail.Audio, err = s.audioHighlights(ctx, id)
	case KindPlays:
		detail.Plays, err = s.playHighlights(ctx, id)
	}
	if err != nil {
		return RunDetail{}, err
	}
	return detail, nil
}

func (s *Store) audioHighlights(ctx context.Context, id string) ([]AudioHighlight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, time, intensity_db, clip FROM audio_highlights WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("load audio highlights: %w", err)
	}
	defer rows.Close()

	out := []AudioHighlight{}
	for rows.Next() {
		var (
			h    AudioHighlight
			clip sql.NullString
		)
		if err := rows.Scan(&h.Rank, &h.Time, &h.IntensityDB, &clip); err != nil {
			return nil, fmt.Errorf("scan audio highlight: %w", err)
		}
		h.Clip = clip.String
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) playHighlights(ctx context.Context, id string) ([]plays.Highlight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quarter, clock, score, description, reasons FROM play_highlights WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("load play highlights: %w", err)
	}
	defer rows.Close()

	out := []plays.Highlight{}
	for rows.Next() {
		var (
			h       plays.Highlight
			reasons string
		)
		if err := rows.Scan(&h.Quarter, &h.Clock, &h.Score, &h.Description, &reasons); err != nil {
			return nil, fmt.Errorf("scan play highlight: %w", err)
		}
		if err := json.Unmarshal([]byte(reasons), &h.Reasons); err != nil {
			return nil, fmt.Errorf("decode reasons: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
