package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/corvvs/mlp/internal/nn"
)

// ErrNoRun is returned by RecordEpoch and FinishRun before BeginRun.
var ErrNoRun = errors.New("runlog: no run in progress")

const schema = `
CREATE TABLE IF NOT EXISTS runs(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	seed INTEGER NOT NULL,
	layers TEXT NOT NULL,
	optimizer TEXT NOT NULL,
	batch_size INTEGER NOT NULL,
	max_epochs INTEGER NOT NULL,
	best_epoch INTEGER,
	stop_reason TEXT,
	model_path TEXT
);
CREATE TABLE IF NOT EXISTS epochs(
	run_id INTEGER NOT NULL REFERENCES runs(id),
	epoch INTEGER NOT NULL,
	train_loss REAL NOT NULL,
	train_accuracy REAL NOT NULL,
	train_precision REAL NOT NULL,
	train_recall REAL NOT NULL,
	train_specificity REAL NOT NULL,
	train_f1 REAL NOT NULL,
	val_loss REAL NOT NULL,
	val_accuracy REAL NOT NULL,
	val_precision REAL NOT NULL,
	val_recall REAL NOT NULL,
	val_specificity REAL NOT NULL,
	val_f1 REAL NOT NULL,
	PRIMARY KEY(run_id, epoch)
);`

// Run is one row of the runs table.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Seed       int64
	Layers     string
	Optimizer  string
	BatchSize  int
	MaxEpochs  int
	BestEpoch  int
	StopReason string
	ModelPath  string
}

// EpochRecord is one row of the epochs table.
type EpochRecord struct {
	Epoch int
	Train nn.EpochMetrics
	Val   nn.EpochMetrics
}

// SQLiteStore keeps the history of training runs in a SQLite database.
// RecordEpoch appends to the run opened by the last BeginRun, so a store
// can be passed to the trainer as an epoch sink.
type SQLiteStore struct {
	db    *sql.DB
	runID int64
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run history %s: %w", path, err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create run history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginRun inserts a run describing m and makes it the target of
// RecordEpoch.
func (s *SQLiteStore) BeginRun(ctx context.Context, m *nn.Model) (int64, error) {
	layers := ""
	for i, l := range m.Layers {
		if i > 0 {
			layers += " "
		}
		layers += l.String()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(started_at, seed, layers, optimizer, batch_size, max_epochs) VALUES(?,?,?,?,?,?)`,
		time.Now().UTC().Format(time.RFC3339Nano), m.Seed, layers, m.Optimization.String(), m.BatchSize, m.MaxEpochs)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	s.runID = id
	return id, nil
}

// RecordEpoch stores the metrics of one epoch of the current run. It does
// not take a context: an epoch that finished while the run was being
// canceled is still recorded, so the history matches the saved model.
func (s *SQLiteStore) RecordEpoch(epoch int, train, val nn.EpochMetrics) error {
	if s.runID == 0 {
		return ErrNoRun
	}
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO epochs VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.runID, epoch,
		train.Loss, train.Accuracy, train.Precision, train.Recall, train.Specificity, train.F1Score,
		val.Loss, val.Accuracy, val.Precision, val.Recall, val.Specificity, val.F1Score)
	if err != nil {
		return fmt.Errorf("insert epoch %d of run %d: %w", epoch, s.runID, err)
	}
	return nil
}

// FinishRun closes the current run with its outcome.
func (s *SQLiteStore) FinishRun(ctx context.Context, bestEpoch int, stopReason, modelPath string) error {
	if s.runID == 0 {
		return ErrNoRun
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, best_epoch = ?, stop_reason = ?, model_path = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), bestEpoch, stopReason, modelPath, s.runID)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", s.runID, err)
	}
	s.runID = 0
	return nil
}

// Runs returns every run, oldest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, seed, layers, optimizer, batch_size, max_epochs,
		       best_epoch, stop_reason, model_path
		FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                    Run
			started              string
			finished, stop, path sql.NullString
			best                 sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Seed, &r.Layers, &r.Optimizer,
			&r.BatchSize, &r.MaxEpochs, &best, &stop, &path); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %d: %w", r.ID, err)
		}
		if finished.Valid {
			if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("run %d: %w", r.ID, err)
			}
		}
		r.BestEpoch = int(best.Int64)
		r.StopReason = stop.String
		r.ModelPath = path.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Epochs returns the epochs of run id in order.
func (s *SQLiteStore) Epochs(ctx context.Context, id int64) ([]EpochRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT epoch,
		       train_loss, train_accuracy, train_precision, train_recall, train_specificity, train_f1,
		       val_loss, val_accuracy, val_precision, val_recall, val_specificity, val_f1
		FROM epochs WHERE run_id = ? ORDER BY epoch`, id)
	if err != nil {
		return nil, fmt.Errorf("query epochs of run %d: %w", id, err)
	}
	defer rows.Close()

	var out []EpochRecord
	for rows.Next() {
		var e EpochRecord
		if err := rows.Scan(&e.Epoch,
			&e.Train.Loss, &e.Train.Accuracy, &e.Train.Precision, &e.Train.Recall, &e.Train.Specificity, &e.Train.F1Score,
			&e.Val.Loss, &e.Val.Accuracy, &e.Val.Precision, &e.Val.Recall, &e.Val.Specificity, &e.Val.F1Score); err != nil {
			return nil, fmt.Errorf("scan epoch: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
