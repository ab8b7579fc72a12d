package trial

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// Journal persists studies and completed trials to SQLite, so long tuning
// runs survive inspection after the fact. A nil *Journal is a valid no-op.
type Journal struct {
	db *sql.DB
}

// TrialRecord is one persisted trial.
type TrialRecord struct {
	StudyID   string
	Number    int
	Params    map[string]interface{}
	Score     float64
	State     string
	CreatedAt time.Time
}

// Trial states stored in the journal.
const (
	TrialStateComplete = "COMPLETE"
	TrialStateFailed   = "FAILED"
)

// OpenJournal opens (or creates) a journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to open journal database")
	}
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	// WAL keeps readers from blocking the tuning loop.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to set synchronous pragma")
	}

	return j, nil
}

func (j *Journal) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS studies (
		id TEXT PRIMARY KEY,
		direction TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trials (
		study_id TEXT NOT NULL REFERENCES studies(id),
		number INTEGER NOT NULL,
		params TEXT NOT NULL,
		score REAL NOT NULL,
		state TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (study_id, number)
	);

	CREATE INDEX IF NOT EXISTS idx_trials_study ON trials(study_id);
	`
	if _, err := j.db.Exec(query); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to initialize journal schema")
	}
	return nil
}

// CreateStudy records a new study.
func (j *Journal) CreateStudy(ctx context.Context, id, direction string) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO studies (id, direction, created_at) VALUES (?, ?, ?)",
		id, direction, time.Now().Unix())
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to record study")
	}
	return nil
}

// RecordTrial appends a completed trial.
func (j *Journal) RecordTrial(ctx context.Context, studyID string, number int, params map[string]interface{}, score float64, state string) error {
	if j == nil {
		return nil
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to encode trial params")
	}
	_, err = j.db.ExecContext(ctx,
		"INSERT INTO trials (study_id, number, params, score, state, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		studyID, number, string(encoded), score, state, time.Now().Unix())
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to record trial")
	}
	return nil
}

// Trials returns the persisted trials of a study in trial order.
func (j *Journal) Trials(ctx context.Context, studyID string) ([]TrialRecord, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT study_id, number, params, score, state, created_at FROM trials WHERE study_id = ? ORDER BY number",
		studyID)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to query trials")
	}
	defer rows.Close()

	var records []TrialRecord
	for rows.Next() {
		var r TrialRecord
		var encoded string
		var createdAt int64
		if err := rows.Scan(&r.StudyID, &r.Number, &encoded, &r.Score, &r.State, &createdAt); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan trial row")
		}
		if err := json.Unmarshal([]byte(encoded), &r.Params); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to decode trial params")
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to iterate trial rows")
	}
	return records, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
