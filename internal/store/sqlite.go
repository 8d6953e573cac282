package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hallway/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore persists records in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS consent (
			timestamp TEXT NOT NULL,
			consent_given BOOLEAN NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS demographics (
			timestamp TEXT NOT NULL,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			occupation TEXT NOT NULL,
			familiarity TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			timestamp TEXT NOT NULL,
			task_name TEXT NOT NULL,
			success TEXT NOT NULL,
			duration_seconds REAL,
			notes TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exit (
			timestamp TEXT NOT NULL,
			satisfaction INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			open_feedback TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendConsent stores one consent submission.
func (s *SQLiteStore) AppendConsent(ctx context.Context, rec model.ConsentRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO consent (timestamp, consent_given) VALUES (?, ?)`,
		rec.Timestamp.Format(model.TimestampLayout),
		rec.ConsentGiven,
	)
	return err
}

// AppendDemographic stores one demographic submission.
func (s *SQLiteStore) AppendDemographic(ctx context.Context, rec model.DemographicRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO demographics (timestamp, name, age, occupation, familiarity) VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(model.TimestampLayout),
		rec.Name,
		rec.Age,
		rec.Occupation,
		string(rec.Familiarity),
	)
	return err
}

// AppendTask stores one task attempt. A nil duration is stored as NULL.
func (s *SQLiteStore) AppendTask(ctx context.Context, rec model.TaskRecord) error {
	var duration sql.NullFloat64
	if rec.DurationSeconds != nil {
		duration = sql.NullFloat64{Float64: *rec.DurationSeconds, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (timestamp, task_name, success, duration_seconds, notes) VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(model.TimestampLayout),
		rec.TaskName,
		string(rec.Outcome),
		duration,
		rec.Notes,
	)
	return err
}

// AppendExit stores one exit-questionnaire submission.
func (s *SQLiteStore) AppendExit(ctx context.Context, rec model.ExitRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exit (timestamp, satisfaction, difficulty, open_feedback) VALUES (?, ?, ?, ?)`,
		rec.Timestamp.Format(model.TimestampLayout),
		rec.Satisfaction,
		rec.Difficulty,
		rec.OpenFeedback,
	)
	return err
}

// Consents returns consent records in insertion order.
func (s *SQLiteStore) Consents(ctx context.Context, limit int) ([]model.ConsentRecord, error) {
	rows, err := s.db.QueryContext(ctx, withLimit(`SELECT timestamp, consent_given FROM consent ORDER BY rowid ASC`, limit))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.ConsentRecord
	for rows.Next() {
		var rec model.ConsentRecord
		var ts string
		if err := rows.Scan(&ts, &rec.ConsentGiven); err != nil {
			return nil, err
		}
		if rec.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Demographics returns demographic records in insertion order.
func (s *SQLiteStore) Demographics(ctx context.Context, limit int) ([]model.DemographicRecord, error) {
	rows, err := s.db.QueryContext(ctx, withLimit(`SELECT timestamp, name, age, occupation, familiarity FROM demographics ORDER BY rowid ASC`, limit))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.DemographicRecord
	for rows.Next() {
		var rec model.DemographicRecord
		var ts, familiarity string
		if err := rows.Scan(&ts, &rec.Name, &rec.Age, &rec.Occupation, &familiarity); err != nil {
			return nil, err
		}
		if rec.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		rec.Familiarity = model.Familiarity(familiarity)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Tasks returns task records in insertion order.
func (s *SQLiteStore) Tasks(ctx context.Context, limit int) ([]model.TaskRecord, error) {
	rows, err := s.db.QueryContext(ctx, withLimit(`SELECT timestamp, task_name, success, duration_seconds, notes FROM tasks ORDER BY rowid ASC`, limit))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.TaskRecord
	for rows.Next() {
		var rec model.TaskRecord
		var ts, outcome string
		var duration sql.NullFloat64
		if err := rows.Scan(&ts, &rec.TaskName, &outcome, &duration, &rec.Notes); err != nil {
			return nil, err
		}
		if rec.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		rec.Outcome = model.Outcome(outcome)
		if duration.Valid {
			d := duration.Float64
			rec.DurationSeconds = &d
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Exits returns exit-questionnaire records in insertion order.
func (s *SQLiteStore) Exits(ctx context.Context, limit int) ([]model.ExitRecord, error) {
	rows, err := s.db.QueryContext(ctx, withLimit(`SELECT timestamp, satisfaction, difficulty, open_feedback FROM exit ORDER BY rowid ASC`, limit))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.ExitRecord
	for rows.Next() {
		var rec model.ExitRecord
		var ts string
		if err := rows.Scan(&ts, &rec.Satisfaction, &rec.Difficulty, &rec.OpenFeedback); err != nil {
			return nil, err
		}
		if rec.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func withLimit(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func parseTimestamp(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(model.TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return ts, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
