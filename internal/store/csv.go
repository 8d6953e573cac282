package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"hallway/internal/model"
)

// CSVStore persists records as one headered CSV file per table.
type CSVStore struct {
	dir string
}

const (
	consentFile     = "consent.csv"
	demographicFile = "demographics.csv"
	taskFile        = "tasks.csv"
	exitFile        = "exit.csv"
)

var csvHeaders = map[string][]string{
	consentFile:     {"timestamp", "consent_given"},
	demographicFile: {"timestamp", "name", "age", "occupation", "familiarity"},
	taskFile:        {"timestamp", "task_name", "success", "duration_seconds", "notes"},
	exitFile:        {"timestamp", "satisfaction", "difficulty", "open_feedback"},
}

// OpenCSV prepares a CSV-backed store rooted at dir.
func OpenCSV(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CSVStore{dir: dir}, nil
}

// Close is a no-op; files are opened per call.
func (s *CSVStore) Close() error {
	return nil
}

// AppendConsent stores one consent submission.
func (s *CSVStore) AppendConsent(ctx context.Context, rec model.ConsentRecord) error {
	return s.appendRow(ctx, consentFile, []string{
		rec.Timestamp.Format(model.TimestampLayout),
		strconv.FormatBool(rec.ConsentGiven),
	})
}

// AppendDemographic stores one demographic submission.
func (s *CSVStore) AppendDemographic(ctx context.Context, rec model.DemographicRecord) error {
	return s.appendRow(ctx, demographicFile, []string{
		rec.Timestamp.Format(model.TimestampLayout),
		rec.Name,
		strconv.Itoa(rec.Age),
		rec.Occupation,
		string(rec.Familiarity),
	})
}

// AppendTask stores one task attempt. A nil duration is stored as an
// empty field.
func (s *CSVStore) AppendTask(ctx context.Context, rec model.TaskRecord) error {
	duration := ""
	if rec.DurationSeconds != nil {
		duration = strconv.FormatFloat(*rec.DurationSeconds, 'f', -1, 64)
	}
	return s.appendRow(ctx, taskFile, []string{
		rec.Timestamp.Format(model.TimestampLayout),
		rec.TaskName,
		string(rec.Outcome),
		duration,
		rec.Notes,
	})
}

// AppendExit stores one exit-questionnaire submission.
func (s *CSVStore) AppendExit(ctx context.Context, rec model.ExitRecord) error {
	return s.appendRow(ctx, exitFile, []string{
		rec.Timestamp.Format(model.TimestampLayout),
		strconv.Itoa(rec.Satisfaction),
		strconv.Itoa(rec.Difficulty),
		rec.OpenFeedback,
	})
}

// Consents returns consent records in insertion order.
func (s *CSVStore) Consents(ctx context.Context, limit int) ([]model.ConsentRecord, error) {
	rows, err := s.readRows(ctx, consentFile, limit)
	if err != nil {
		return nil, err
	}
	var result []model.ConsentRecord
	for _, row := range rows {
		var rec model.ConsentRecord
		if rec.Timestamp, err = parseTimestamp(row[0]); err != nil {
			return nil, err
		}
		if rec.ConsentGiven, err = strconv.ParseBool(row[1]); err != nil {
			return nil, fmt.Errorf("malformed consent flag %q: %w", row[1], err)
		}
		result = append(result, rec)
	}
	return result, nil
}

// Demographics returns demographic records in insertion order.
func (s *CSVStore) Demographics(ctx context.Context, limit int) ([]model.DemographicRecord, error) {
	rows, err := s.readRows(ctx, demographicFile, limit)
	if err != nil {
		return nil, err
	}
	var result []model.DemographicRecord
	for _, row := range rows {
		var rec model.DemographicRecord
		if rec.Timestamp, err = parseTimestamp(row[0]); err != nil {
			return nil, err
		}
		rec.Name = row[1]
		if rec.Age, err = strconv.Atoi(row[2]); err != nil {
			return nil, fmt.Errorf("malformed age %q: %w", row[2], err)
		}
		rec.Occupation = row[3]
		rec.Familiarity = model.Familiarity(row[4])
		result = append(result, rec)
	}
	return result, nil
}

// Tasks returns task records in insertion order.
func (s *CSVStore) Tasks(ctx context.Context, limit int) ([]model.TaskRecord, error) {
	rows, err := s.readRows(ctx, taskFile, limit)
	if err != nil {
		return nil, err
	}
	var result []model.TaskRecord
	for _, row := range rows {
		var rec model.TaskRecord
		if rec.Timestamp, err = parseTimestamp(row[0]); err != nil {
			return nil, err
		}
		rec.TaskName = row[1]
		rec.Outcome = model.Outcome(row[2])
		if row[3] != "" {
			d, err := strconv.ParseFloat(row[3], 64)
			if err != nil {
				return nil, fmt.Errorf("malformed duration %q: %w", row[3], err)
			}
			rec.DurationSeconds = &d
		}
		rec.Notes = row[4]
		result = append(result, rec)
	}
	return result, nil
}

// Exits returns exit-questionnaire records in insertion order.
func (s *CSVStore) Exits(ctx context.Context, limit int) ([]model.ExitRecord, error) {
	rows, err := s.readRows(ctx, exitFile, limit)
	if err != nil {
		return nil, err
	}
	var result []model.ExitRecord
	for _, row := range rows {
		var rec model.ExitRecord
		if rec.Timestamp, err = parseTimestamp(row[0]); err != nil {
			return nil, err
		}
		if rec.Satisfaction, err = strconv.Atoi(row[1]); err != nil {
			return nil, fmt.Errorf("malformed satisfaction %q: %w", row[1], err)
		}
		if rec.Difficulty, err = strconv.Atoi(row[2]); err != nil {
			return nil, fmt.Errorf("malformed difficulty %q: %w", row[2], err)
		}
		rec.OpenFeedback = row[3]
		result = append(result, rec)
	}
	return result, nil
}

func (s *CSVStore) appendRow(ctx context.Context, name string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	writeHeader := false
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}
		writeHeader = true
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close; Flush errors are checked below.
			_ = cerr
		}
	}()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeaders[name]); err != nil {
			return fmt.Errorf("failed to write %s header: %w", name, err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write %s row: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}

// readRows returns data rows (header stripped) with the column count
// enforced by the fixed header set.
func (s *CSVStore) readRows(ctx context.Context, name string, limit int) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeaders[name])
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rows = rows[1:] // header
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
