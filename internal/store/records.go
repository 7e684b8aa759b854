package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/existflow/timelog/internal/model"
)

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// InsertRecord inserts a record as-is. Used by the direct submission path
// where start and end both come from the caller.
func (s *Store) InsertRecord(ctx context.Context, rec model.TimeRecord) error {
	var end interface{}
	if rec.End != nil {
		end = formatTime(*rec.End)
	}

	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO records (id, project, task, start_at, end_at) VALUES (?, ?, ?, ?, ?)`),
		rec.ID, rec.Project, rec.Task, formatTime(rec.Start), end,
	)
	if err != nil {
		return storageErr("insert record", err)
	}
	return nil
}

// StartRecord closes the active record, if any, and inserts rec as the new
// active one in a single transaction, so the single-active-timer invariant
// cannot be observed broken mid-switch. The old record is closed at rec.Start.
// Returns the record that was closed, or nil when the store was idle.
func (s *Store) StartRecord(ctx context.Context, rec model.TimeRecord) (*model.TimeRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin tx", err)
	}
	defer tx.Rollback()

	closed, err := scanRecord(tx.QueryRowContext(ctx,
		s.rebind(`SELECT id, project, task, start_at, end_at FROM records WHERE end_at IS NULL`)))
	if err != nil && err != sql.ErrNoRows {
		return nil, storageErr("find active record", err)
	}

	if closed != nil {
		end := rec.Start
		if _, err := tx.ExecContext(ctx,
			s.rebind(`UPDATE records SET end_at = ? WHERE id = ?`),
			formatTime(end), closed.ID,
		); err != nil {
			return nil, storageErr("close active record", err)
		}
		endUTC := end.UTC()
		closed.End = &endUTC
	}

	if _, err := tx.ExecContext(ctx,
		s.rebind(`INSERT INTO records (id, project, task, start_at, end_at) VALUES (?, ?, ?, ?, NULL)`),
		rec.ID, rec.Project, rec.Task, formatTime(rec.Start),
	); err != nil {
		return nil, storageErr("insert record", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit tx", err)
	}
	return closed, nil
}

// CloseRecord sets end on the record with the given id
func (s *Store) CloseRecord(ctx context.Context, id string, end time.Time) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE records SET end_at = ? WHERE id = ? AND end_at IS NULL`),
		formatTime(end), id,
	)
	if err != nil {
		return storageErr("close record", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveRecord returns the unique record with no end timestamp, or ErrNotFound
func (s *Store) ActiveRecord(ctx context.Context) (*model.TimeRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, project, task, start_at, end_at FROM records WHERE end_at IS NULL`)))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("query active record", err)
	}
	return rec, nil
}

// ListRecords returns the full history ordered by start time
func (s *Store) ListRecords(ctx context.Context) ([]model.TimeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, project, task, start_at, end_at FROM records ORDER BY start_at ASC`))
	if err != nil {
		return nil, storageErr("list records", err)
	}
	defer rows.Close()

	records := []model.TimeRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan record", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate records", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*model.TimeRecord, error) {
	var rec model.TimeRecord
	var start string
	var end sql.NullString

	if err := row.Scan(&rec.ID, &rec.Project, &rec.Task, &start, &end); err != nil {
		return nil, err
	}

	startAt, err := parseTime(start)
	if err != nil {
		return nil, err
	}
	rec.Start = startAt

	if end.Valid {
		endAt, err := parseTime(end.String)
		if err != nil {
			return nil, err
		}
		rec.End = &endAt
	}

	return &rec, nil
}
