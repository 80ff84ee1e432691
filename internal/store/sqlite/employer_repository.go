package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// EmployerRepository implements store.EmployerStore against the
// employer_attendance_records and employer_import_logs tables.
type EmployerRepository struct{ q querier }

func (r *EmployerRepository) Range(ctx context.Context, userID string, from, to time.Time) ([]*domain.EmployerAttendanceRecord, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, user_id, date, clock_in, clock_out, work_hours, has_conflict
		FROM employer_attendance_records
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query employer records: %w", err)
	}
	defer rows.Close()

	var out []*domain.EmployerAttendanceRecord
	for rows.Next() {
		var rec domain.EmployerAttendanceRecord
		var clockIn, clockOut sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &clockIn, &clockOut, &rec.WorkHours, &rec.HasConflict); err != nil {
			return nil, fmt.Errorf("scan employer record: %w", err)
		}
		if clockIn.Valid {
			t := clockIn.Time
			rec.ClockIn = &t
		}
		if clockOut.Valid {
			t := clockOut.Time
			rec.ClockOut = &t
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// ReplaceRange deletes a user's records in [from, to) and reinserts the
// given records, plus an import log entry. The caller is expected to run
// this inside a store.UnitOfWork so the replace is atomic (spec §3).
func (r *EmployerRepository) ReplaceRange(ctx context.Context, userID string, from, to time.Time, records []*domain.EmployerAttendanceRecord) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM employer_attendance_records
		WHERE user_id = ? AND date >= ? AND date < ?`, userID, from, to); err != nil {
		return fmt.Errorf("clear employer range: %w", err)
	}
	for _, rec := range records {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO employer_attendance_records
			(id, user_id, date, clock_in, clock_out, work_hours, has_conflict)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.UserID, rec.Date, rec.ClockIn, rec.ClockOut, rec.WorkHours, rec.HasConflict); err != nil {
			return fmt.Errorf("insert employer record: %w", err)
		}
	}
	if _, err := r.q.ExecContext(ctx, `INSERT INTO employer_import_logs
		(id, user_id, range_start, range_end, records_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, from, to, len(records), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert import log: %w", err)
	}
	return nil
}
