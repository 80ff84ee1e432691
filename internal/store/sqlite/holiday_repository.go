package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// HolidayRepository implements store.HolidayStore against the holidays
// table.
type HolidayRepository struct{ q querier }

func (r *HolidayRepository) Range(ctx context.Context, userID string, from, to time.Time) ([]*domain.Holiday, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, user_id, start_date, end_date, type, description
		FROM holidays
		WHERE user_id = ? AND start_date < ? AND end_date > ?
		ORDER BY start_date ASC`, userID, to, from)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var out []*domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		var desc sql.NullString
		if err := rows.Scan(&h.ID, &h.UserID, &h.StartDate, &h.EndDate, &h.Type, &desc); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		if desc.Valid {
			d := desc.String
			h.Description = &d
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (r *HolidayRepository) Insert(ctx context.Context, h *domain.Holiday) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO holidays
		(id, user_id, start_date, end_date, type, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.StartDate, h.EndDate, h.Type, h.Description)
	if err != nil {
		return fmt.Errorf("insert holiday: %w", err)
	}
	return nil
}
