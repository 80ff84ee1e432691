package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/store"
)

// SessionRepository implements store.SessionStore against the
// tracking_sessions table.
type SessionRepository struct{ q querier }

const sessionColumns = `id, user_id, state, started_at, ended_at, commute_direction, note`

func scanSession(row interface {
	Scan(dest ...interface{}) error
}) (*domain.TrackingSession, error) {
	var s domain.TrackingSession
	var direction sql.NullString
	var note sql.NullString
	var endedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.UserID, &s.State, &s.StartedAt, &endedAt, &direction, &note); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		s.EndedAt = &t
	}
	if direction.Valid {
		d := domain.CommuteDirection(direction.String)
		s.CommuteDirection = &d
	}
	if note.Valid {
		n := note.String
		s.Note = &n
	}
	return &s, nil
}

func (r *SessionRepository) ActiveSession(ctx context.Context, userID string) (*domain.TrackingSession, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
		WHERE user_id = ? AND ended_at IS NULL`, userID)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.TrackingSession, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session by id: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Range(ctx context.Context, userID string, from, to time.Time) ([]*domain.TrackingSession, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
		WHERE user_id = ? AND started_at >= ? AND started_at < ?
		ORDER BY started_at ASC`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query session range: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SessionRepository) Recent(ctx context.Context, userID string, limit int, dayWindow *store.TimeWindow) ([]*domain.TrackingSession, error) {
	if dayWindow != nil {
		rows, err := r.q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
			WHERE user_id = ? AND started_at >= ? AND started_at < ?
			ORDER BY started_at DESC LIMIT ?`, userID, dayWindow.Start, dayWindow.End, limit)
		if err != nil {
			return nil, fmt.Errorf("query recent sessions: %w", err)
		}
		defer rows.Close()
		return scanSessions(rows)
	}
	rows, err := r.q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
		WHERE user_id = ? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SessionRepository) AllActive(ctx context.Context) ([]*domain.TrackingSession, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions WHERE ended_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("query all active sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SessionRepository) Adjacent(ctx context.Context, userID, excludeID string, around time.Time) (prev, next *domain.TrackingSession, err error) {
	prevRow := r.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
		WHERE user_id = ? AND id != ? AND started_at <= ?
		ORDER BY started_at DESC LIMIT 1`, userID, excludeID, around)
	prev, err = scanSession(prevRow)
	if err == sql.ErrNoRows {
		prev, err = nil, nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("query previous session: %w", err)
	}

	nextRow := r.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
		WHERE user_id = ? AND id != ? AND started_at > ?
		ORDER BY started_at ASC LIMIT 1`, userID, excludeID, around)
	next, err = scanSession(nextRow)
	if err == sql.ErrNoRows {
		next, err = nil, nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("query next session: %w", err)
	}
	return prev, next, nil
}

func (r *SessionRepository) RecentByState(ctx context.Context, userID string, state domain.ActivityState, since time.Time) ([]*domain.TrackingSession, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions
		WHERE user_id = ? AND state = ? AND started_at >= ? AND ended_at IS NOT NULL
		ORDER BY started_at DESC`, userID, state, since)
	if err != nil {
		return nil, fmt.Errorf("query sessions by state: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SessionRepository) Insert(ctx context.Context, s *domain.TrackingSession) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO tracking_sessions
		(id, user_id, state, started_at, ended_at, commute_direction, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.State, s.StartedAt, s.EndedAt, s.CommuteDirection, s.Note)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, s *domain.TrackingSession) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tracking_sessions SET
		state = ?, started_at = ?, ended_at = ?, commute_direction = ?, note = ?
		WHERE id = ?`,
		s.State, s.StartedAt, s.EndedAt, s.CommuteDirection, s.Note, s.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Remove(ctx context.Context, s *domain.TrackingSession) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM tracking_sessions WHERE id = ?`, s.ID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]*domain.TrackingSession, error) {
	var out []*domain.TrackingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
