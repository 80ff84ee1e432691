package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// UserRepository implements store.UserStore against the users table.
type UserRepository struct{ q querier }

const userColumns = `id, external_id, is_admin, utc_offset_minutes,
	max_work_hours, max_commute_hours, max_lunch_hours,
	lunch_reminder_hour, lunch_reminder_minute,
	target_work_hours, target_office_hours, forgot_shutdown_threshold_percent`

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.IsAdmin, &u.UTCOffsetMinutes,
		&u.MaxWorkHours, &u.MaxCommuteHours, &u.MaxLunchHours,
		&u.LunchReminderHour, &u.LunchReminderMinute,
		&u.TargetWorkHours, &u.TargetOfficeHours, &u.ForgotShutdownThresholdPercent); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID int64) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = ?`, externalID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by external id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO users
		(id, external_id, is_admin, utc_offset_minutes,
		 max_work_hours, max_commute_hours, max_lunch_hours,
		 lunch_reminder_hour, lunch_reminder_minute,
		 target_work_hours, target_office_hours, forgot_shutdown_threshold_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.ExternalID, u.IsAdmin, u.UTCOffsetMinutes,
		u.MaxWorkHours, u.MaxCommuteHours, u.MaxLunchHours,
		u.LunchReminderHour, u.LunchReminderMinute,
		u.TargetWorkHours, u.TargetOfficeHours, u.ForgotShutdownThresholdPercent)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx, `UPDATE users SET
		is_admin = ?, utc_offset_minutes = ?,
		max_work_hours = ?, max_commute_hours = ?, max_lunch_hours = ?,
		lunch_reminder_hour = ?, lunch_reminder_minute = ?,
		target_work_hours = ?, target_office_hours = ?, forgot_shutdown_threshold_percent = ?
		WHERE id = ?`,
		u.IsAdmin, u.UTCOffsetMinutes,
		u.MaxWorkHours, u.MaxCommuteHours, u.MaxLunchHours,
		u.LunchReminderHour, u.LunchReminderMinute,
		u.TargetWorkHours, u.TargetOfficeHours, u.ForgotShutdownThresholdPercent, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
