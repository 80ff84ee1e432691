package sqlite

import (
	"context"
	"fmt"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// ComplianceRepository implements store.ComplianceStore against the
// user_compliance_rules table.
type ComplianceRepository struct{ q querier }

func (r *ComplianceRepository) ListEnabled(ctx context.Context, userID string) ([]*domain.ComplianceRule, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, user_id, rule_type, is_enabled, threshold_hours,
		clock_in_anchor, clock_out_anchor,
		fixed_clock_in_hour, fixed_clock_in_minute, fixed_clock_out_hour, fixed_clock_out_minute
		FROM user_compliance_rules WHERE user_id = ? AND is_enabled = TRUE`, userID)
	if err != nil {
		return nil, fmt.Errorf("query compliance rules: %w", err)
	}
	defer rows.Close()

	var out []*domain.ComplianceRule
	for rows.Next() {
		var rule domain.ComplianceRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.RuleType, &rule.IsEnabled, &rule.ThresholdHours,
			&rule.ClockInAnchor, &rule.ClockOutAnchor,
			&rule.FixedClockInHour, &rule.FixedClockInMinute, &rule.FixedClockOutHour, &rule.FixedClockOutMinute); err != nil {
			return nil, fmt.Errorf("scan compliance rule: %w", err)
		}
		out = append(out, &rule)
	}
	return out, rows.Err()
}

func (r *ComplianceRepository) Upsert(ctx context.Context, rule *domain.ComplianceRule) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO user_compliance_rules
		(id, user_id, rule_type, is_enabled, threshold_hours,
		 clock_in_anchor, clock_out_anchor,
		 fixed_clock_in_hour, fixed_clock_in_minute, fixed_clock_out_hour, fixed_clock_out_minute)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, rule_type) DO UPDATE SET
			is_enabled = excluded.is_enabled,
			threshold_hours = excluded.threshold_hours,
			clock_in_anchor = excluded.clock_in_anchor,
			clock_out_anchor = excluded.clock_out_anchor,
			fixed_clock_in_hour = excluded.fixed_clock_in_hour,
			fixed_clock_in_minute = excluded.fixed_clock_in_minute,
			fixed_clock_out_hour = excluded.fixed_clock_out_hour,
			fixed_clock_out_minute = excluded.fixed_clock_out_minute`,
		rule.ID, rule.UserID, rule.RuleType, rule.IsEnabled, rule.ThresholdHours,
		rule.ClockInAnchor, rule.ClockOutAnchor,
		rule.FixedClockInHour, rule.FixedClockInMinute, rule.FixedClockOutHour, rule.FixedClockOutMinute)
	if err != nil {
		return fmt.Errorf("upsert compliance rule: %w", err)
	}
	return nil
}
