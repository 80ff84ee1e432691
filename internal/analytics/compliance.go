package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// EvaluateCompliance checks every enabled rule for the user against each
// day in [from, to], skipping days covered by a holiday (spec §4.3.5).
func (e *Engine) EvaluateCompliance(ctx context.Context, user *domain.User, from, to time.Time) (*domain.ComplianceReport, error) {
	rules, err := e.db.Compliance().ListEnabled(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load compliance rules: %w", err)
	}
	if len(rules) == 0 {
		return &domain.ComplianceReport{}, nil
	}

	holidays, err := e.db.Holidays().Range(ctx, user.ID, dateOnly(from), dateOnly(to).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}

	windowStart := from.Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)
	windowEnd := to.AddDate(0, 0, 1).Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)
	sessions, err := e.db.Sessions().Range(ctx, user.ID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load sessions for compliance: %w", err)
	}

	byDate := make(map[time.Time][]*domain.TrackingSession)
	for _, s := range sessions {
		if s.EndedAt == nil {
			continue
		}
		d := s.LocalDate(user.UTCOffsetMinutes)
		byDate[d] = append(byDate[d], s)
	}

	report := &domain.ComplianceReport{}
	for d := dateOnly(from); !d.After(dateOnly(to)); d = d.AddDate(0, 0, 1) {
		if coveredByHoliday(holidays, d) {
			continue
		}
		daySessions := byDate[d]
		evaluated := false
		for _, rule := range rules {
			if len(daySessions) == 0 && rule.ClockInAnchor != domain.AnchorFixedTime && rule.ClockOutAnchor != domain.AnchorFixedTime {
				continue
			}
			evaluated = true
			v, ok := evaluateRule(rule, d, daySessions)
			if ok {
				report.Violations = append(report.Violations, v)
				report.ViolationCount++
			}
		}
		if evaluated {
			report.TotalDays++
		}
	}
	return report, nil
}

func coveredByHoliday(holidays []*domain.Holiday, d time.Time) bool {
	for _, h := range holidays {
		if h.Covers(d) {
			return true
		}
	}
	return false
}

func evaluateRule(rule *domain.ComplianceRule, date time.Time, sessions []*domain.TrackingSession) (domain.ComplianceViolation, bool) {
	clockIn, inOK := anchorTime(rule.ClockInAnchor, date, sessions, rule.FixedClockInHour, rule.FixedClockInMinute)
	clockOut, outOK := anchorTime(rule.ClockOutAnchor, date, sessions, rule.FixedClockOutHour, rule.FixedClockOutMinute)
	if !inOK || !outOK {
		return domain.ComplianceViolation{}, false
	}

	switch rule.RuleType {
	case domain.RuleMinimumOfficeHours, domain.RuleMinimumWorkHours, domain.RuleCoreHoursPresence:
		actual := clockOut.Sub(clockIn).Hours()
		if actual < rule.ThresholdHours {
			return domain.ComplianceViolation{
				Date:           date.Format("2006-01-02"),
				RuleType:       rule.RuleType,
				ActualHours:    roundHours(actual),
				ThresholdHours: rule.ThresholdHours,
				Description:    fmt.Sprintf("%s: %.2fh < required %.2fh", rule.RuleType, actual, rule.ThresholdHours),
			}, true
		}
	}
	return domain.ComplianceViolation{}, false
}

// anchorTime resolves a rule's clock-in or clock-out anchor for a day.
func anchorTime(anchor domain.AnchorKind, date time.Time, sessions []*domain.TrackingSession, fixedHour, fixedMinute *int) (time.Time, bool) {
	switch anchor {
	case domain.AnchorFixedTime:
		if fixedHour == nil || fixedMinute == nil {
			return time.Time{}, false
		}
		return time.Date(date.Year(), date.Month(), date.Day(), *fixedHour, *fixedMinute, 0, 0, time.UTC), true
	case domain.AnchorFirstSessionStart:
		if len(sessions) == 0 {
			return time.Time{}, false
		}
		earliest := sessions[0].StartedAt
		for _, s := range sessions[1:] {
			if s.StartedAt.Before(earliest) {
				earliest = s.StartedAt
			}
		}
		return earliest, true
	case domain.AnchorLastSessionEnd:
		if len(sessions) == 0 {
			return time.Time{}, false
		}
		latest := *sessions[0].EndedAt
		for _, s := range sessions[1:] {
			if s.EndedAt.After(latest) {
				latest = *s.EndedAt
			}
		}
		return latest, true
	default:
		return time.Time{}, false
	}
}
