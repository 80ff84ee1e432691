// Package analytics implements the read-only reporting surface over the
// session store (spec §4.3): daily breakdowns, aggregate statistics,
// commute patterns, chart buckets, and compliance evaluation.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/store"
)

// DailyRow is one date's breakdown (spec §4.3.1).
type DailyRow struct {
	Date                time.Time
	WorkHours           float64
	CommuteToWorkHours  float64
	CommuteToHomeHours  float64
	LunchHours          float64
	OfficeSpanHours     *float64
	IdleHours           *float64
	HasActivity         bool
}

// Engine runs analytics queries against a store.Beginner's read accessors.
type Engine struct {
	db store.Beginner
}

func NewEngine(db store.Beginner) *Engine {
	return &Engine{db: db}
}

// DailyBreakdown computes one DailyRow per date in [from, to] inclusive,
// local to the user's UTC offset (spec §4.3.1).
func (e *Engine) DailyBreakdown(ctx context.Context, user *domain.User, from, to time.Time) ([]DailyRow, error) {
	windowStart := from.Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)
	windowEnd := to.AddDate(0, 0, 1).Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)

	sessions, err := e.db.Sessions().Range(ctx, user.ID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load sessions for daily breakdown: %w", err)
	}

	byDate := make(map[time.Time][]*domain.TrackingSession)
	for _, s := range sessions {
		if s.EndedAt == nil {
			continue
		}
		d := s.LocalDate(user.UTCOffsetMinutes)
		byDate[d] = append(byDate[d], s)
	}

	var out []DailyRow
	for d := dateOnly(from); !d.After(dateOnly(to)); d = d.AddDate(0, 0, 1) {
		out = append(out, buildDailyRow(d, byDate[d]))
	}
	return out, nil
}

func buildDailyRow(date time.Time, sessions []*domain.TrackingSession) DailyRow {
	row := DailyRow{Date: date}
	// office span anchors: the *first* to-work session's end, and the
	// *last* to-home session's start (spec §4.3.1).
	var firstToWorkStart, firstToWorkEnd, lastToHomeStart *time.Time

	for _, s := range sessions {
		row.HasActivity = true
		hours := s.Duration().Hours()
		switch s.State {
		case domain.StateWorking:
			row.WorkHours += hours
		case domain.StateLunch:
			row.LunchHours += hours
		case domain.StateCommuting:
			if s.CommuteDirection == nil || s.EndedAt == nil {
				break
			}
			switch *s.CommuteDirection {
			case domain.DirectionToWork:
				row.CommuteToWorkHours += hours
				if firstToWorkStart == nil || s.StartedAt.Before(*firstToWorkStart) {
					start, end := s.StartedAt, *s.EndedAt
					firstToWorkStart, firstToWorkEnd = &start, &end
				}
			case domain.DirectionToHome:
				row.CommuteToHomeHours += hours
				if lastToHomeStart == nil || s.StartedAt.After(*lastToHomeStart) {
					start := s.StartedAt
					lastToHomeStart = &start
				}
			}
		}
	}

	if firstToWorkEnd != nil && lastToHomeStart != nil {
		span := lastToHomeStart.Sub(*firstToWorkEnd).Hours()
		row.OfficeSpanHours = &span
		idle := span - row.WorkHours - row.LunchHours
		if idle < 0 {
			idle = 0
		}
		row.IdleHours = &idle
	}

	return row
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
