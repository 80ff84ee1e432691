package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// WeekdayPattern is one weekday's commute statistics for a single
// direction (spec §4.3.3). Weekdays with no data still appear, zeroed, so
// consumers can iterate Monday..Sunday safely.
type WeekdayPattern struct {
	Weekday          time.Weekday
	AvgDuration      time.Duration
	HourHistogram    map[int]time.Duration // start hour (local) -> mean duration
	OptimalStartHour int
	OptimalDuration  time.Duration
	SessionCount     int
}

// CommutePatterns groups completed commute sessions matching direction by
// local weekday over [from, to] (spec §4.3.3).
func (e *Engine) CommutePatterns(ctx context.Context, user *domain.User, direction domain.CommuteDirection, from, to time.Time) ([]WeekdayPattern, error) {
	windowStart := from.Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)
	windowEnd := to.AddDate(0, 0, 1).Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)

	sessions, err := e.db.Sessions().Range(ctx, user.ID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load sessions for commute patterns: %w", err)
	}

	byWeekday := make(map[time.Weekday][]*domain.TrackingSession)
	for _, s := range sessions {
		if s.State != domain.StateCommuting || s.CommuteDirection == nil || *s.CommuteDirection != direction || s.EndedAt == nil {
			continue
		}
		local := s.StartedAt.Add(time.Duration(user.UTCOffsetMinutes) * time.Minute)
		byWeekday[local.Weekday()] = append(byWeekday[local.Weekday()], s)
	}

	out := make([]WeekdayPattern, 7)
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(time.Monday) + i) % 7)
		out[i] = buildWeekdayPattern(wd, byWeekday[wd], user.UTCOffsetMinutes)
	}
	return out, nil
}

func buildWeekdayPattern(wd time.Weekday, sessions []*domain.TrackingSession, utcOffsetMinutes int) WeekdayPattern {
	p := WeekdayPattern{Weekday: wd, HourHistogram: map[int]time.Duration{}}
	if len(sessions) == 0 {
		return p
	}

	p.SessionCount = len(sessions)
	var total time.Duration
	byHour := make(map[int][]time.Duration)
	for _, s := range sessions {
		d := s.Duration()
		total += d
		local := s.StartedAt.Add(time.Duration(utcOffsetMinutes) * time.Minute)
		byHour[local.Hour()] = append(byHour[local.Hour()], d)
	}
	p.AvgDuration = total / time.Duration(len(sessions))

	p.OptimalStartHour = -1
	for hour, durations := range byHour {
		var sum time.Duration
		for _, d := range durations {
			sum += d
		}
		mean := sum / time.Duration(len(durations))
		p.HourHistogram[hour] = mean
		if p.OptimalStartHour == -1 || mean < p.OptimalDuration {
			p.OptimalStartHour = hour
			p.OptimalDuration = mean
		}
	}
	if p.OptimalStartHour == -1 {
		p.OptimalStartHour = 0
	}
	return p
}

// roundHours is a small helper shared by compliance evaluation and the CSV
// export to render float64 hours with a stable two-decimal precision.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
