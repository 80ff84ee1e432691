package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalinplesu/timesheet/internal/domain"
)

func TestCommutePatternsGroupsByWeekdayAndPicksOptimalHour(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	user := insertUser(t, db, 0)

	// Monday 2026-06-01, two to-work commutes at different hours.
	mon := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fastStart := mon.Add(7 * time.Hour)
	fastEnd := fastStart.Add(20 * time.Minute)
	slowStart := mon.AddDate(0, 0, 7).Add(8 * time.Hour)
	slowEnd := slowStart.Add(45 * time.Minute)

	insertSession(t, db, user.ID, domain.StateCommuting, fastStart, fastEnd, dirp(domain.DirectionToWork))
	insertSession(t, db, user.ID, domain.StateCommuting, slowStart, slowEnd, dirp(domain.DirectionToWork))
	// a to-home commute on the same weekday must not leak into the to-work report.
	insertSession(t, db, user.ID, domain.StateCommuting, mon.Add(18*time.Hour), mon.Add(19*time.Hour), dirp(domain.DirectionToHome))

	patterns, err := eng.CommutePatterns(ctx, user, domain.DirectionToWork, mon, mon.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, patterns, 7)

	var monday WeekdayPattern
	for _, p := range patterns {
		if p.Weekday == time.Monday {
			monday = p
		}
	}
	assert.Equal(t, 2, monday.SessionCount)
	assert.Equal(t, 7, monday.OptimalStartHour)
	assert.Equal(t, 20*time.Minute, monday.OptimalDuration)
	assert.InDelta(t, (20*time.Minute+45*time.Minute).Minutes()/2, monday.AvgDuration.Minutes(), 0.01)
}

func TestCommutePatternsWeekdayWithNoDataIsZeroed(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	user := insertUser(t, db, 0)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	patterns, err := eng.CommutePatterns(ctx, user, domain.DirectionToWork, from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, patterns, 7)
	for _, p := range patterns {
		assert.Equal(t, 0, p.SessionCount)
		assert.Equal(t, 0, p.OptimalStartHour)
	}
}
