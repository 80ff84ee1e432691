package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalinplesu/timesheet/internal/domain"
)

func TestEmployerRepositoryReplaceRange(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()
	user := mustInsertUser(t, db)
	repo := db.Employer()

	day1 := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	from := day1
	to := day1.AddDate(0, 0, 7)

	clockIn := day1.Add(9 * time.Hour)
	clockOut := day1.Add(17 * time.Hour)
	records := []*domain.EmployerAttendanceRecord{
		{ID: "e1", UserID: user.ID, Date: day1, ClockIn: &clockIn, ClockOut: &clockOut, WorkHours: 8},
	}
	require.NoError(t, repo.ReplaceRange(ctx, user.ID, from, to, records))

	got, err := repo.Range(ctx, user.ID, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].ClockIn)
	assert.Equal(t, 8.0, got[0].WorkHours)

	t.Run("replacing again discards the previous range", func(t *testing.T) {
		second := []*domain.EmployerAttendanceRecord{
			{ID: "e2", UserID: user.ID, Date: day2, WorkHours: 6, HasConflict: true},
		}
		require.NoError(t, repo.ReplaceRange(ctx, user.ID, from, to, second))

		got, err := repo.Range(ctx, user.ID, from, to)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "e2", got[0].ID)
		assert.True(t, got[0].HasConflict)
		assert.Nil(t, got[0].ClockIn)
	})
}
