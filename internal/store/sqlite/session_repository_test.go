package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/store"
)

func mustInsertUser(t *testing.T, db *DB) *domain.User {
	t.Helper()
	u := domain.NewUser(int64(time.Now().UnixNano()), 0)
	require.NoError(t, db.Users().Insert(context.Background(), u))
	return u
}

func TestSessionRepositoryLifecycle(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()
	user := mustInsertUser(t, db)
	repo := db.Sessions()

	base := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	t.Run("insert then active session round-trips", func(t *testing.T) {
		s := domain.NewTrackingSession("s1", user.ID, domain.StateWorking, base, nil)
		require.NoError(t, repo.Insert(ctx, s))

		active, err := repo.ActiveSession(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, "s1", active.ID)
		assert.True(t, active.IsActive())
	})

	t.Run("close and update clears active session", func(t *testing.T) {
		s, err := repo.GetByID(ctx, "s1")
		require.NoError(t, err)
		s.Close(base.Add(time.Hour))
		require.NoError(t, repo.Update(ctx, s))

		active, err := repo.ActiveSession(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, active)

		got, err := repo.GetByID(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, got.EndedAt)
		assert.WithinDuration(t, base.Add(time.Hour), *got.EndedAt, time.Second)
	})

	t.Run("commute direction persists through round trip", func(t *testing.T) {
		dir := domain.DirectionToWork
		s := domain.NewTrackingSession("s2", user.ID, domain.StateCommuting, base.Add(2*time.Hour), &dir)
		s.Close(base.Add(2*time.Hour + 30*time.Minute))
		require.NoError(t, repo.Insert(ctx, s))

		got, err := repo.GetByID(ctx, "s2")
		require.NoError(t, err)
		require.NotNil(t, got.CommuteDirection)
		assert.Equal(t, domain.DirectionToWork, *got.CommuteDirection)
	})

	t.Run("range returns sessions ascending within window", func(t *testing.T) {
		from := base
		to := base.Add(24 * time.Hour)
		sessions, err := repo.Range(ctx, user.ID, from, to)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.True(t, sessions[0].StartedAt.Before(sessions[1].StartedAt))
	})

	t.Run("adjacent finds prev and next excluding self", func(t *testing.T) {
		around := base.Add(time.Hour + 30*time.Minute)
		prev, next, err := repo.Adjacent(ctx, user.ID, "", around)
		require.NoError(t, err)
		require.NotNil(t, prev)
		require.NotNil(t, next)
		assert.Equal(t, "s1", prev.ID)
		assert.Equal(t, "s2", next.ID)
	})

	t.Run("adjacent excludes the given id", func(t *testing.T) {
		prev, _, err := repo.Adjacent(ctx, user.ID, "s1", base.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Nil(t, prev)
	})

	t.Run("remove deletes a closed session", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "s2")
		require.NoError(t, err)
		require.NoError(t, repo.Remove(ctx, got))

		gone, err := repo.GetByID(ctx, "s2")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestSessionRepositoryRecentAndAllActive(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()
	userA := mustInsertUser(t, db)
	userB := mustInsertUser(t, db)
	repo := db.Sessions()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, domain.NewTrackingSession("a1", userA.ID, domain.StateWorking, base, nil)))
	require.NoError(t, repo.Insert(ctx, domain.NewTrackingSession("b1", userB.ID, domain.StateWorking, base, nil)))

	t.Run("all active reports across users", func(t *testing.T) {
		all, err := repo.AllActive(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("recent without day window returns most recent first", func(t *testing.T) {
		s2 := domain.NewTrackingSession("a2", userA.ID, domain.StateLunch, base.Add(time.Hour), nil)
		s2.Close(base.Add(2 * time.Hour))
		require.NoError(t, repo.Insert(ctx, s2))

		recent, err := repo.Recent(ctx, userA.ID, 10, nil)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "a2", recent[0].ID)
	})

	t.Run("recent with day window filters to range", func(t *testing.T) {
		window := &store.TimeWindow{Start: base.Add(-time.Hour), End: base.Add(30 * time.Minute)}
		recent, err := repo.Recent(ctx, userA.ID, 10, window)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "a1", recent[0].ID)
	})

	t.Run("recent by state only returns closed sessions of that state", func(t *testing.T) {
		byState, err := repo.RecentByState(ctx, userA.ID, domain.StateLunch, base.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, byState, 1)
		assert.Equal(t, "a2", byState[0].ID)
	})
}
