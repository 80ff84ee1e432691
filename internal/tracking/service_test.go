package tracking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/store/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tracking.db")
	db, err := sqlite.Open(sqlite.DefaultConnectionConfig(dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, 12*time.Hour), db
}

func newTestUser(t *testing.T, db *sqlite.DB, offsetMinutes int) *domain.User {
	t.Helper()
	u := domain.NewUser(time.Now().UnixNano(), offsetMinutes)
	require.NoError(t, db.Users().Insert(context.Background(), u))
	return u
}

func TestToggleOpensAndClosesSessions(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	t.Run("toggling working from idle opens a session", func(t *testing.T) {
		res, err := svc.Toggle(ctx, user, domain.StateWorking, nil, now)
		require.NoError(t, err)
		assert.Equal(t, OutcomeStartNew, res.Kind)
		require.NotNil(t, res.Opened)
		assert.Equal(t, domain.StateWorking, res.Opened.State)
		assert.Nil(t, res.Closed)
	})

	t.Run("toggling the same state ends the active session", func(t *testing.T) {
		res, err := svc.Toggle(ctx, user, domain.StateWorking, nil, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, OutcomeEndActive, res.Kind)
		require.NotNil(t, res.Closed)
		assert.NotNil(t, res.Closed.EndedAt)
	})

	t.Run("toggling a different state while idle opens fresh", func(t *testing.T) {
		res, err := svc.Toggle(ctx, user, domain.StateLunch, nil, now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, OutcomeStartNew, res.Kind)
		assert.False(t, res.Kind == OutcomeStartNew && res.Closed != nil)
	})

	t.Run("switching states while active closes then opens", func(t *testing.T) {
		res, err := svc.Toggle(ctx, user, domain.StateWorking, nil, now.Add(3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, OutcomeStartNew, res.Kind)
		require.NotNil(t, res.Closed)
		require.NotNil(t, res.Opened)
		assert.Equal(t, domain.StateLunch, res.Closed.State)
		assert.Equal(t, domain.StateWorking, res.Opened.State)
	})
}

func TestToggleCommuteDirectionInference(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	day := time.Date(2026, 7, 2, 7, 0, 0, 0, time.UTC)

	res1, err := svc.Toggle(ctx, user, domain.StateCommuting, nil, day)
	require.NoError(t, err)
	require.NotNil(t, res1.Opened.CommuteDirection)
	assert.Equal(t, domain.DirectionToWork, *res1.Opened.CommuteDirection)

	_, err = svc.Toggle(ctx, user, domain.StateCommuting, nil, day.Add(30*time.Minute))
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, user, domain.StateWorking, nil, day.Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, user, domain.StateWorking, nil, day.Add(9*time.Hour))
	require.NoError(t, err)

	res2, err := svc.Toggle(ctx, user, domain.StateCommuting, nil, day.Add(9*time.Hour+10*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, res2.Opened.CommuteDirection)
	assert.Equal(t, domain.DirectionToHome, *res2.Opened.CommuteDirection)
}

func TestToggleRejectsOverlap(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	base := time.Date(2026, 7, 3, 9, 0, 0, 0, time.UTC)
	_, err := svc.Toggle(ctx, user, domain.StateWorking, nil, base)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, user, domain.StateWorking, nil, base.Add(time.Hour))
	require.NoError(t, err)

	q := &TimeQualifier{AbsoluteLocalHHMM: strp("09:30")}
	_, err = svc.Toggle(ctx, user, domain.StateLunch, q, base.Add(2*time.Hour))
	assert.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestToggleRejectsUnknownActivity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	_, err := svc.Toggle(ctx, user, domain.ActivityState("napping"), nil, time.Now())
	assert.Error(t, err)
	assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
}

func TestAdjustStartAndEndTime(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	base := time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC)
	res, err := svc.Toggle(ctx, user, domain.StateWorking, nil, base)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, user, domain.StateWorking, nil, base.Add(time.Hour))
	require.NoError(t, err)

	session, err := db.Sessions().GetByID(ctx, res.Opened.ID)
	require.NoError(t, err)

	t.Run("adjust start time shifts StartedAt", func(t *testing.T) {
		require.NoError(t, svc.AdjustStartTime(ctx, session, -15))
		got, err := db.Sessions().GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, got.StartedAt.Equal(base.Add(-15*time.Minute)))
	})

	t.Run("adjust end time shifts EndedAt", func(t *testing.T) {
		require.NoError(t, svc.AdjustEndTime(ctx, session, 10))
		got, err := db.Sessions().GetByID(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EndedAt)
		assert.True(t, got.EndedAt.Equal(base.Add(time.Hour + 10*time.Minute)))
	})

	t.Run("adjust end time on an active session is rejected", func(t *testing.T) {
		_, err := svc.Toggle(ctx, user, domain.StateWorking, nil, base.Add(2*time.Hour))
		require.NoError(t, err)
		active, err := db.Sessions().ActiveSession(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, active)
		err = svc.AdjustEndTime(ctx, active, 5)
		assert.Error(t, err)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})
}

func TestDeleteRequiresClosedSession(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	res, err := svc.Toggle(ctx, user, domain.StateWorking, nil, time.Now())
	require.NoError(t, err)

	t.Run("deleting an active session is rejected", func(t *testing.T) {
		err := svc.Delete(ctx, res.Opened)
		assert.Error(t, err)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("deleting a closed session succeeds", func(t *testing.T) {
		closeRes, err := svc.Toggle(ctx, user, domain.StateWorking, nil, time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, closeRes.Closed))

		got, err := db.Sessions().GetByID(ctx, closeRes.Closed.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUpdateSettingsAppliesAndValidatesPatch(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := newTestUser(t, db, 0)

	t.Run("valid patch persists", func(t *testing.T) {
		hours := 9.0
		patch := &domain.SettingsPatch{MaxWorkHours: &hours}
		require.NoError(t, svc.UpdateSettings(ctx, user, patch))

		got, err := db.Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.MaxWorkHours)
		assert.Equal(t, hours, *got.MaxWorkHours)
	})

	t.Run("invalid patch is rejected before touching the store", func(t *testing.T) {
		bad := -1.0
		patch := &domain.SettingsPatch{MaxWorkHours: &bad}
		err := svc.UpdateSettings(ctx, user, patch)
		assert.Error(t, err)
		assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
	})
}
