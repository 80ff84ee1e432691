package workers

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

func newWorkerTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "workers.db")
	db, err := sqlite.Open(sqlite.DefaultConnectionConfig(dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type recordingNotifier struct {
	calls []string
	fail  bool
}

func (r *recordingNotifier) Notify(ctx context.Context, userID, message string) error {
	r.calls = append(r.calls, userID+":"+message)
	if r.fail {
		return assertErr
	}
	return nil
}

var assertErr = context.DeadlineExceeded

func TestAutoShutdownClosesSessionPastAbsoluteCap(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	cap := 8.0
	user := domain.NewUser(1, 0)
	user.MaxWorkHours = &cap
	require.NoError(t, db.Users().Insert(ctx, user))

	start := time.Now().UTC().Add(-9 * time.Hour)
	session := domain.NewTrackingSession("s1", user.ID, domain.StateWorking, start, nil)
	require.NoError(t, db.Sessions().Insert(ctx, session))

	notifier := &recordingNotifier{}
	w := NewAutoShutdown(db, notifier)
	require.NoError(t, w.Tick(ctx))

	got, err := db.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(start.Add(8*time.Hour)))
	assert.Len(t, notifier.calls, 1)
}

func TestAutoShutdownLeavesSessionUnderCap(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	cap := 8.0
	user := domain.NewUser(2, 0)
	user.MaxWorkHours = &cap
	require.NoError(t, db.Users().Insert(ctx, user))

	start := time.Now().UTC().Add(-2 * time.Hour)
	session := domain.NewTrackingSession("s2", user.ID, domain.StateWorking, start, nil)
	require.NoError(t, db.Sessions().Insert(ctx, session))

	w := NewAutoShutdown(db, nil)
	require.NoError(t, w.Tick(ctx))

	got, err := db.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndedAt)
}

func TestAutoShutdownForgotThresholdUsesHistoricalAverage(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	threshold := 150.0
	user := domain.NewUser(3, 0)
	user.ForgotShutdownThresholdPercent = &threshold
	require.NoError(t, db.Users().Insert(ctx, user))

	base := time.Now().UTC().Add(-10 * 24 * time.Hour)
	for i := 0; i < 5; i++ {
		start := base.AddDate(0, 0, i)
		s := domain.NewTrackingSession("hist"+string(rune('a'+i)), user.ID, domain.StateWorking, start, nil)
		s.Close(start.Add(2 * time.Hour))
		require.NoError(t, db.Sessions().Insert(ctx, s))
	}

	// active session started long enough ago that 150% of the 2h average (3h) has elapsed.
	activeStart := time.Now().UTC().Add(-4 * time.Hour)
	active := domain.NewTrackingSession("active", user.ID, domain.StateWorking, activeStart, nil)
	require.NoError(t, db.Sessions().Insert(ctx, active))

	w := NewAutoShutdown(db, nil)
	require.NoError(t, w.Tick(ctx))

	got, err := db.Sessions().GetByID(ctx, active.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndedAt)
}

func TestAutoShutdownNotifyFailureDoesNotFailTick(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	cap := 1.0
	user := domain.NewUser(4, 0)
	user.MaxWorkHours = &cap
	require.NoError(t, db.Users().Insert(ctx, user))

	start := time.Now().UTC().Add(-2 * time.Hour)
	session := domain.NewTrackingSession("s4", user.ID, domain.StateWorking, start, nil)
	require.NoError(t, db.Sessions().Insert(ctx, session))

	w := NewAutoShutdown(db, &recordingNotifier{fail: true})
	assert.NoError(t, w.Tick(ctx))

	got, err := db.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.EndedAt)
}
