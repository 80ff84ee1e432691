package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalinplesu/timesheet/internal/domain"
)

func TestExpirySweeperDeletesOnlyExpiredMnemonics(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	expired := &domain.PendingMnemonic{ID: "m1", Phrase: "expired phrase", ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour)}
	live := &domain.PendingMnemonic{ID: "m2", Phrase: "live phrase", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	require.NoError(t, db.Mnemonics().Insert(ctx, expired))
	require.NoError(t, db.Mnemonics().Insert(ctx, live))

	s := NewExpirySweeper(db)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Tick(ctx))

	gone, err := db.Mnemonics().GetForUpdate(ctx, "expired phrase")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := db.Mnemonics().GetForUpdate(ctx, "live phrase")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestExpirySweeperNoOpWhenNothingExpired(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	s := NewExpirySweeper(db)
	assert.NoError(t, s.Tick(ctx))
}
