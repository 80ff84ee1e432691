package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalinplesu/timesheet/internal/domain"
)

func TestComplianceRepositoryUpsertAndList(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()
	user := mustInsertUser(t, db)
	repo := db.Compliance()

	rule := &domain.ComplianceRule{
		ID:             "r1",
		UserID:         user.ID,
		RuleType:       domain.RuleMinimumOfficeHours,
		IsEnabled:      true,
		ThresholdHours: 8,
		ClockInAnchor:  domain.AnchorFirstSessionStart,
		ClockOutAnchor: domain.AnchorLastSessionEnd,
	}
	require.NoError(t, repo.Upsert(ctx, rule))

	t.Run("list enabled returns the inserted rule", func(t *testing.T) {
		rules, err := repo.ListEnabled(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, 8.0, rules[0].ThresholdHours)
	})

	t.Run("upsert on the same rule type updates in place", func(t *testing.T) {
		rule.ThresholdHours = 7.5
		require.NoError(t, repo.Upsert(ctx, rule))

		rules, err := repo.ListEnabled(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, 7.5, rules[0].ThresholdHours)
	})

	t.Run("disabling a rule removes it from list enabled", func(t *testing.T) {
		rule.IsEnabled = false
		require.NoError(t, repo.Upsert(ctx, rule))

		rules, err := repo.ListEnabled(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})
}
