package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/platform/logger"
	"github.com/catalinplesu/timesheet/internal/store"
)

// ExpirySweeper deletes expired pending mnemonics hourly (spec §4.4.3).
type ExpirySweeper struct {
	db  store.Beginner
	now func() time.Time
}

func NewExpirySweeper(db store.Beginner) *ExpirySweeper {
	return &ExpirySweeper{db: db, now: time.Now}
}

func (s *ExpirySweeper) Tick(ctx context.Context) error {
	n, err := s.db.Mnemonics().DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return fmt.Errorf("sweep expired mnemonics: %w", err)
	}
	if n > 0 {
		logger.Named("sweeper").Info().Int("removed", n).Msg("swept expired mnemonics")
	}
	return nil
}
