package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/platform/logger"
	"github.com/catalinplesu/timesheet/internal/store"
)

// LunchReminder notifies each working user once, at their configured
// local time of day, at most once per local date (spec §4.4.2).
type LunchReminder struct {
	db       store.Beginner
	notifier Notifier
	now      func() time.Time

	mu          sync.Mutex
	lastReminded map[string]time.Time // userID -> local date already notified
}

func NewLunchReminder(db store.Beginner, notifier Notifier) *LunchReminder {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &LunchReminder{
		db:           db,
		notifier:     notifier,
		now:          time.Now,
		lastReminded: make(map[string]time.Time),
	}
}

func (l *LunchReminder) Tick(ctx context.Context) error {
	now := l.now().UTC()
	active, err := l.db.Sessions().AllActive(ctx)
	if err != nil {
		return fmt.Errorf("load active sessions: %w", err)
	}

	log := logger.Named("lunchreminder")
	for _, session := range active {
		if session.State != domain.StateWorking {
			continue
		}
		user, err := l.db.Users().GetByID(ctx, session.UserID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", session.UserID).Msg("load user failed")
			continue
		}
		if user == nil || !user.HasLunchReminder() {
			continue
		}

		local := now.Add(time.Duration(user.UTCOffsetMinutes) * time.Minute)
		if local.Hour() != *user.LunchReminderHour || local.Minute() != *user.LunchReminderMinute {
			continue
		}

		localDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if l.alreadyReminded(user.ID, localDate) {
			continue
		}

		if err := l.notifier.Notify(ctx, user.ID, "time for lunch"); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("notify failed")
			continue
		}
		l.markReminded(user.ID, localDate)
	}
	return nil
}

func (l *LunchReminder) alreadyReminded(userID string, localDate time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.lastReminded[userID]
	return ok && d.Equal(localDate)
}

func (l *LunchReminder) markReminded(userID string, localDate time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastReminded[userID] = localDate
}
