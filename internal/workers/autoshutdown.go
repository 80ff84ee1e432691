package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/platform/logger"
	"github.com/catalinplesu/timesheet/internal/store"
)

// Notifier delivers a best-effort message to a user's front end. Delivery
// failure never rolls back the shutdown it accompanies (spec §4.4.1).
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// NoopNotifier discards every notification; used when no transport is
// wired in (the bot/web front end is out of this module's scope).
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, userID, message string) error { return nil }

const (
	forgotShutdownLookback   = 30 * 24 * time.Hour
	forgotShutdownMinSamples = 5
)

// AutoShutdown closes active sessions that have exceeded their user's
// configured cap or forgot-shutdown threshold (spec §4.4.1).
type AutoShutdown struct {
	db       store.Beginner
	notifier Notifier
	now      func() time.Time
}

func NewAutoShutdown(db store.Beginner, notifier Notifier) *AutoShutdown {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &AutoShutdown{db: db, notifier: notifier, now: time.Now}
}

func (a *AutoShutdown) Tick(ctx context.Context) error {
	now := a.now().UTC()
	active, err := a.db.Sessions().AllActive(ctx)
	if err != nil {
		return fmt.Errorf("load active sessions: %w", err)
	}

	log := logger.Named("autoshutdown")
	for _, session := range active {
		user, err := a.db.Users().GetByID(ctx, session.UserID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", session.UserID).Msg("load user failed")
			continue
		}
		if user == nil {
			continue
		}

		point, ok, err := a.shutdownPoint(ctx, user, session, now)
		if err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("compute shutdown point failed")
			continue
		}
		if !ok || now.Before(point) {
			continue
		}

		if err := a.closeAt(ctx, session, point); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("close session failed")
			continue
		}
		if err := a.notifier.Notify(ctx, user.ID, fmt.Sprintf("%s session ended automatically", session.State)); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("notify failed")
		}
	}
	return nil
}

// shutdownPoint computes the time at which session should be force-closed,
// per the absolute-cap-then-threshold-percent rule (spec §4.4.1).
func (a *AutoShutdown) shutdownPoint(ctx context.Context, user *domain.User, session *domain.TrackingSession, now time.Time) (time.Time, bool, error) {
	if capHours := user.CapFor(session.State); capHours != nil {
		return session.StartedAt.Add(time.Duration(*capHours * float64(time.Hour))), true, nil
	}

	if user.ForgotShutdownThresholdPercent == nil {
		return time.Time{}, false, nil
	}

	since := now.Add(-forgotShutdownLookback)
	history, err := a.db.Sessions().RecentByState(ctx, user.ID, session.State, since)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load session history: %w", err)
	}
	if len(history) < forgotShutdownMinSamples {
		return time.Time{}, false, nil
	}

	var total time.Duration
	for _, h := range history {
		total += h.Duration()
	}
	avg := total / time.Duration(len(history))
	projected := time.Duration(float64(avg) * (*user.ForgotShutdownThresholdPercent / 100))
	return session.StartedAt.Add(projected), true, nil
}

func (a *AutoShutdown) closeAt(ctx context.Context, session *domain.TrackingSession, point time.Time) error {
	uow, err := a.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Close()

	session.Close(point)
	if err := uow.Sessions().Update(ctx, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return uow.Commit()
}
