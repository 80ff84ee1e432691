package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/platform/logger"
	"github.com/catalinplesu/timesheet/internal/store"
)

// Service orchestrates the pure state machine against the session store,
// under a Unit of Work, per spec §4.1-§4.2.
type Service struct {
	db    store.Beginner
	bound time.Duration // default absolute offset bound, spec §4.1
}

// NewService builds a tracking Service. bound is the maximum allowed
// absolute distance between a resolved timestamp and now (default 12h).
func NewService(db store.Beginner, bound time.Duration) *Service {
	if bound <= 0 {
		bound = 12 * time.Hour
	}
	return &Service{db: db, bound: bound}
}

// ToggleResult reports what Toggle actually did, for the caller (bot/HTTP
// adapter) to render a response.
type ToggleResult struct {
	Kind       OutcomeKind
	Closed     *domain.TrackingSession
	Opened     *domain.TrackingSession
}

// Toggle applies one toggle command for a user, per the decision table in
// spec §4.1. now is the caller's wall-clock UTC time (injected for
// testability); q is the optional time qualifier.
func (s *Service) Toggle(ctx context.Context, user *domain.User, requested domain.ActivityState, q *TimeQualifier, now time.Time) (*ToggleResult, error) {
	log := logger.C(ctx)

	if !requested.Valid() {
		return nil, domain.NewError(domain.KindInvalidRequest, "unknown activity")
	}

	t, err := ResolveTimestamp(q, now, user.UTCOffsetMinutes, s.bound)
	if err != nil {
		return nil, err
	}

	uow, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "begin unit of work", err)
	}
	defer uow.Close()

	active, err := uow.Sessions().ActiveSession(ctx, user.ID)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "load active session", err)
	}

	outcome := Decide(active, requested)
	if outcome.Kind == OutcomeNoChange {
		return nil, domain.NewError(domain.KindInvalidRequest, "no-op toggle")
	}

	if err := s.checkOverlap(ctx, uow, user.ID, "", t); err != nil {
		return nil, err
	}

	result := &ToggleResult{Kind: outcome.Kind}

	switch outcome.Kind {
	case OutcomeEndActive:
		if t.Before(active.StartedAt) || t.Equal(active.StartedAt) {
			return nil, domain.NewError(domain.KindConflict, "end time must be after start time")
		}
		active.Close(t)
		if err := uow.Sessions().Update(ctx, active); err != nil {
			return nil, domain.Wrap(domain.KindInternal, "close active session", err)
		}
		result.Closed = active

	case OutcomeStartNew:
		if outcome.CloseExisting {
			if t.Before(active.StartedAt) || t.Equal(active.StartedAt) {
				return nil, domain.NewError(domain.KindConflict, "switch time must be after current session start")
			}
			active.Close(t)
			if err := uow.Sessions().Update(ctx, active); err != nil {
				return nil, domain.Wrap(domain.KindInternal, "close active session", err)
			}
			result.Closed = active
		}

		var dirPtr *domain.CommuteDirection
		if requested == domain.StateCommuting {
			sameDay, err := s.sameLocalDayStates(ctx, uow, user, t)
			if err != nil {
				return nil, err
			}
			d := InferDirection(sameDay)
			dirPtr = &d
		}

		opened := domain.NewTrackingSession(uuid.New().String(), user.ID, requested, t, dirPtr)
		if err := uow.Sessions().Insert(ctx, opened); err != nil {
			return nil, domain.Wrap(domain.KindInternal, "insert new session", err)
		}
		result.Opened = opened
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "commit toggle", err)
	}

	log.Info().Str("user_id", user.ID).Str("requested", string(requested)).Msg("toggle applied")
	return result, nil
}

// sameLocalDayStates gathers the ordered activity states of every session
// on the same local date as t, for commute-direction inference.
func (s *Service) sameLocalDayStates(ctx context.Context, uow store.UnitOfWork, user *domain.User, t time.Time) ([]domain.ActivityState, error) {
	offset := time.Duration(user.UTCOffsetMinutes) * time.Minute
	localDay := t.Add(offset).UTC()
	dayStart := time.Date(localDay.Year(), localDay.Month(), localDay.Day(), 0, 0, 0, 0, time.UTC)
	from := dayStart.Add(-offset)
	to := from.Add(24 * time.Hour)

	sessions, err := uow.Sessions().Range(ctx, user.ID, from, to)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "load same-day sessions", err)
	}
	states := make([]domain.ActivityState, 0, len(sessions))
	for _, sess := range sessions {
		states = append(states, sess.State)
	}
	return states, nil
}

// checkOverlap enforces spec §4.1's "must not produce a session whose
// start is earlier than the previously closed session's end" rule.
func (s *Service) checkOverlap(ctx context.Context, uow store.UnitOfWork, userID, excludeID string, t time.Time) error {
	prev, _, err := uow.Sessions().Adjacent(ctx, userID, excludeID, t)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "load adjacent sessions", err)
	}
	if prev != nil && prev.EndedAt != nil && t.Before(*prev.EndedAt) {
		return domain.NewError(domain.KindConflict, "would overlap a previous session")
	}
	return nil
}

// AdjustStartTime shifts session's StartedAt by deltaMinutes (spec §4.2).
// Applies to any session, closed or active.
func (s *Service) AdjustStartTime(ctx context.Context, session *domain.TrackingSession, deltaMinutes int) error {
	newStart := session.StartedAt.Add(time.Duration(deltaMinutes) * time.Minute)

	if session.EndedAt != nil && !newStart.Before(*session.EndedAt) {
		return domain.NewError(domain.KindConflict, "new start must be before end")
	}

	uow, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "begin unit of work", err)
	}
	defer uow.Close()

	prev, _, err := uow.Sessions().Adjacent(ctx, session.UserID, session.ID, newStart)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "load adjacent sessions", err)
	}
	if prev != nil && prev.EndedAt != nil && newStart.Before(*prev.EndedAt) {
		return domain.NewError(domain.KindConflict, "would overlap the previous session")
	}

	session.StartedAt = newStart
	if err := uow.Sessions().Update(ctx, session); err != nil {
		return domain.Wrap(domain.KindInternal, "update session start", err)
	}
	return uow.Commit()
}

// AdjustEndTime shifts session's EndedAt by deltaMinutes (spec §4.2). Fails
// if the session is active.
func (s *Service) AdjustEndTime(ctx context.Context, session *domain.TrackingSession, deltaMinutes int) error {
	if session.EndedAt == nil {
		return domain.NewError(domain.KindConflict, "cannot adjust end of active session")
	}
	newEnd := session.EndedAt.Add(time.Duration(deltaMinutes) * time.Minute)
	if !newEnd.After(session.StartedAt) {
		return domain.NewError(domain.KindConflict, "new end must be after start")
	}

	uow, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "begin unit of work", err)
	}
	defer uow.Close()

	_, next, err := uow.Sessions().Adjacent(ctx, session.UserID, session.ID, session.StartedAt)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "load adjacent sessions", err)
	}
	if next != nil && newEnd.After(next.StartedAt) {
		return domain.NewError(domain.KindConflict, "would overlap the next session")
	}

	session.EndedAt = &newEnd
	if err := uow.Sessions().Update(ctx, session); err != nil {
		return domain.Wrap(domain.KindInternal, "update session end", err)
	}
	return uow.Commit()
}

// Delete removes a closed session (spec §4.2: "permitted only on closed
// sessions; active sessions must be ended first").
func (s *Service) Delete(ctx context.Context, session *domain.TrackingSession) error {
	if session.EndedAt == nil {
		return domain.NewError(domain.KindConflict, "cannot delete an active session")
	}
	uow, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "begin unit of work", err)
	}
	defer uow.Close()

	if err := uow.Sessions().Remove(ctx, session); err != nil {
		return domain.Wrap(domain.KindInternal, "remove session", err)
	}
	return uow.Commit()
}

// UpdateSettings validates and applies a settings patch to user, persisting
// the result (spec §9, SPEC_FULL.md's settings-validation supplement).
func (s *Service) UpdateSettings(ctx context.Context, user *domain.User, patch *domain.SettingsPatch) error {
	if err := validateSettingsPatch(patch); err != nil {
		return err
	}
	patch.Apply(user)

	uow, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "begin unit of work", err)
	}
	defer uow.Close()

	if err := uow.Users().Update(ctx, user); err != nil {
		return domain.Wrap(domain.KindInternal, "update user settings", err)
	}
	return uow.Commit()
}
