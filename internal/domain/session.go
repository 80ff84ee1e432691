package domain

import "time"

// ActivityState is one of the three mutually exclusive tracked activities.
// Idle is a derived state (no active session) and is never persisted.
type ActivityState string

const (
	StateCommuting ActivityState = "commuting"
	StateWorking   ActivityState = "working"
	StateLunch     ActivityState = "lunch"
)

func (s ActivityState) Valid() bool {
	switch s {
	case StateCommuting, StateWorking, StateLunch:
		return true
	default:
		return false
	}
}

// CommuteDirection disambiguates a commuting session. It is set if and
// only if State == StateCommuting.
type CommuteDirection string

const (
	DirectionToWork CommuteDirection = "to_work"
	DirectionToHome CommuteDirection = "to_home"
)

// TrackingSession is a closed or open interval of one activity (spec §3).
type TrackingSession struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	State     ActivityState `json:"state"`
	StartedAt time.Time     `json:"startedAt"`
	// EndedAt is nil for the active session. At most one session per
	// user may have EndedAt == nil (exclusivity invariant, spec §3).
	EndedAt *time.Time `json:"endedAt,omitempty"`

	// CommuteDirection is set iff State == StateCommuting.
	CommuteDirection *CommuteDirection `json:"commuteDirection,omitempty"`

	Note *string `json:"note,omitempty"`
}

// NewTrackingSession starts a new active session at startedAt.
func NewTrackingSession(id, userID string, state ActivityState, startedAt time.Time, direction *CommuteDirection) *TrackingSession {
	return &TrackingSession{
		ID:               id,
		UserID:           userID,
		State:            state,
		StartedAt:        startedAt,
		CommuteDirection: direction,
	}
}

// IsActive reports whether the session has not yet been closed.
func (s *TrackingSession) IsActive() bool { return s.EndedAt == nil }

// Close ends the session at t. Callers must ensure t is after StartedAt;
// Close itself does not validate ordering so it can also be used by
// corrective tooling - ordering is the caller's (tracking.Service's)
// responsibility, enforced before Close is invoked.
func (s *TrackingSession) Close(t time.Time) {
	closed := t
	s.EndedAt = &closed
}

// Duration returns the closed session's length, or zero if still active.
func (s *TrackingSession) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// LocalDate returns the calendar date of StartedAt shifted by the user's
// UTC offset (the "local date of a session", per the glossary).
func (s *TrackingSession) LocalDate(utcOffsetMinutes int) time.Time {
	local := s.StartedAt.Add(time.Duration(utcOffsetMinutes) * time.Minute).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
