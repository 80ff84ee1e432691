// Package tracking implements the T module: the pure toggle state machine,
// commute direction inference, time-offset resolution, and the service that
// orchestrates them against the session store (spec §4.1).
package tracking

import (
	"github.com/catalinplesu/timesheet/internal/domain"
)

// OutcomeKind tags the shape of a Decide result. Consumers pattern-match
// exhaustively over the three shapes named in spec §4.1.
type OutcomeKind int

const (
	OutcomeNoChange OutcomeKind = iota
	OutcomeStartNew
	OutcomeEndActive
)

// Outcome is the tagged result of Decide. Only the fields relevant to Kind
// are meaningful:
//
//   - OutcomeStartNew:  NewState, NewDirection (if NewState == commuting),
//     CloseExisting (whether an active session must be closed first)
//   - OutcomeEndActive: nothing further - caller closes the active session
//   - OutcomeNoChange:  nothing further - caller rejects the request
type Outcome struct {
	Kind          OutcomeKind
	NewState      domain.ActivityState
	NewDirection  *domain.CommuteDirection
	CloseExisting bool
}

// Decide implements the decision table in spec §4.1. active is the user's
// currently active session, or nil if the user is idle. requested is the
// action the user asked for.
func Decide(active *domain.TrackingSession, requested domain.ActivityState) Outcome {
	if !requested.Valid() {
		return Outcome{Kind: OutcomeNoChange}
	}

	if active == nil {
		return Outcome{Kind: OutcomeStartNew, NewState: requested}
	}

	if active.State == requested {
		return Outcome{Kind: OutcomeEndActive}
	}

	return Outcome{Kind: OutcomeStartNew, NewState: requested, CloseExisting: true}
}

// InferDirection implements spec §4.1's commute-direction rule: the first
// commute of the user's local day is to_work; any commute after the first
// working session that day is to_home. sameDayStates must contain every
// session's State whose StartedAt falls on the same local date as t,
// ordered by StartedAt ascending (callers build this from Store.Recent or
// Store.Range over the local day).
func InferDirection(sameDayStates []domain.ActivityState) domain.CommuteDirection {
	for _, s := range sameDayStates {
		if s == domain.StateWorking {
			return domain.DirectionToHome
		}
	}
	return domain.DirectionToWork
}

// direction is a small helper so callers can build the *CommuteDirection
// pointer Decide/Outcome expects in one line.
func direction(d domain.CommuteDirection) *domain.CommuteDirection { return &d }

// ResolveOutcome fills in NewDirection on a StartNew outcome for a
// commuting request, given the same-day prior session states.
func ResolveOutcome(o Outcome, sameDayStates []domain.ActivityState) Outcome {
	if o.Kind == OutcomeStartNew && o.NewState == domain.StateCommuting {
		d := InferDirection(sameDayStates)
		o.NewDirection = direction(d)
	}
	return o
}
