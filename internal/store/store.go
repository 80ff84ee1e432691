// Package store defines the persistence contracts the rest of the core
// programs against (the S module, spec §4.2), independent of the concrete
// SQLite implementation in store/sqlite.
package store

import (
	"context"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// UnitOfWork coordinates multi-operation changes so they commit atomically
// (spec §4.2, §9: "model it as an explicit Commit + Close pair invoked on
// every exit path"). Begin returns a UnitOfWork bound to one logical
// operation; callers must call Close on every exit path (Close after a
// successful Commit is a no-op).
type UnitOfWork interface {
	Sessions() SessionStore
	Users() UserStore
	Mnemonics() MnemonicStore
	Employer() EmployerStore
	Compliance() ComplianceStore
	Holidays() HolidayStore

	Commit() error
	Close() error
}

// Beginner starts a new UnitOfWork. The concrete store (store/sqlite)
// implements this directly; tests may fake it.
type Beginner interface {
	Begin(ctx context.Context) (UnitOfWork, error)

	// Reader-side accessors usable outside a transaction, for read-only
	// callers (analytics, status queries) that don't need a UnitOfWork.
	Sessions() SessionStore
	Users() UserStore
	Mnemonics() MnemonicStore
	Employer() EmployerStore
	Compliance() ComplianceStore
	Holidays() HolidayStore
}

// SessionStore is the S module's session repository contract (spec §4.2).
type SessionStore interface {
	ActiveSession(ctx context.Context, userID string) (*domain.TrackingSession, error)
	GetByID(ctx context.Context, id string) (*domain.TrackingSession, error)
	// Range returns sessions with StartedAt in [from, to), ascending.
	Range(ctx context.Context, userID string, from, to time.Time) ([]*domain.TrackingSession, error)
	// Recent returns the most recent sessions first, optionally filtered
	// to a single local date (already resolved to a UTC day-window by the
	// caller, since the store itself doesn't know the user's offset).
	Recent(ctx context.Context, userID string, limit int, dayWindow *TimeWindow) ([]*domain.TrackingSession, error)
	// AllActive returns every user's active session, for the auto-shutdown
	// worker (spec §4.4.1).
	AllActive(ctx context.Context) ([]*domain.TrackingSession, error)
	// Adjacent returns, excluding excludeID: prev, the session with the
	// greatest StartedAt that is <= around (the session that would
	// contain around if any session does); and next, the session with
	// the smallest StartedAt that is > around. Used for overlap checks on
	// inserts and adjustments (spec §4.1, §4.2).
	Adjacent(ctx context.Context, userID, excludeID string, around time.Time) (prev, next *domain.TrackingSession, err error)
	// RecentByState returns a user's closed sessions of the given state
	// started at or after since, most recent first - used by the
	// auto-shutdown worker's forgot-shutdown heuristic, which counts them
	// and averages their durations (spec §4.4.1).
	RecentByState(ctx context.Context, userID string, state domain.ActivityState, since time.Time) ([]*domain.TrackingSession, error)

	Insert(ctx context.Context, s *domain.TrackingSession) error
	Update(ctx context.Context, s *domain.TrackingSession) error
	Remove(ctx context.Context, s *domain.TrackingSession) error
}

// TimeWindow is a half-open [Start, End) instant range.
type TimeWindow struct {
	Start, End time.Time
}

// UserStore is the User repository contract.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID int64) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// Count reports the total number of registered users, used to decide
	// whether the first-ever registration should be flagged admin
	// (spec §4.5).
	Count(ctx context.Context) (int, error)
}

// MnemonicStore is the PendingMnemonic repository contract (spec §4.5).
type MnemonicStore interface {
	Insert(ctx context.Context, m *domain.PendingMnemonic) error
	// GetForUpdate fetches a mnemonic by its phrase, locked for the
	// duration of the enclosing transaction so concurrent validations of
	// the same phrase serialize (spec: "lookup-and-set is serialized").
	GetForUpdate(ctx context.Context, phrase string) (*domain.PendingMnemonic, error)
	// MarkConsumed sets is_consumed for id, guarded on is_consumed currently
	// being false. ok reports whether this call was the one that flipped
	// it, so a loser of a concurrent consumption race gets a deterministic
	// "already consumed" signal instead of depending on how the underlying
	// driver classifies the write conflict.
	MarkConsumed(ctx context.Context, id string) (ok bool, err error)
	// DeleteExpired removes mnemonics whose ExpiresAt is before now,
	// returning the number of rows removed (spec §4.4.3).
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// EmployerStore is the EmployerAttendanceRecord repository contract.
type EmployerStore interface {
	Range(ctx context.Context, userID string, from, to time.Time) ([]*domain.EmployerAttendanceRecord, error)
	// ReplaceRange deletes and reinserts a user's records for [from, to)
	// and writes an import log entry. It opens no transaction of its own:
	// called through a UnitOfWork's Employer() the statements share that
	// transaction; called through Beginner.Employer() each runs on its own.
	ReplaceRange(ctx context.Context, userID string, from, to time.Time, records []*domain.EmployerAttendanceRecord) error
}

// ComplianceStore is the ComplianceRule repository contract.
type ComplianceStore interface {
	ListEnabled(ctx context.Context, userID string) ([]*domain.ComplianceRule, error)
	Upsert(ctx context.Context, r *domain.ComplianceRule) error
}

// HolidayStore is the Holiday repository contract.
type HolidayStore interface {
	Range(ctx context.Context, userID string, from, to time.Time) ([]*domain.Holiday, error)
	Insert(ctx context.Context, h *domain.Holiday) error
}

// SessionWithHoliday pairs a session with whether its local date falls
// inside one of the user's holidays. A supplemental read helper: the data
// model already carries Holiday as a first-class entity used by compliance
// evaluation, but nothing outside that evaluation could ask "is this day a
// holiday" for a session it already has in hand.
type SessionWithHoliday struct {
	*domain.TrackingSession
	OnHoliday bool
}

// RangeWithHolidayFlag wraps Beginner.Sessions().Range with a per-session
// holiday annotation, computed from Beginner.Holidays().Range and
// Holiday.Covers. from/to are UTC instants, the same bounds Range itself
// takes; utcOffsetMinutes resolves each session's local date.
func RangeWithHolidayFlag(ctx context.Context, db Beginner, userID string, from, to time.Time, utcOffsetMinutes int) ([]SessionWithHoliday, error) {
	sessions, err := db.Sessions().Range(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	localFrom := localDateOnly(from, utcOffsetMinutes)
	localTo := localDateOnly(to, utcOffsetMinutes)
	holidays, err := db.Holidays().Range(ctx, userID, localFrom, localTo.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := make([]SessionWithHoliday, len(sessions))
	for i, s := range sessions {
		out[i] = SessionWithHoliday{
			TrackingSession: s,
			OnHoliday:       coveredByAnyHoliday(holidays, s.LocalDate(utcOffsetMinutes)),
		}
	}
	return out, nil
}

func coveredByAnyHoliday(holidays []*domain.Holiday, localDate time.Time) bool {
	for _, h := range holidays {
		if h.Covers(localDate) {
			return true
		}
	}
	return false
}

func localDateOnly(t time.Time, utcOffsetMinutes int) time.Time {
	local := t.Add(time.Duration(utcOffsetMinutes) * time.Minute).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
