package credential

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/store"
)

const DefaultTTL = time.Hour

// Service implements the credential operations of spec §4.5.
type Service struct {
	db  store.Beginner
	now func() time.Time
}

func NewService(db store.Beginner) *Service {
	return &Service{db: db, now: time.Now}
}

// StorePending inserts a freshly generated phrase with the given TTL (or
// DefaultTTL if ttl is zero). The phrase is the unique key; a collision is
// surfaced as domain.KindConflict.
func (s *Service) StorePending(ctx context.Context, phrase string, ttl time.Duration) (*domain.PendingMnemonic, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now().UTC()
	m := &domain.PendingMnemonic{
		ID:        uuid.New().String(),
		Phrase:    phrase,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := s.db.Mnemonics().Insert(ctx, m); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Wrap(domain.KindConflict, "mnemonic already pending", err)
		}
		return nil, domain.Wrap(domain.KindInternal, "store pending mnemonic", err)
	}
	return m, nil
}

// ValidateAndConsume looks up phrase and, if usable, marks it consumed,
// inside one transaction so concurrent attempts against the same phrase
// serialize and at most one succeeds (spec §4.5).
func (s *Service) ValidateAndConsume(ctx context.Context, phrase string) (*domain.PendingMnemonic, error) {
	uow, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Close()

	m, err := uow.Mnemonics().GetForUpdate(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("lookup mnemonic: %w", err)
	}
	if m == nil || !m.Usable(s.now().UTC()) {
		return nil, domain.NewError(domain.KindInvalidMnemonic, "mnemonic is invalid, expired, or already used")
	}

	ok, err := uow.Mnemonics().MarkConsumed(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("mark mnemonic consumed: %w", err)
	}
	if !ok {
		// Lost the race to another concurrent consumption attempt between
		// our read and our write; the outcome for this caller is the same
		// as never having found a usable mnemonic.
		return nil, domain.NewError(domain.KindInvalidMnemonic, "mnemonic is invalid, expired, or already used")
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit mnemonic consumption: %w", err)
	}

	m.IsConsumed = true
	return m, nil
}

// Register validates and consumes phrase, then creates the User it
// authorizes. The first-ever registered user is flagged admin (spec
// §4.5). The whole operation runs in one transaction so a mnemonic is
// never burned without a resulting user, or vice versa.
func (s *Service) Register(ctx context.Context, phrase string, externalID int64, utcOffsetMinutes int) (*domain.User, error) {
	uow, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Close()

	m, err := uow.Mnemonics().GetForUpdate(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("lookup mnemonic: %w", err)
	}
	if m == nil || !m.Usable(s.now().UTC()) {
		return nil, domain.NewError(domain.KindInvalidMnemonic, "mnemonic is invalid, expired, or already used")
	}

	existing, err := uow.Users().GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.NewError(domain.KindAlreadyRegistered, "user is already registered")
	}

	count, err := uow.Users().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	user := domain.NewUser(externalID, utcOffsetMinutes)
	user.IsAdmin = count == 0

	if err := uow.Users().Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	ok, err := uow.Mnemonics().MarkConsumed(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("mark mnemonic consumed: %w", err)
	}
	if !ok {
		return nil, domain.NewError(domain.KindInvalidMnemonic, "mnemonic is invalid, expired, or already used")
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	return user, nil
}

// isUniqueViolation recognizes mattn/go-sqlite3's constraint error message;
// the driver doesn't export a typed sentinel for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
