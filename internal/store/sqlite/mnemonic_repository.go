package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// MnemonicRepository implements store.MnemonicStore against the
// pending_mnemonics table.
type MnemonicRepository struct{ q querier }

func scanMnemonic(row interface {
	Scan(dest ...interface{}) error
}) (*domain.PendingMnemonic, error) {
	var m domain.PendingMnemonic
	if err := row.Scan(&m.ID, &m.Phrase, &m.ExpiresAt, &m.IsConsumed, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MnemonicRepository) Insert(ctx context.Context, m *domain.PendingMnemonic) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO pending_mnemonics
		(id, phrase, expires_at, is_consumed, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Phrase, m.ExpiresAt, m.IsConsumed, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert mnemonic: %w", err)
	}
	return nil
}

// GetForUpdate relies on the caller running inside a transaction: SQLite
// serializes writers, so a SELECT followed by an UPDATE inside the same
// write transaction is enough to make consumption atomic (spec: "the
// lookup-and-set is serialized so at most one validation can succeed").
func (r *MnemonicRepository) GetForUpdate(ctx context.Context, phrase string) (*domain.PendingMnemonic, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, phrase, expires_at, is_consumed, created_at
		FROM pending_mnemonics WHERE phrase = ?`, phrase)
	m, err := scanMnemonic(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query mnemonic: %w", err)
	}
	return m, nil
}

// MarkConsumed is guarded on is_consumed still being FALSE, so two callers
// racing to consume the same row can't both believe they won: at most one
// UPDATE affects a row, and RowsAffected tells the caller which one it was.
func (r *MnemonicRepository) MarkConsumed(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE pending_mnemonics SET is_consumed = TRUE WHERE id = ? AND is_consumed = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("mark mnemonic consumed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count marked mnemonic: %w", err)
	}
	return n > 0, nil
}

func (r *MnemonicRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pending_mnemonics WHERE expires_at < ?`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired mnemonics: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted mnemonics: %w", err)
	}
	return int(n), nil
}
