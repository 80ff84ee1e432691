package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/catalinplesu/timesheet/internal/store"
)

// Begin starts a new transaction-backed UnitOfWork (spec §4.2, §9).
func (d *DB) Begin(ctx context.Context) (store.UnitOfWork, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &unitOfWork{tx: tx}, nil
}

// Sessions, Users, ... below give read-only callers (analytics, status
// queries) repository access without opening a transaction.
func (d *DB) Sessions() store.SessionStore     { return &SessionRepository{q: d.db} }
func (d *DB) Users() store.UserStore           { return &UserRepository{q: d.db} }
func (d *DB) Mnemonics() store.MnemonicStore   { return &MnemonicRepository{q: d.db} }
func (d *DB) Employer() store.EmployerStore    { return &EmployerRepository{q: d.db} }
func (d *DB) Compliance() store.ComplianceStore { return &ComplianceRepository{q: d.db} }
func (d *DB) Holidays() store.HolidayStore     { return &HolidayRepository{q: d.db} }

type unitOfWork struct {
	tx   *sql.Tx
	done bool
}

func (u *unitOfWork) Sessions() store.SessionStore     { return &SessionRepository{q: u.tx} }
func (u *unitOfWork) Users() store.UserStore           { return &UserRepository{q: u.tx} }
func (u *unitOfWork) Mnemonics() store.MnemonicStore   { return &MnemonicRepository{q: u.tx} }
func (u *unitOfWork) Employer() store.EmployerStore    { return &EmployerRepository{q: u.tx} }
func (u *unitOfWork) Compliance() store.ComplianceStore { return &ComplianceRepository{q: u.tx} }
func (u *unitOfWork) Holidays() store.HolidayStore     { return &HolidayRepository{q: u.tx} }

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit()
}

// Close rolls back the transaction if it hasn't been committed yet. Safe
// to call after Commit (every exit path, including the error path, calls
// Close via defer - spec §9).
func (u *unitOfWork) Close() error {
	if u.done {
		return nil
	}
	u.done = true
	err := u.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
