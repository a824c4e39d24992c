package repositories

import (
	"context"
	"errors"

	lerrors "walletledger/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// PostgresStore is the gorm-backed unit of work.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Atomic runs fn inside a database transaction. Returning an error from fn
// rolls everything back.
func (s *PostgresStore) Atomic(ctx context.Context, fn func(tx LedgerTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// View runs fn without opening a transaction. Locks taken inside View are
// released as soon as the statement completes.
func (s *PostgresStore) View(ctx context.Context, fn func(tx LedgerTx) error) error {
	return fn(&gormTx{db: s.db.WithContext(ctx)})
}

// gormTx implements LedgerTx on a *gorm.DB, which is either a transaction
// handle or the pool itself.
type gormTx struct {
	db *gorm.DB
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return lerrors.ErrStoreFault.WithMessage("ledger store timed out").Wrap(err)
	}
	return lerrors.StoreFault(err)
}
