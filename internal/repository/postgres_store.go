package repository

import (
	"context"
	"errors"
	"fmt"

	"cashdunia/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on top of a pgx pool. Row locks taken with
// SELECT ... FOR UPDATE serialize concurrent writers of the same account.
type PostgresStore struct {
	db *pgxpool.Pool
	*UserRepository
	*StreakRepository
	*OfferRepository
	*WithdrawalRepository
	*ReferralRepository
	*TransactionRepository
	*TaskRepository
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		StreakRepository:      NewStreakRepository(db),
		OfferRepository:       NewOfferRepository(db),
		WithdrawalRepository:  NewWithdrawalRepository(db),
		ReferralRepository:    NewReferralRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		TaskRepository:        NewTaskRepository(db),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// InTx runs fn inside a read-committed transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newPgTx(tx)); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// pgTx binds every repository to one pgx.Tx.
type pgTx struct {
	*UserRepository
	*StreakRepository
	*OfferRepository
	*WithdrawalRepository
	*ReferralRepository
	*TransactionRepository
	*TaskRepository
}

func newPgTx(tx pgx.Tx) *pgTx {
	return &pgTx{
		UserRepository:        NewUserRepository(tx),
		StreakRepository:      NewStreakRepository(tx),
		OfferRepository:       NewOfferRepository(tx),
		WithdrawalRepository:  NewWithdrawalRepository(tx),
		ReferralRepository:    NewReferralRepository(tx),
		TransactionRepository: NewTransactionRepository(tx),
		TaskRepository:        NewTaskRepository(tx),
	}
}

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// classify maps retryable Postgres failures onto ErrConflict.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		}
	}
	return err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Tx    = (*pgTx)(nil)
)

// CreateUser inserts the account and its streak row together.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User, st *domain.Streak) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := NewUserRepository(tx).insertUser(ctx, u); err != nil {
		return err
	}
	st.UserID = u.ID
	if err := NewStreakRepository(tx).insertStreak(ctx, st); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
