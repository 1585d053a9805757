// Package repositories implements the persistence ports of the docket domain
// over PostgreSQL.
package repositories

import (
	"context"
	"database/sql"

	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/pkg/errors"
)

// queryExecutor is satisfied by both *sql.DB and *sql.Tx, letting the same
// repository code run standalone or inside a unit of work.
type queryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type baseRepo struct {
	db  *sql.DB
	tx  *sql.Tx
	log logging.Logger
}

func (r baseRepo) executor() queryExecutor {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// SQLUnitOfWork runs trigger and deadline writes inside one transaction.
type SQLUnitOfWork struct {
	db  *sql.DB
	log logging.Logger
}

// NewSQLUnitOfWork builds the unit of work over an open pool.
func NewSQLUnitOfWork(db *sql.DB, log logging.Logger) *SQLUnitOfWork {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SQLUnitOfWork{db: db, log: log.Named("uow")}
}

func (u *SQLUnitOfWork) WithinTx(ctx context.Context, fn func(docket.TriggerRepository, docket.DeadlineRepository) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "begin transaction")
	}

	base := baseRepo{db: u.db, tx: tx, log: u.log}
	triggers := &TriggerRepo{baseRepo: base}
	deadlines := &DeadlineRepo{baseRepo: base}

	if err := fn(triggers, deadlines); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			u.log.Error("transaction rollback failed", logging.Err(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "commit transaction")
	}
	return nil
}
