package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/timesplit/internal/db"
)

// FailOnNthExecUoW behaves like the SQLite unit of work except that the
// FailOn-th write (ExecContext, counting from 1) inside a transaction
// returns Err instead of running. Reads are never counted. Writes records
// how many writes were attempted in the last transaction.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	Writes int
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Writes = 0
	return db.NewUnitOfWork(u.DB, db.SQLite).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWrites{DBTX: tx, uow: u})
	})
}

type failingWrites struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.uow.Writes++
	if f.uow.Writes == f.uow.FailOn {
		return nil, fmt.Errorf("write %d: %w", f.uow.Writes, f.uow.Err)
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
