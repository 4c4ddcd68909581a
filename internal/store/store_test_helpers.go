package store

import (
	"context"
	"database/sql"
)

// Stub query surfaces for store tests: they record the SQL and arguments each
// store issues and hand back canned rows through caller-supplied functions.

type stubResult struct{}

func (stubResult) LastInsertId() (int64, error) { return 0, nil }
func (stubResult) RowsAffected() (int64, error) { return 1, nil }

type executedQuery struct {
	query string
	args  []any
}

type stubTx struct {
	execs   []executedQuery
	execErr error
	getFn   func(dest any, query string, args []any) error
}

func (s *stubTx) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	s.execs = append(s.execs, executedQuery{query: query, args: args})
	if s.execErr != nil {
		return nil, s.execErr
	}
	return stubResult{}, nil
}

func (s *stubTx) GetContext(_ context.Context, dest any, query string, args ...any) error {
	if s.getFn == nil {
		return sql.ErrNoRows
	}
	return s.getFn(dest, query, args)
}

type stubDB struct {
	stubTx
	selectFn func(dest any, query string, args []any) error
}

func (s *stubDB) SelectContext(_ context.Context, dest any, query string, args ...any) error {
	if s.selectFn == nil {
		return nil
	}
	return s.selectFn(dest, query, args)
}
