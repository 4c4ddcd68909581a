package store

import (
	"context"
	"database/sql"
)

// Narrow query interfaces so stores accept either the pool or a transaction.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

// Tx is the surface a store needs inside a database transaction.
type Tx interface {
	Execer
	Getter
}
