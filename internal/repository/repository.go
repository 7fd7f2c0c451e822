// Package repository contains the persistence layer.
//
// Queries are hand-written SQL executed through database/sql over the pgx
// stdlib driver. All methods accept a context and return domain types; row
// scanning stays inside this package.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by queries. Both *sql.DB and
// *sql.Tx satisfy it, which lets a transaction be threaded through WithTx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries bundles all persistence operations behind a single handle.
type Queries struct {
	db DBTX
}

// New creates a Queries handle bound to a database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries handle that runs against the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
