package handlers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Test doubles for the SQL surface so handler tests run without Postgres.

type SimpleRow struct {
	scan func(dest ...any) error
}

func NewSimpleRow(scanner func(dest ...any) error) SimpleRow {
	return SimpleRow{scan: scanner}
}

func (r SimpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type TestRowsBase struct{}

func (TestRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (TestRowsBase) Conn() *pgx.Conn { return nil }

func (TestRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (TestRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (TestRowsBase) RawValues() [][]byte { return nil }

// FakeSQL routes each call to configurable hooks, defaulting to no rows.
type FakeSQL struct {
	ExecFn     func(query string, args ...any) (pgconn.CommandTag, error)
	QueryRowFn func(query string, args ...any) pgx.Row
	QueryFn    func(query string, args ...any) (pgx.Rows, error)
}

func (f *FakeSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn == nil {
		return pgconn.CommandTag{}, nil
	}
	return f.ExecFn(query, args...)
}

func (f *FakeSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if f.QueryRowFn == nil {
		return NewSimpleRow(nil)
	}
	return f.QueryRowFn(query, args...)
}

func (f *FakeSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.QueryFn == nil {
		return nil, pgx.ErrNoRows
	}
	return f.QueryFn(query, args...)
}
