package repo

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// assignRow copies values into dest pointers.
func assignRow(values ...any) simpleRow {
	return simpleRow{scan: func(dest ...any) error {
		if len(dest) != len(values) {
			return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
		}
		for i, v := range values {
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
		}
		return nil
	}}
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

type sliceRows struct {
	testRowsBase
	rows [][]any
	idx  int
}

func (r *sliceRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *sliceRows) Scan(dest ...any) error {
	return assignRow(r.rows[r.idx-1]...).Scan(dest...)
}

func (r *sliceRows) Err() error { return nil }

func (r *sliceRows) Close() {}

type call struct {
	query string
	args  []any
}

// fakeDB answers by matching a substring of the query text.
type fakeDB struct {
	rows   map[string][][]any
	row    map[string]simpleRow
	tag    pgconn.CommandTag
	execFn func(query string, args []any) error
	calls  []call
}

func (f *fakeDB) record(query string, args []any) {
	f.calls = append(f.calls, call{query: query, args: args})
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.record(query, args)
	if f.execFn != nil {
		if err := f.execFn(query, args); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return f.tag, nil
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.record(query, args)
	for key, row := range f.row {
		if strings.Contains(query, key) {
			return row
		}
	}
	return simpleRow{}
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.record(query, args)
	for key, rows := range f.rows {
		if strings.Contains(query, key) {
			return &sliceRows{rows: rows}, nil
		}
	}
	return &sliceRows{}, nil
}
