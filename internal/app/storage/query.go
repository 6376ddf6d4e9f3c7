package storage

import (
	"context"
	"fmt"
	"sort"
)

// Querier starts a select chain. Each stage exposes only the next one, so a
// chain always reads Select(...).From(...).Where(...).Limit(...).
type Querier interface {
	Select(columns ...string) FromStage
}

// FromStage names the table to read.
type FromStage interface {
	From(table string) WhereStage
}

// WhereStage filters rows.
type WhereStage interface {
	Where(pred Eq) LimitStage
}

// LimitStage executes the query, returning at most n rows.
type LimitStage interface {
	Limit(ctx context.Context, n int) ([]Row, error)
}

// Row is one result row keyed by column name.
type Row map[string]any

// Int64 returns column as an int64. Postgres drivers may hand back any
// integer width, so the common ones are normalised.
func (r Row) Int64(column string) (int64, error) {
	switch v := r[column].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case nil:
		return 0, fmt.Errorf("column %s missing", column)
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", column, v)
	}
}

// Eq is an equality predicate, ANDed across columns.
type Eq map[string]any

// Columns returns the predicate's columns in a stable order.
func (e Eq) Columns() []string {
	cols := make([]string, 0, len(e))
	for col := range e {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
