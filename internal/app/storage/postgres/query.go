package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/neetprep/service_layer/internal/app/storage"
)

// Select starts a select chain against the store's database.
func (s *Store) Select(columns ...string) storage.FromStage {
	return &selectQuery{db: s.db, columns: columns}
}

type selectQuery struct {
	db      *sqlx.DB
	columns []string
	table   string
	pred    storage.Eq
}

func (q *selectQuery) From(table string) storage.WhereStage {
	q.table = table
	return q
}

func (q *selectQuery) Where(pred storage.Eq) storage.LimitStage {
	q.pred = pred
	return q
}

func (q *selectQuery) Limit(ctx context.Context, n int) ([]storage.Row, error) {
	query, args, err := q.build(n)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []storage.Row
	for rows.Next() {
		row := storage.Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// build renders the statement. Identifiers are quoted, values are bound.
func (q *selectQuery) build(n int) (string, []any, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("select: table is required")
	}
	if n <= 0 {
		return "", nil, fmt.Errorf("select: limit must be positive, got %d", n)
	}

	cols := "*"
	if len(q.columns) > 0 {
		quoted := make([]string, len(q.columns))
		for i, col := range q.columns {
			quoted[i] = pq.QuoteIdentifier(col)
		}
		cols = strings.Join(quoted, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, pq.QuoteIdentifier(q.table))

	args := []any{}
	if len(q.pred) > 0 {
		clauses := make([]string, 0, len(q.pred))
		for i, col := range q.pred.Columns() {
			clauses = append(clauses, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1))
			args = append(args, q.pred[col])
		}
		fmt.Fprintf(&b, " WHERE %s", strings.Join(clauses, " AND "))
	}
	fmt.Fprintf(&b, " LIMIT %d", n)
	return b.String(), args, nil
}
