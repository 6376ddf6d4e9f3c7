// Package querytest provides a test double for storage.Querier.
package querytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/neetprep/service_layer/internal/app/storage"
)

// Chain stands in for a database client. Select, From and Where record their
// arguments and hand back the next stage. Limit is a testify mock call, so a
// test configures its result with OnLimit and an unconfigured call fails the
// test.
type Chain struct {
	mock.Mock

	Columns []string
	Table   string
	Pred    storage.Eq
}

var _ storage.Querier = (*Chain)(nil)

// New returns a Chain whose expectations are asserted when t finishes.
func New(t testing.TB) *Chain {
	c := &Chain{}
	c.Test(t)
	t.Cleanup(func() { c.AssertExpectations(t) })
	return c
}

// OnLimit configures the rows and error returned by the terminal Limit call.
func (c *Chain) OnLimit(rows []storage.Row, err error) *mock.Call {
	return c.On("Limit", mock.Anything, mock.Anything).Return(rows, err)
}

func (c *Chain) Select(columns ...string) storage.FromStage {
	c.Columns = columns
	return fromStage{c}
}

type fromStage struct{ c *Chain }

func (s fromStage) From(table string) storage.WhereStage {
	s.c.Table = table
	return whereStage(s)
}

type whereStage struct{ c *Chain }

func (s whereStage) Where(pred storage.Eq) storage.LimitStage {
	s.c.Pred = pred
	return limitStage(s)
}

type limitStage struct{ c *Chain }

func (s limitStage) Limit(ctx context.Context, n int) ([]storage.Row, error) {
	args := s.c.Called(ctx, n)
	var rows []storage.Row
	if v := args.Get(0); v != nil {
		rows = v.([]storage.Row)
	}
	return rows, args.Error(1)
}
