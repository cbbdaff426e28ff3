package opportunity

import (
	"context"

	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// Searcher is the upstream opportunity search backend. *torre.Client implements it.
type Searcher interface {
	SearchOpportunities(ctx context.Context, expr torre.Expression, params *torre.Params) (*torre.ResultPage, error)
}

var _ Searcher = (*torre.Client)(nil)
