package query

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run executes the builder's data query and its count concurrently against
// c. Either both succeed or the first failure is returned unchanged.
func Run(ctx context.Context, c Collection, b Builder) ([]Document, Summary, error) {
	if err := b.Err(); err != nil {
		return nil, Summary{}, err
	}

	var (
		docs    []Document
		summary Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = c.Find(gctx, b.Query())
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = b.CountTotal(gctx, c)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, summary, nil
}
