package remote

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
)

// aggregateBulkGetter fetches the index space [0, n) in pages of pageSize,
// up to limit pages at a time, and concatenates the pages in index order.
// r receives the fraction of indices fetched after every page; reports are
// serialized so the fractions it sees never decrease.
func aggregateBulkGetter[T any](
	ctx context.Context,
	n, pageSize, limit int,
	r progress.Reporter,
	getPage func(ctx context.Context, lo, hi int) ([]T, error),
) ([]T, error) {
	if n <= 0 {
		r.Report(1)
		return nil, nil
	}
	r.Report(0)

	pages := make([][]T, (n+pageSize-1)/pageSize)
	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range pages {
		lo := i * pageSize
		hi := min(lo+pageSize, n)
		g.Go(func() error {
			page, err := getPage(ctx, lo, hi)
			if err != nil {
				return err
			}
			pages[i] = page
			mu.Lock()
			done += hi - lo
			r.Report(progress.Fraction(done, n))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := 0
	for _, p := range pages {
		size += len(p)
	}
	out := make([]T, 0, size)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}

// aggregateRange fetches [start, end) of an append-only list.
func aggregateRange[T any](
	ctx context.Context,
	c *Client,
	start, end int,
	r progress.Reporter,
	getRange func(ctx context.Context, lo, hi int) ([]T, error),
) ([]T, error) {
	return aggregateBulkGetter(ctx, end-start, c.cfg.PageSize, c.cfg.Concurrency, r,
		func(ctx context.Context, lo, hi int) ([]T, error) {
			return getRange(ctx, start+lo, start+hi)
		})
}

// aggregateByIDs looks ids up in batches. Every batch result must be
// aligned with its ids.
func aggregateByIDs[T any](
	ctx context.Context,
	c *Client,
	what string,
	ids []string,
	r progress.Reporter,
	lookup func(ctx context.Context, batch []string) ([]T, error),
) ([]T, error) {
	return aggregateBulkGetter(ctx, len(ids), c.cfg.PageSize, c.cfg.Concurrency, r,
		func(ctx context.Context, lo, hi int) ([]T, error) {
			batch := ids[lo:hi]
			out, err := lookup(ctx, batch)
			if err != nil {
				return nil, err
			}
			if len(out) != len(batch) {
				return nil, domain.ErrResultMisaligned.WithDetails(
					fmt.Sprintf("%s: %d results for %d ids", what, len(out), len(batch)))
			}
			return out, nil
		})
}
