package inst

import (
	"context"
	"runtime"

	"github.com/calder-lang/mono/pkg/mono"
	"github.com/calder-lang/mono/pkg/mono/bind"
	"golang.org/x/sync/errgroup"
)

// GenerateAll specializes a batch of bindings, generating unrelated keys in
// parallel. No ordering dependency exists between distinct keys, so the only
// synchronization point is cache insertion. Parallelism comes from
// mono.WithGenerateParallelism, defaulting to the CPU count. The returned
// slice matches the input order.
func (c *Cache) GenerateAll(ctx context.Context, bindings []bind.Binding) ([]*Record, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mono.GetGenerateParallelism(ctx, runtime.NumCPU()))

	out := make([]*Record, len(bindings))
	for i, b := range bindings {
		g.Go(func() error {
			rec, err := c.GetOrCreateAt(gctx, b, Site{Note: "batch"})
			if err != nil {
				return err
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
