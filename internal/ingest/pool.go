package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/mina-indexer/internal/log"
)

// Run decodes and applies every path a Source emits until ctx is
// cancelled or the source channel closes. apply is called once per
// successfully decoded block, from one of Run's bounded worker
// goroutines — callers whose apply function is not safe for concurrent
// use (spec.md §5 requires a single AddBlock producer) must serialize it
// themselves, e.g. with a mutex, exactly as internal/indexer.Indexer does
// internally.
func Run(ctx context.Context, src Source, workers int, apply func(path BlockPath) error) error {
	ch, err := src.Watch(ctx)
	if err != nil {
		return fmt.Errorf("ingest: starting source: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for {
		select {
		case <-gctx.Done():
			return g.Wait()
		case path, ok := <-ch:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				if err := apply(path); err != nil {
					log.Ingest.Error().Err(err).Str("path", path.Path).Msg("applying ingested block")
					return err
				}
				return nil
			})
		}
	}
}
