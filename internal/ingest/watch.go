package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Klingon-tech/mina-indexer/internal/log"
	"github.com/Klingon-tech/mina-indexer/pkg/block"
)

// DirSource watches a directory for `<network>-<length>-<hash>.json`
// precomputed-block files by polling, grounded on klingnet-chain's
// cmd/klingnetd mempool directory watcher (no fsnotify in the teacher's
// dependency surface, so this matches its poll-and-diff style rather than
// reaching for a new file-watching library for one call site).
type DirSource struct {
	dir      string
	interval time.Duration
	seen     map[string]struct{}
}

// NewDirSource returns a Source that polls dir every interval.
func NewDirSource(dir string, interval time.Duration) *DirSource {
	return &DirSource{dir: dir, interval: interval, seen: make(map[string]struct{})}
}

// Watch implements Source. The returned channel is unbuffered; a slow
// consumer backpressures the poll loop directly, satisfying spec.md §5's
// bounded-channel requirement without an explicit queue depth here (the
// bounded worker pool in pool.go is what actually owns queue depth).
func (s *DirSource) Watch(ctx context.Context) (<-chan BlockPath, error) {
	out := make(chan BlockPath)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			s.scanOnce(ctx, out)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out, nil
}

func (s *DirSource) scanOnce(ctx context.Context, out chan<- BlockPath) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Ingest.Warn().Err(err).Str("dir", s.dir).Msg("reading watch directory")
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := s.seen[name]; ok {
			continue
		}
		parts, err := block.ParseFilename(name)
		if err != nil {
			continue // not a precomputed-block file; ignore silently
		}
		s.seen[name] = struct{}{}
		select {
		case out <- BlockPath{Parts: parts, Path: filepath.Join(s.dir, name)}:
		case <-ctx.Done():
			return
		}
	}
}

// DiscoverSorted lists every precomputed-block file currently in dir,
// sorted by blockchain length then state hash, for the New replay mode's
// one-shot canonical-chain-discovery pass (spec §4.7): reading blocks in
// height order lets the witness tree extend its root branch forward
// without ever materializing a dangling branch during a cold replay.
func DiscoverSorted(dir string) ([]BlockPath, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", dir, err)
	}
	var paths []BlockPath
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		parts, err := block.ParseFilename(e.Name())
		if err != nil {
			continue
		}
		paths = append(paths, BlockPath{Parts: parts, Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Parts.Height != paths[j].Parts.Height {
			return paths[i].Parts.Height < paths[j].Parts.Height
		}
		return paths[i].Parts.Hash < paths[j].Parts.Hash
	})
	return paths, nil
}
