package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Klingon-tech/mina-indexer/pkg/block"
)

type fakeSource struct {
	paths []BlockPath
}

func (s *fakeSource) Watch(ctx context.Context) (<-chan BlockPath, error) {
	ch := make(chan BlockPath, len(s.paths))
	for _, p := range s.paths {
		ch <- p
	}
	close(ch)
	return ch, nil
}

func TestRunAppliesEveryPath(t *testing.T) {
	src := &fakeSource{paths: []BlockPath{
		{Parts: block.FilenameParts{Height: 1}, Path: "a"},
		{Parts: block.FilenameParts{Height: 2}, Path: "b"},
		{Parts: block.FilenameParts{Height: 3}, Path: "c"},
	}}

	var mu sync.Mutex
	var applied []string
	apply := func(p BlockPath) error {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, p.Path)
		return nil
	}

	if err := Run(context.Background(), src, 2, apply); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(applied) != 3 {
		t.Fatalf("applied %d paths, want 3", len(applied))
	}
}

func TestRunPropagatesApplyError(t *testing.T) {
	src := &fakeSource{paths: []BlockPath{{Parts: block.FilenameParts{Height: 1}, Path: "a"}}}

	wantErr := errors.New("boom")
	err := Run(context.Background(), src, 1, func(p BlockPath) error { return wantErr })
	if err == nil {
		t.Fatal("Run: want error, got nil")
	}
}
