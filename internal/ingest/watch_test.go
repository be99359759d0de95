package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

func writeFixtureBlock(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
}

func TestDiscoverSortedOrdersByHeightThenHash(t *testing.T) {
	dir := t.TempDir()
	hashA := types.NewFixtureStateHash(1)
	hashB := types.NewFixtureStateHash(2)

	writeFixtureBlock(t, dir, "mainnet-2-"+string(hashA)+".json")
	writeFixtureBlock(t, dir, "mainnet-1-"+string(hashB)+".json")
	writeFixtureBlock(t, dir, "not-a-block.txt")

	paths, err := DiscoverSorted(dir)
	if err != nil {
		t.Fatalf("DiscoverSorted: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2", len(paths))
	}
	if paths[0].Parts.Height != 1 || paths[1].Parts.Height != 2 {
		t.Errorf("paths not sorted by height: %+v", paths)
	}
}

func TestDirSourceEmitsNewFilesOnly(t *testing.T) {
	dir := t.TempDir()
	hash := types.NewFixtureStateHash(5)
	writeFixtureBlock(t, dir, "mainnet-1-"+string(hash)+".json")

	src := NewDirSource(dir, 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	ch, err := src.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	select {
	case bp := <-ch:
		if bp.Parts.Height != 1 {
			t.Errorf("height = %d, want 1", bp.Parts.Height)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for discovered block")
	}

	cancel()
	for range ch {
		// drain until the watcher's goroutine closes it
	}
}
