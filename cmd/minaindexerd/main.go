// Mina indexer daemon.
//
// Usage:
//
//	minaindexerd [options]  Run the indexer
//	minaindexerd --help     Show help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Klingon-tech/mina-indexer/config"
	"github.com/Klingon-tech/mina-indexer/internal/indexer"
	"github.com/Klingon-tech/mina-indexer/internal/ingest"
	"github.com/Klingon-tech/mina-indexer/internal/ipc"
	klog "github.com/Klingon-tech/mina-indexer/internal/log"
	"github.com/Klingon-tech/mina-indexer/internal/profiling"
	"github.com/Klingon-tech/mina-indexer/internal/query"
	"github.com/Klingon-tech/mina-indexer/internal/storage"
	"github.com/Klingon-tech/mina-indexer/internal/store"
	"github.com/Klingon-tech/mina-indexer/pkg/ledger"
)

func main() {
	// ── 1. Load config (defaults → file → flags) ────────────────────
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// ── 2. Init logger ───────────────────────────────────────────────
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logger := klog.Indexer

	// ── 3. Open the derived-view store ───────────────────────────────
	db, err := storage.NewBadger(cfg.StorePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("opening store")
	}
	st := store.Open(db)

	// ── 4. Bootstrap from the watch directory's earliest block ──────
	// New replay mode: a one-shot canonical-chain-discovery pass over
	// the feed, lowest height first (spec §4.7), so the first file
	// found seeds the witness tree's genesis.
	dec := ingest.JSONDecoder{}
	discovered, err := ingest.DiscoverSorted(cfg.WatchDir())
	if err != nil {
		logger.Fatal().Err(err).Msg("discovering precomputed-block feed")
	}
	if len(discovered) == 0 {
		logger.Fatal().Str("dir", cfg.WatchDir()).Msg("no precomputed blocks found to seed genesis")
	}
	genesis, err := dec.DecodePrecomputedBlock(discovered[0].Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", discovered[0].Path).Msg("decoding genesis block")
	}

	prof := profiling.New()
	idx, err := indexer.New(st, cfg.Chain, genesis, ledger.New(), prof)
	if err != nil {
		logger.Fatal().Err(err).Msg("constructing indexer")
	}

	// ── 5. Replay every remaining discovered block ───────────────────
	for _, bp := range discovered[1:] {
		pcb, err := dec.DecodePrecomputedBlock(bp.Path)
		if err != nil {
			logger.Error().Err(err).Str("path", bp.Path).Msg("decoding precomputed block during replay")
			continue
		}
		if err := idx.AddBlock(pcb); err != nil {
			logger.Error().Err(err).Str("path", bp.Path).Msg("applying precomputed block during replay")
		}
	}

	// ── 6. Context for the ingest pool and IPC server ─────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 7. Start watching for new blocks ──────────────────────────────
	src := ingest.NewDirSource(cfg.WatchDir(), 2*time.Second)
	go func() {
		err := ingest.Run(ctx, src, cfg.Ingest.WorkerCount, func(bp ingest.BlockPath) error {
			pcb, err := dec.DecodePrecomputedBlock(bp.Path)
			if err != nil {
				return err
			}
			return idx.AddBlock(pcb)
		})
		if err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("ingest pool exited")
		}
	}()

	// ── 8. Start the IPC server ───────────────────────────────────────
	exitCode := ipc.ExitClean
	if cfg.IPC.Enabled {
		srv, err := ipc.NewServer(cfg.SocketPath(), query.NewStoreReader(idx))
		if err != nil {
			logger.Fatal().Err(err).Msg("starting IPC server")
		}
		srv.Shutdown = cancel
		go func() {
			if err := srv.Serve(ctx); err != nil {
				logger.Error().Err(err).Msg("IPC server stopped")
			}
		}()
		defer srv.Close()
	}

	logger.Info().
		Str("tip", string(idx.BestTip().StateHash)).
		Uint32("height", uint32(idx.BestTip().BlockchainLength)).
		Msg("indexer started")

	// ── 9. Wait for shutdown ───────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		switch sig {
		case syscall.SIGTERM:
			exitCode = ipc.ExitSIGTERM
		case syscall.SIGINT:
			exitCode = ipc.ExitSIGINT
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested via IPC")
	}

	cancel()
	if err := idx.Close(); err != nil {
		logger.Error().Err(err).Msg("closing indexer")
	}
	os.Exit(int(exitCode))
}
