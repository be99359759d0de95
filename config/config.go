// Package config handles application configuration for the indexer
// daemon: where to watch for precomputed blocks, where the derived-view
// store lives, and how deep the confirmed-prefix and pruning windows are.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies which Mina-protocol network a feed belongs to.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Devnet  NetworkType = "devnet"
)

// Config holds the indexer daemon's runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Ingest
	Ingest IngestConfig

	// Witness tree / canonicity
	Chain ChainConfig

	// IPC server
	IPC IPCConfig

	// Logging
	Log LogConfig

	// Maintenance (not persisted in config file)
	RebuildIndexes bool
}

// IngestConfig controls where the indexer watches for precomputed-block
// and staking-ledger JSON files.
type IngestConfig struct {
	WatchDir         string `conf:"ingest.watchdir"`
	StakingLedgerDir string `conf:"ingest.stakingledgerdir"`
	WorkerCount      int    `conf:"ingest.workers"`
	QueueDepth       int    `conf:"ingest.queuedepth"`
}

// ChainConfig controls the witness tree's pruning depth and the
// canonicity engine's confirmation threshold.
type ChainConfig struct {
	TransitionFrontierK uint32 `conf:"chain.transitionfrontierk"`
	CanonicalThreshold  uint32 `conf:"chain.canonicalthreshold"`
}

// IPCConfig controls the local Unix-socket query server.
type IPCConfig struct {
	Enabled    bool   `conf:"ipc.enabled"`
	SocketPath string `conf:"ipc.socketpath"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.mina-indexer
//	macOS:   ~/Library/Application Support/MinaIndexer
//	Windows: %APPDATA%\MinaIndexer
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mina-indexer"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MinaIndexer")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "MinaIndexer")
		}
		return filepath.Join(home, "AppData", "Roaming", "MinaIndexer")
	default:
		return filepath.Join(home, ".mina-indexer")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// StorePath returns the derived-view KV store directory.
func (c *Config) StorePath() string {
	return filepath.Join(c.NetworkDataDir(), "store")
}

// WatchDir returns the precomputed-block feed directory, defaulting to a
// subdirectory of the network data dir when unset.
func (c *Config) WatchDir() string {
	if c.Ingest.WatchDir != "" {
		return c.Ingest.WatchDir
	}
	return filepath.Join(c.NetworkDataDir(), "blocks")
}

// StakingLedgerDir returns the staking-ledger feed directory.
func (c *Config) StakingLedgerDir() string {
	if c.Ingest.StakingLedgerDir != "" {
		return c.Ingest.StakingLedgerDir
	}
	return filepath.Join(c.NetworkDataDir(), "staking-ledgers")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "mina-indexer.conf")
}

// SocketPath returns the IPC socket path, defaulting to a file in the
// network data dir when unset.
func (c *Config) SocketPath() string {
	if c.IPC.SocketPath != "" {
		return c.IPC.SocketPath
	}
	return filepath.Join(c.NetworkDataDir(), "indexer.sock")
}
