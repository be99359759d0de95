package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Ingest
	WatchDir         string
	StakingLedgerDir string
	Workers          int
	QueueDepth       int

	// Chain
	TransitionFrontierK uint
	CanonicalThreshold  uint

	// IPC
	IPC        bool
	SocketPath string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetIPC     bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("mina-indexer", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or devnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	fs.StringVar(&f.WatchDir, "watch-dir", "", "Precomputed-block feed directory")
	fs.StringVar(&f.StakingLedgerDir, "staking-ledger-dir", "", "Staking-ledger feed directory")
	fs.IntVar(&f.Workers, "ingest-workers", 0, "Bounded ingest worker pool size")
	fs.IntVar(&f.QueueDepth, "ingest-queue-depth", 0, "Ingest channel buffer depth")

	fs.UintVar(&f.TransitionFrontierK, "transition-frontier-k", 0, "Pruning depth (blocks behind best tip)")
	fs.UintVar(&f.CanonicalThreshold, "canonical-threshold", 0, "Confirmation depth for the canonical-prefix cache")

	fs.BoolVar(&f.IPC, "ipc", true, "Enable the local IPC socket server")
	fs.StringVar(&f.SocketPath, "ipc-socket", "", "IPC socket path")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.Usage = func() { printUsage() }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	f.SetIPC = isFlagSet(fs, "ipc")
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()

	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "Error: flag %q was not parsed (positional argument stopped parsing)\n", arg)
			os.Exit(1)
		}
	}

	return f
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	if f.WatchDir != "" {
		cfg.Ingest.WatchDir = f.WatchDir
	}
	if f.StakingLedgerDir != "" {
		cfg.Ingest.StakingLedgerDir = f.StakingLedgerDir
	}
	if f.Workers != 0 {
		cfg.Ingest.WorkerCount = f.Workers
	}
	if f.QueueDepth != 0 {
		cfg.Ingest.QueueDepth = f.QueueDepth
	}

	if f.TransitionFrontierK != 0 {
		cfg.Chain.TransitionFrontierK = uint32(f.TransitionFrontierK)
	}
	if f.CanonicalThreshold != 0 {
		cfg.Chain.CanonicalThreshold = uint32(f.CanonicalThreshold)
	}

	if f.SetIPC {
		cfg.IPC.Enabled = f.IPC
	}
	if f.SocketPath != "" {
		cfg.IPC.SocketPath = f.SocketPath
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	usage := `mina-indexer - precomputed-block witness-tree indexer

Usage:
  minaindexerd [options]
  minaindexerd --help

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

Core Options:
  --network              Network type: mainnet (default) or devnet
  --datadir              Data directory (default: ~/.mina-indexer)
  --config, -c           Config file path (default: <datadir>/mina-indexer.conf)

Ingest Options:
  --watch-dir            Precomputed-block feed directory
  --staking-ledger-dir   Staking-ledger feed directory
  --ingest-workers       Bounded ingest worker pool size (default: 4)
  --ingest-queue-depth   Ingest channel buffer depth (default: 64)

Chain Options:
  --transition-frontier-k  Pruning depth in blocks behind the best tip (default: 290)
  --canonical-threshold    Confirmation depth for the canonical-prefix cache (default: 10)

IPC Options:
  --ipc           Enable the local IPC socket server (default: true)
  --ipc-socket    IPC socket path (default: <datadir>/<network>/indexer.sock)

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON

Examples:
  # Start indexing mainnet
  minaindexerd --watch-dir=/data/mina-blocks

  # Start with a custom data directory
  minaindexerd --datadir=/path/to/data
`
	fmt.Print(usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("minaindexerd version 0.1.0")
		os.Exit(0)
	}

	network := Mainnet
	if strings.ToLower(flags.Network) == "devnet" {
		network = Devnet
	}

	cfg := Default(network)

	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default
// config file if they don't already exist. Idempotent.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.StorePath(),
		cfg.WatchDir(),
		cfg.StakingLedgerDir(),
		cfg.LogsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
