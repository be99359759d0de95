package config

// DefaultMainnet returns the default indexer configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Ingest: IngestConfig{
			WorkerCount: 4,
			QueueDepth:  64,
		},
		Chain: ChainConfig{
			TransitionFrontierK: 290,
			CanonicalThreshold:  10,
		},
		IPC: IPCConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultDevnet returns the default indexer configuration for devnet.
func DefaultDevnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Devnet
	return cfg
}

// Default returns the default indexer configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Devnet:
		return DefaultDevnet()
	default:
		return DefaultMainnet()
	}
}
