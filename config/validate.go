package config

import "fmt"

// Validate checks the indexer config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Devnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Devnet)
	}
	if cfg.Ingest.WorkerCount < 1 {
		return fmt.Errorf("ingest.workers must be at least 1")
	}
	if cfg.Ingest.QueueDepth < 1 {
		return fmt.Errorf("ingest.queuedepth must be at least 1")
	}
	if cfg.Chain.TransitionFrontierK == 0 {
		return fmt.Errorf("chain.transitionfrontierk must be positive")
	}
	return nil
}
