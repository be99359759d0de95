package config

import "testing"

func TestApplyFlagsOverridesOnlySetFields(t *testing.T) {
	cfg := DefaultMainnet()
	f := &Flags{
		Network:    "devnet",
		Workers:    12,
		SetIPC:     true,
		IPC:        false,
		SetLogJSON: true,
		LogJSON:    true,
	}
	ApplyFlags(cfg, f)

	if cfg.Network != Devnet {
		t.Errorf("Network = %v, want Devnet", cfg.Network)
	}
	if cfg.Ingest.WorkerCount != 12 {
		t.Errorf("WorkerCount = %d, want 12", cfg.Ingest.WorkerCount)
	}
	if cfg.IPC.Enabled {
		t.Error("IPC.Enabled = true, want false")
	}
	if !cfg.Log.JSON {
		t.Error("Log.JSON = false, want true")
	}
	// QueueDepth was never set on f, so the default must survive.
	if cfg.Ingest.QueueDepth != DefaultMainnet().Ingest.QueueDepth {
		t.Errorf("QueueDepth = %d, want unchanged default", cfg.Ingest.QueueDepth)
	}
}

func TestApplyFlagsLeavesIPCAloneWhenNotExplicitlySet(t *testing.T) {
	cfg := DefaultMainnet()
	want := cfg.IPC.Enabled
	ApplyFlags(cfg, &Flags{IPC: false, SetIPC: false})
	if cfg.IPC.Enabled != want {
		t.Errorf("IPC.Enabled = %v, want unchanged %v", cfg.IPC.Enabled, want)
	}
}

func TestEnsureDataDirsIsIdempotent(t *testing.T) {
	cfg := DefaultMainnet()
	cfg.DataDir = t.TempDir()

	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs (first): %v", err)
	}
	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs (second): %v", err)
	}
}
