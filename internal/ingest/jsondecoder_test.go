package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSONDecoderDecodePrecomputedBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "block.json")
	body := `{"Network":"mainnet","BlockchainLength":105489,"GlobalSlot":150000}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	dec := JSONDecoder{}
	pcb, err := dec.DecodePrecomputedBlock(path)
	if err != nil {
		t.Fatalf("DecodePrecomputedBlock: %v", err)
	}
	if pcb.Network != "mainnet" {
		t.Errorf("network = %q, want mainnet", pcb.Network)
	}
	if pcb.BlockchainLength != 105489 {
		t.Errorf("blockchain length = %d, want 105489", pcb.BlockchainLength)
	}
}

func TestJSONDecoderDecodePrecomputedBlockMissingFile(t *testing.T) {
	dec := JSONDecoder{}
	if _, err := dec.DecodePrecomputedBlock(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("want error for missing file, got nil")
	}
}
