package block

import (
	"testing"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

func TestParseFilename(t *testing.T) {
	hash := types.NewFixtureStateHash(7)
	name := "mainnet-105489-" + string(hash) + ".json"

	parts, err := ParseFilename(name)
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if parts.Network != "mainnet" {
		t.Errorf("network = %q, want mainnet", parts.Network)
	}
	if parts.Height != 105489 {
		t.Errorf("height = %d, want 105489", parts.Height)
	}
	if parts.Hash != hash {
		t.Errorf("hash = %q, want %q", parts.Hash, hash)
	}
}

func TestParseFilenameRejectsBadShape(t *testing.T) {
	cases := []string{
		"mainnet-105489.json",
		"mainnet-abc-" + string(types.NewFixtureStateHash(1)) + ".json",
		"mainnet-105489-notahash.json",
		"mainnet-105489-" + string(types.NewFixtureStateHash(1)) + ".txt",
	}
	for _, name := range cases {
		if _, err := ParseFilename(name); err == nil {
			t.Errorf("ParseFilename(%q): want error, got nil", name)
		}
	}
}

func TestParseLedgerFilename(t *testing.T) {
	hash := types.NewFixtureLedgerHash(3)
	name := "mainnet-42-" + string(hash) + ".json"

	parts, err := ParseLedgerFilename(name)
	if err != nil {
		t.Fatalf("ParseLedgerFilename: %v", err)
	}
	if parts.Network != "mainnet" {
		t.Errorf("network = %q, want mainnet", parts.Network)
	}
	if parts.Epoch != 42 {
		t.Errorf("epoch = %d, want 42", parts.Epoch)
	}
	if parts.Hash != hash {
		t.Errorf("hash = %q, want %q", parts.Hash, hash)
	}
}

func TestParseLedgerFilenameRejectsBadShape(t *testing.T) {
	if _, err := ParseLedgerFilename("mainnet-42.json"); err == nil {
		t.Error("want error for missing field, got nil")
	}
	if _, err := ParseLedgerFilename("mainnet-notanepoch-" + string(types.NewFixtureLedgerHash(1)) + ".json"); err == nil {
		t.Error("want error for non-numeric epoch, got nil")
	}
}
