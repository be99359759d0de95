package types

import "testing"

func fixturePublicKey(t *testing.T, seed byte) string {
	t.Helper()
	for n := 1; n <= 80; n++ {
		raw := make([]byte, n)
		for i := range raw {
			raw[i] = seed + byte(i) + 1
		}
		full := publicKeyPrefix + encodeBase58Check(raw)
		if len(full) == PublicKeyLen {
			return full
		}
	}
	t.Fatalf("could not find a payload length producing a %d-char public key", PublicKeyLen)
	return ""
}

func TestPublicKeyRoundTrip(t *testing.T) {
	full := fixturePublicKey(t, 0)

	k, err := NewPublicKey(full)
	if err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}
	data, err := k.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var k2 PublicKey
	if err := k2.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if k2 != k {
		t.Errorf("round trip mismatch: got %q, want %q", k2, k)
	}
}

func TestPublicKeyRejectsBadPrefix(t *testing.T) {
	full := fixturePublicKey(t, 3)
	bad := "XXXX" + full[4:]
	if _, err := NewPublicKey(bad); err == nil {
		t.Fatal("expected error for bad prefix")
	}
}

func TestTokenAddressIsMina(t *testing.T) {
	var zero TokenAddress
	if !zero.IsMina() {
		t.Error("zero-value TokenAddress should be treated as the native token")
	}
	if !MinaTokenAddress.IsMina() {
		t.Error("MinaTokenAddress should report IsMina")
	}
	other := TokenAddress("wSomeOtherToken")
	if other.IsMina() {
		t.Error("non-native token address should not report IsMina")
	}
}
