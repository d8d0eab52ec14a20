package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()

	encoded := addr.String()
	if !strings.HasPrefix(encoded, string(GorPrefix)) {
		t.Fatalf("encoded address %q missing prefix %q", encoded, GorPrefix)
	}
	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode address: %v", err)
	}
	if !decoded.Equal(addr) {
		t.Fatalf("round trip mismatch: %q != %q", decoded.String(), encoded)
	}
}

func TestDecodeAddressRejectsBadInput(t *testing.T) {
	if _, err := DecodeAddress("not-bech32"); err == nil {
		t.Fatalf("expected error for malformed input")
	}
	if _, err := DecodeAddress(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestZeroAddressSemantics(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Fatalf("empty address must report zero")
	}
	allZero := NewAddress(GorPrefix, make([]byte, 20))
	if !allZero.IsZero() {
		t.Fatalf("all-zero bytes must report zero")
	}
	if zero.Equal(zero) {
		t.Fatalf("unset addresses must never compare equal")
	}
}

func TestDeriveEscrowAddress(t *testing.T) {
	raw := make([]byte, 20)
	raw[19] = 0x10
	owner := NewAddress(GorPrefix, raw)

	escrow := DeriveEscrowAddress(owner)
	if escrow.Prefix() != EscrowPrefix {
		t.Fatalf("escrow prefix = %q, want %q", escrow.Prefix(), EscrowPrefix)
	}
	if escrow.Equal(owner) {
		t.Fatalf("escrow address must differ from the owner")
	}

	// Derivation is deterministic per owner and distinct across owners.
	again := DeriveEscrowAddress(owner)
	if !bytes.Equal(escrow.Bytes(), again.Bytes()) {
		t.Fatalf("derivation not deterministic")
	}
	raw2 := make([]byte, 20)
	raw2[19] = 0x11
	other := DeriveEscrowAddress(NewAddress(GorPrefix, raw2))
	if bytes.Equal(escrow.Bytes(), other.Bytes()) {
		t.Fatalf("distinct owners derived the same escrow address")
	}

	key, err := PrivateKeyFromBytes(bytes.Repeat([]byte{0x01}, 32))
	if err != nil {
		t.Fatalf("private key from bytes: %v", err)
	}
	if key.PubKey().Address().Prefix() != GorPrefix {
		t.Fatalf("key-derived address must carry the account prefix")
	}
}
