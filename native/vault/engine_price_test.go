package vault

import (
	"errors"
	"testing"

	"gusd/crypto"
)

func TestUpdatePriceWithinBound(t *testing.T) {
	engine, state, _, admin := newTestEngine(t)

	// A 20% move on 1_000_000 allows a delta of exactly 200_000.
	if err := engine.UpdatePrice(admin, 1_200_000, testInitialTs+1); err != nil {
		t.Fatalf("update at the exact bound: %v", err)
	}
	if state.protocol.PriceUSD != 1_200_000 {
		t.Fatalf("price = %d, want 1200000", state.protocol.PriceUSD)
	}
	if state.protocol.LastPriceUpdate != testInitialTs+1 {
		t.Fatalf("last update ts = %d, want %d", state.protocol.LastPriceUpdate, testInitialTs+1)
	}

	if err := engine.UpdatePrice(admin, 1_440_001, testInitialTs+2); !errors.Is(err, ErrPriceChangeExceedsLimit) {
		t.Fatalf("expected ErrPriceChangeExceedsLimit one past the bound, got %v", err)
	}
	// The rejection must leave the stored price and timestamp untouched.
	if state.protocol.PriceUSD != 1_200_000 || state.protocol.LastPriceUpdate != testInitialTs+1 {
		t.Fatalf("rejected update mutated state: %+v", state.protocol)
	}
	if err := engine.UpdatePrice(admin, 1_440_000, testInitialTs+2); err != nil {
		t.Fatalf("update at the exact bound: %v", err)
	}
}

func TestUpdatePriceDownwardBound(t *testing.T) {
	engine, _, _, admin := newTestEngine(t)

	if err := engine.UpdatePrice(admin, 799_999, testInitialTs+1); !errors.Is(err, ErrPriceChangeExceedsLimit) {
		t.Fatalf("expected ErrPriceChangeExceedsLimit on a 20.0001%% drop, got %v", err)
	}
	if err := engine.UpdatePrice(admin, 800_000, testInitialTs+1); err != nil {
		t.Fatalf("20%% drop: %v", err)
	}
}

func TestUpdatePriceRateLimited(t *testing.T) {
	engine, _, _, admin := newTestEngine(t)

	if err := engine.UpdatePrice(admin, 1_100_000, testInitialTs); !errors.Is(err, ErrPriceUpdateTooFrequent) {
		t.Fatalf("expected ErrPriceUpdateTooFrequent in the same second, got %v", err)
	}
	if err := engine.UpdatePrice(admin, 1_100_000, testInitialTs+1); err != nil {
		t.Fatalf("update one second later: %v", err)
	}
}

func TestUpdatePriceAuthorization(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	outsider := makeAddress(crypto.GorPrefix, 0x40)

	if err := engine.UpdatePrice(outsider, 1_100_000, testInitialTs+1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdatePriceRejectsZero(t *testing.T) {
	engine, _, _, admin := newTestEngine(t)

	if err := engine.UpdatePrice(admin, 0, testInitialTs+1); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestUpdatePriceTinyPricesRetainMovement(t *testing.T) {
	state := newMockEngineState()
	engine := NewEngine(state, newMockLedger())
	admin := makeAddress(crypto.GorPrefix, 0x01)
	mint := makeAddress(crypto.GorPrefix, 0x02)
	if err := engine.Initialize(admin, mint, 1, testInitialTs); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// 20% of 1 rounds up to an allowed delta of 1, so a unit price can
	// still step to 2 instead of being frozen in place.
	if err := engine.UpdatePrice(admin, 2, testInitialTs+1); err != nil {
		t.Fatalf("unit price step: %v", err)
	}
	if err := engine.UpdatePrice(admin, 4, testInitialTs+2); !errors.Is(err, ErrPriceChangeExceedsLimit) {
		t.Fatalf("expected ErrPriceChangeExceedsLimit on a doubling past the bound, got %v", err)
	}
}
