package vault

import (
	"errors"
	"testing"

	"gusd/crypto"
)

// underwaterVault opens a vault worth $10.00 carrying 6_000_000 micro-USD of
// debt, then drops the collateral price to put it below the liquidation
// threshold.
func underwaterVault(t *testing.T, engine *Engine, ledger *mockLedger, admin crypto.Address, price uint64) crypto.Address {
	t.Helper()
	owner := fundedVault(t, engine, ledger, 0x10, tenGor)
	if err := engine.Deposit(owner, tenGor); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := engine.Mint(owner, 6_000_000); err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Walk the price down in admin steps so each stays within the per-update
	// change bound.
	now := testInitialTs
	current := testPrice
	for current > price {
		maxDelta, err := mulDivCeil(current, MaxPriceChangeBps, BpsDenominator)
		if err != nil {
			t.Fatalf("mulDivCeil: %v", err)
		}
		next := price
		if current-price > maxDelta {
			next = current - maxDelta
		}
		now++
		if err := engine.UpdatePrice(admin, next, now); err != nil {
			t.Fatalf("update price to %d: %v", next, err)
		}
		current = next
	}
	return owner
}

func TestLiquidateFullDebt(t *testing.T) {
	engine, state, ledger, admin := newTestEngine(t)
	owner := underwaterVault(t, engine, ledger, admin, 700_000)

	liquidator := makeAddress(crypto.GorPrefix, 0x30)
	ledger.stable[ledger.key(liquidator)] = 6_000_000

	// Collateral value at $0.70 is 7_000_000; the vault's 6_000_000 debt
	// sits comfortably under maxRepay (7_000_000 * 10000 / 11000), so the
	// whole debt clears. Seizure is the repay plus the 10% bonus, converted
	// back to collateral units.
	repaid, seized, err := engine.Liquidate(liquidator, owner)
	if err != nil {
		t.Fatalf("liquidate: %v", err)
	}
	if repaid != 6_000_000 {
		t.Fatalf("repaid = %d, want 6000000", repaid)
	}
	if seized != 9_428_571_428 {
		t.Fatalf("seized = %d, want 9428571428", seized)
	}

	if got := ledger.stable[ledger.key(liquidator)]; got != 0 {
		t.Fatalf("liquidator stable balance = %d, want 0", got)
	}
	if got := ledger.collateral[ledger.key(liquidator)]; got != 9_428_571_428 {
		t.Fatalf("liquidator collateral = %d, want 9428571428", got)
	}

	vault := state.vaults[state.key(owner)]
	if vault.Debt != 0 {
		t.Fatalf("vault debt after liquidation = %d, want 0", vault.Debt)
	}
	if vault.Collateral != tenGor-9_428_571_428 {
		t.Fatalf("vault collateral after liquidation = %d, want %d", vault.Collateral, tenGor-9_428_571_428)
	}
	if state.protocol.TotalDebt != 0 {
		t.Fatalf("protocol total debt = %d, want 0", state.protocol.TotalDebt)
	}
	if state.protocol.TotalCollateral != tenGor-9_428_571_428 {
		t.Fatalf("protocol total collateral = %d, want %d", state.protocol.TotalCollateral, tenGor-9_428_571_428)
	}
}

func TestLiquidatePartialWhenCollateralCannotCoverDebt(t *testing.T) {
	engine, state, ledger, admin := newTestEngine(t)
	owner := underwaterVault(t, engine, ledger, admin, 500_000)

	liquidator := makeAddress(crypto.GorPrefix, 0x30)
	ledger.stable[ledger.key(liquidator)] = 6_000_000

	// Collateral value at $0.50 is 5_000_000 against 6_000_000 of debt.
	// maxRepay caps the repayment at 5_000_000 * 10000 / 11000 = 4_545_454
	// so the bonus-adjusted seizure never exceeds the vault's holdings.
	repaid, seized, err := engine.Liquidate(liquidator, owner)
	if err != nil {
		t.Fatalf("liquidate: %v", err)
	}
	if repaid != 4_545_454 {
		t.Fatalf("repaid = %d, want 4545454", repaid)
	}
	// 4_545_454 * 11000 / 10000 = 4_999_999 micro-USD of collateral, which
	// is 9_999_998_000 base units at $0.50.
	if seized != 9_999_998_000 {
		t.Fatalf("seized = %d, want 9999998000", seized)
	}

	vault := state.vaults[state.key(owner)]
	if vault.Debt != 6_000_000-4_545_454 {
		t.Fatalf("remaining debt = %d, want %d", vault.Debt, 6_000_000-4_545_454)
	}
	if vault.Collateral != tenGor-9_999_998_000 {
		t.Fatalf("remaining collateral = %d, want %d", vault.Collateral, tenGor-9_999_998_000)
	}
}

func TestLiquidateRejectsHealthyVault(t *testing.T) {
	engine, _, ledger, _ := newTestEngine(t)
	owner := fundedVault(t, engine, ledger, 0x10, tenGor)
	if err := engine.Deposit(owner, tenGor); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := engine.Mint(owner, 6_000_000); err != nil {
		t.Fatalf("mint: %v", err)
	}

	liquidator := makeAddress(crypto.GorPrefix, 0x30)
	if _, _, err := engine.Liquidate(liquidator, owner); !errors.Is(err, ErrVaultNotLiquidatable) {
		t.Fatalf("expected ErrVaultNotLiquidatable at 16666 bps, got %v", err)
	}
}

func TestLiquidateRejectsAtExactThreshold(t *testing.T) {
	engine, _, ledger, admin := newTestEngine(t)
	// Price $0.72 puts the value at exactly 7_200_000 against 6_000_000 of
	// debt: 12000 bps on the nose, which is still not liquidatable.
	owner := underwaterVault(t, engine, ledger, admin, 720_000)

	health, err := engine.Health(owner)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.RatioBps != LiquidationThresholdBps {
		t.Fatalf("ratio = %d bps, want exactly %d", health.RatioBps, LiquidationThresholdBps)
	}
	if health.IsLiquidatable {
		t.Fatalf("vault at the exact threshold reported liquidatable")
	}

	liquidator := makeAddress(crypto.GorPrefix, 0x30)
	if _, _, err := engine.Liquidate(liquidator, owner); !errors.Is(err, ErrVaultNotLiquidatable) {
		t.Fatalf("expected ErrVaultNotLiquidatable at the threshold, got %v", err)
	}
}

func TestLiquidateRejectsDebtFreeVault(t *testing.T) {
	engine, _, ledger, _ := newTestEngine(t)
	owner := fundedVault(t, engine, ledger, 0x10, tenGor)
	if err := engine.Deposit(owner, tenGor); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	liquidator := makeAddress(crypto.GorPrefix, 0x30)
	if _, _, err := engine.Liquidate(liquidator, owner); !errors.Is(err, ErrNoDebtToLiquidate) {
		t.Fatalf("expected ErrNoDebtToLiquidate, got %v", err)
	}
}

func TestLiquidateEmitsEvent(t *testing.T) {
	engine, _, ledger, admin := newTestEngine(t)
	owner := underwaterVault(t, engine, ledger, admin, 700_000)

	sink := &recordingSink{}
	engine.SetEventSink(sink)

	liquidator := makeAddress(crypto.GorPrefix, 0x30)
	ledger.stable[ledger.key(liquidator)] = 6_000_000
	if _, _, err := engine.Liquidate(liquidator, owner); err != nil {
		t.Fatalf("liquidate: %v", err)
	}
	if sink.lastType() != EventTypeVaultLiquidated {
		t.Fatalf("last event = %q, want %q", sink.lastType(), EventTypeVaultLiquidated)
	}
	attrs := sink.events[len(sink.events)-1].Attributes
	if attrs["debtRepaid"] != "6000000" {
		t.Fatalf("debtRepaid attribute = %q, want 6000000", attrs["debtRepaid"])
	}
	if attrs["collateralSeized"] != "9428571428" {
		t.Fatalf("collateralSeized attribute = %q, want 9428571428", attrs["collateralSeized"])
	}
}
