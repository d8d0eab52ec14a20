package vault

import (
	"errors"
	"math"
	"testing"
)

func TestUsdValue(t *testing.T) {
	cases := []struct {
		name    string
		amount  uint64
		price   uint64
		want    uint64
		wantErr bool
	}{
		{name: "ten gor at one dollar", amount: 10_000_000_000, price: 1_000_000, want: 10_000_000},
		{name: "truncates toward zero", amount: 1, price: 999_999_999, want: 0},
		{name: "zero amount", amount: 0, price: 1_000_000, want: 0},
		{name: "wide intermediate survives", amount: math.MaxUint64, price: 1, want: math.MaxUint64 / 1_000_000_000},
		{name: "result overflow", amount: math.MaxUint64, price: math.MaxUint64, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := usdValue(tc.amount, tc.price, CollateralDecimals)
			if tc.wantErr {
				if !errors.Is(err, ErrMathOverflow) {
					t.Fatalf("expected ErrMathOverflow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("usdValue: %v", err)
			}
			if got != tc.want {
				t.Fatalf("usdValue = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCollateralFromUSD(t *testing.T) {
	got, err := collateralFromUSD(6_600_000, 700_000, CollateralDecimals)
	if err != nil {
		t.Fatalf("collateralFromUSD: %v", err)
	}
	if got != 9_428_571_428 {
		t.Fatalf("collateralFromUSD = %d, want 9428571428", got)
	}

	if _, err := collateralFromUSD(1, 0, CollateralDecimals); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice for zero price, got %v", err)
	}
	if _, err := collateralFromUSD(math.MaxUint64, 1, CollateralDecimals); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
}

func TestRatioBps(t *testing.T) {
	got, err := ratioBps(10_000_000, 6_000_000)
	if err != nil {
		t.Fatalf("ratioBps: %v", err)
	}
	if got != 16_666 {
		t.Fatalf("ratioBps = %d, want 16666", got)
	}

	// The wide intermediate keeps large collateral values from wrapping.
	got, err = ratioBps(math.MaxUint64/2, math.MaxUint64)
	if err != nil {
		t.Fatalf("ratioBps: %v", err)
	}
	if got != BpsDenominator/2-1 {
		t.Fatalf("ratioBps = %d, want %d", got, BpsDenominator/2-1)
	}
}

func TestMulDivCeil(t *testing.T) {
	got, err := mulDivCeil(1_000_000, MaxPriceChangeBps, BpsDenominator)
	if err != nil {
		t.Fatalf("mulDivCeil: %v", err)
	}
	if got != 200_000 {
		t.Fatalf("mulDivCeil = %d, want 200000", got)
	}

	// Rounds up rather than truncating.
	got, err = mulDivCeil(3, MaxPriceChangeBps, BpsDenominator)
	if err != nil {
		t.Fatalf("mulDivCeil: %v", err)
	}
	if got != 1 {
		t.Fatalf("mulDivCeil = %d, want 1", got)
	}

	// Floors at one so a zero product still permits movement.
	got, err = mulDivCeil(0, MaxPriceChangeBps, BpsDenominator)
	if err != nil {
		t.Fatalf("mulDivCeil: %v", err)
	}
	if got != 1 {
		t.Fatalf("mulDivCeil = %d, want 1", got)
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow on add wrap, got %v", err)
	}
	sum, err := checkedAdd(math.MaxUint64-1, 1)
	if err != nil {
		t.Fatalf("checkedAdd: %v", err)
	}
	if sum != math.MaxUint64 {
		t.Fatalf("checkedAdd = %d, want max uint64", sum)
	}

	if _, err := checkedSub(0, 1); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow on sub wrap, got %v", err)
	}
	diff, err := checkedSub(5, 5)
	if err != nil {
		t.Fatalf("checkedSub: %v", err)
	}
	if diff != 0 {
		t.Fatalf("checkedSub = %d, want 0", diff)
	}
}
