package vault

import "time"

// Risk and pricing constants for the GUSD protocol. These are fixed by design:
// the protocol runs a single collateral asset with static thresholds and no
// governance surface to change them at runtime.
const (
	// MinCollateralRatioBps is the collateral ratio required immediately
	// after any mint or withdrawal (150%).
	MinCollateralRatioBps uint64 = 15_000

	// LiquidationThresholdBps is the ratio below which a vault becomes
	// eligible for liquidation (120%).
	LiquidationThresholdBps uint64 = 12_000

	// LiquidationPenaltyBps is the bonus granted to liquidators on seized
	// collateral (10%).
	LiquidationPenaltyBps uint64 = 1_000

	// BpsDenominator converts basis points to ratios.
	BpsDenominator uint64 = 10_000

	// StableDecimals is the fractional precision of GUSD (like USDC).
	StableDecimals uint8 = 6

	// CollateralDecimals is the fractional precision of GOR (like SOL).
	CollateralDecimals uint8 = 9

	// MaxPriceChangeBps caps how far a single admin price update may move
	// the collateral price (20%).
	MaxPriceChangeBps uint64 = 2_000
)

// MinPriceUpdateInterval is the minimum wall-clock gap between accepted price
// updates. Deliberately permissive: it blocks rapid repeated updates, it is
// not a meaningful rate limit against a compromised admin key.
const MinPriceUpdateInterval = time.Second
