package vault

import (
	"errors"

	nativecommon "gusd/native/common"
)

var (
	errNilState           = errors.New("vault engine: state not configured")
	errNotInitialised     = errors.New("vault engine: protocol not initialised")
	errAlreadyInitialised = errors.New("vault engine: protocol already initialised")

	// ErrInvalidAmount rejects zero amounts on any position operation.
	ErrInvalidAmount = errors.New("vault engine: amount must be positive")
	// ErrInvalidPrice rejects a zero price on initialise or update.
	ErrInvalidPrice = errors.New("vault engine: price must be positive")
	// ErrUnauthorized rejects admin operations from a non-admin caller.
	ErrUnauthorized = errors.New("vault engine: caller is not the protocol admin")
	// ErrInvalidVaultOwner rejects operations where the caller does not own
	// the target vault.
	ErrInvalidVaultOwner = errors.New("vault engine: caller does not own vault")
	// ErrVaultNotFound rejects operations against a vault that was never
	// created.
	ErrVaultNotFound = errors.New("vault engine: vault not found")
	// ErrVaultExists rejects creating a vault that already exists.
	ErrVaultExists = errors.New("vault engine: vault already exists")
	// ErrInsufficientCollateral rejects a mint that would breach the
	// minimum collateral ratio, or a withdrawal exceeding the balance.
	ErrInsufficientCollateral = errors.New("vault engine: insufficient collateral")
	// ErrWouldUndercollateralize rejects a withdrawal that would breach the
	// minimum ratio for existing debt.
	ErrWouldUndercollateralize = errors.New("vault engine: withdrawal would undercollateralize vault")
	// ErrVaultNotLiquidatable rejects liquidation of a vault at or above
	// the liquidation threshold.
	ErrVaultNotLiquidatable = errors.New("vault engine: vault not eligible for liquidation")
	// ErrNoDebtToLiquidate rejects liquidation of a debt-free vault.
	ErrNoDebtToLiquidate = errors.New("vault engine: no debt to liquidate")
	// ErrLiquidationNotProfitable rejects liquidation when the collateral
	// value is too small to cover any repayment.
	ErrLiquidationNotProfitable = errors.New("vault engine: liquidation not profitable")
	// ErrVaultNotEmpty rejects closing a vault holding collateral or debt.
	ErrVaultNotEmpty = errors.New("vault engine: vault must have zero debt and zero collateral")
	// ErrPriceChangeExceedsLimit rejects a price update moving further than
	// the per-update bound.
	ErrPriceChangeExceedsLimit = errors.New("vault engine: price change exceeds maximum allowed limit")
	// ErrPriceUpdateTooFrequent rejects price updates inside the minimum
	// interval.
	ErrPriceUpdateTooFrequent = errors.New("vault engine: price update too frequent")
	// ErrMathOverflow is a hard abort on any checked arithmetic that would
	// overflow, underflow, or lose precision. Never silently saturated:
	// saturation could misprice collateral or debt.
	ErrMathOverflow = errors.New("vault engine: math overflow")
)

// ErrProtocolPaused rejects mint, withdraw, and liquidate while the protocol
// pause flag is set. Deposit, repay, and queries remain allowed.
var ErrProtocolPaused = nativecommon.ErrProtocolPaused
