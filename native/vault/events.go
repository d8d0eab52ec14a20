package vault

import (
	"strconv"

	"gusd/core/types"
	"gusd/crypto"
)

const (
	EventTypePriceUpdated        = "vault.priceUpdated"
	EventTypeVaultCreated        = "vault.created"
	EventTypeCollateralDeposited = "vault.collateralDeposited"
	EventTypeGusdMinted          = "vault.gusdMinted"
	EventTypeGusdRepaid          = "vault.gusdRepaid"
	EventTypeCollateralWithdrawn = "vault.collateralWithdrawn"
	EventTypeVaultClosed         = "vault.closed"
	EventTypeVaultLiquidated     = "vault.liquidated"
)

// EventSink receives structured records after each committed mutation. A sink
// must not influence control flow: the engine ignores anything the sink does,
// and a nil sink disables emission entirely.
type EventSink interface {
	Emit(evt *types.Event)
}

// NewPriceUpdatedEvent returns the canonical payload for an accepted price
// update.
func NewPriceUpdatedEvent(oldPrice, newPrice uint64) *types.Event {
	return &types.Event{Type: EventTypePriceUpdated, Attributes: map[string]string{
		"oldPrice": strconv.FormatUint(oldPrice, 10),
		"newPrice": strconv.FormatUint(newPrice, 10),
	}}
}

// NewVaultCreatedEvent returns the canonical payload for a newly created
// vault.
func NewVaultCreatedEvent(owner crypto.Address, ts int64) *types.Event {
	return &types.Event{Type: EventTypeVaultCreated, Attributes: map[string]string{
		"owner":     owner.String(),
		"timestamp": strconv.FormatInt(ts, 10),
	}}
}

// NewCollateralDepositedEvent returns the canonical payload for a deposit.
func NewCollateralDepositedEvent(owner crypto.Address, amount, totalCollateral uint64) *types.Event {
	return &types.Event{Type: EventTypeCollateralDeposited, Attributes: map[string]string{
		"owner":           owner.String(),
		"amount":          strconv.FormatUint(amount, 10),
		"totalCollateral": strconv.FormatUint(totalCollateral, 10),
	}}
}

// NewGusdMintedEvent returns the canonical payload for a successful mint,
// including the post-mint collateral ratio for observability.
func NewGusdMintedEvent(owner crypto.Address, amount, totalDebt, ratioBps uint64) *types.Event {
	return &types.Event{Type: EventTypeGusdMinted, Attributes: map[string]string{
		"owner":              owner.String(),
		"amount":             strconv.FormatUint(amount, 10),
		"totalDebt":          strconv.FormatUint(totalDebt, 10),
		"collateralRatioBps": strconv.FormatUint(ratioBps, 10),
	}}
}

// NewGusdRepaidEvent returns the canonical payload for a repayment.
func NewGusdRepaidEvent(owner crypto.Address, amount, remainingDebt uint64) *types.Event {
	return &types.Event{Type: EventTypeGusdRepaid, Attributes: map[string]string{
		"owner":         owner.String(),
		"amount":        strconv.FormatUint(amount, 10),
		"remainingDebt": strconv.FormatUint(remainingDebt, 10),
	}}
}

// NewCollateralWithdrawnEvent returns the canonical payload for a withdrawal.
func NewCollateralWithdrawnEvent(owner crypto.Address, amount, remainingCollateral uint64) *types.Event {
	return &types.Event{Type: EventTypeCollateralWithdrawn, Attributes: map[string]string{
		"owner":               owner.String(),
		"amount":              strconv.FormatUint(amount, 10),
		"remainingCollateral": strconv.FormatUint(remainingCollateral, 10),
	}}
}

// NewVaultClosedEvent returns the canonical payload for a closed vault,
// recording any residual escrow balance drained back to the owner.
func NewVaultClosedEvent(owner crypto.Address, residual uint64) *types.Event {
	return &types.Event{Type: EventTypeVaultClosed, Attributes: map[string]string{
		"owner":    owner.String(),
		"residual": strconv.FormatUint(residual, 10),
	}}
}

// NewVaultLiquidatedEvent returns the canonical payload for a liquidation.
func NewVaultLiquidatedEvent(vaultOwner, liquidator crypto.Address, debtRepaid, collateralSeized uint64) *types.Event {
	return &types.Event{Type: EventTypeVaultLiquidated, Attributes: map[string]string{
		"vaultOwner":       vaultOwner.String(),
		"liquidator":       liquidator.String(),
		"debtRepaid":       strconv.FormatUint(debtRepaid, 10),
		"collateralSeized": strconv.FormatUint(collateralSeized, 10),
	}}
}
