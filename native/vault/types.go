package vault

import (
	"gusd/crypto"
)

// ProtocolState is the process-wide singleton holding the protocol
// configuration and aggregate accounting. TotalCollateral must equal the sum
// of all vault collateral, and TotalDebt the sum of all vault debt, after any
// sequence of operations.
type ProtocolState struct {
	// Admin is the identity authorised to update the price, toggle the
	// pause flag, and transfer the admin role.
	Admin crypto.Address
	// StableMint is the opaque handle to the GUSD issuance authority.
	// The engine passes it through to the ledger; it never inspects it.
	StableMint crypto.Address
	// PriceUSD is the current GOR price in USD with 6 implied decimals
	// (1_000_000 = $1.00).
	PriceUSD uint64
	// TotalCollateral is the aggregate GOR locked across all vaults, in
	// base units.
	TotalCollateral uint64
	// TotalDebt is the aggregate GUSD debt outstanding, in GUSD units.
	TotalDebt uint64
	// Paused rejects mint, withdraw, and liquidate when set. Deposit,
	// repay, and queries remain allowed.
	Paused bool
	// LastPriceUpdate is the unix timestamp of the last accepted price
	// update, used to rate-limit updates.
	LastPriceUpdate int64
}

// IsPaused satisfies the pause view consumed by the operation guard.
func (p *ProtocolState) IsPaused() bool {
	return p != nil && p.Paused
}

// Clone returns a deep copy of the protocol state.
func (p *ProtocolState) Clone() *ProtocolState {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Vault is the per-user record of locked collateral and owed debt. Custody of
// the collateral itself lives at the vault's derived escrow address; the vault
// record only tracks the amounts.
type Vault struct {
	// Owner exclusively controls this vault.
	Owner crypto.Address
	// Collateral is the GOR amount locked, in base units.
	Collateral uint64
	// Debt is the GUSD amount owed, in GUSD units.
	Debt uint64
}

// Clone returns a deep copy of the vault record.
func (v *Vault) Clone() *Vault {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

// EscrowAddress derives the escrow holder custodying this vault's collateral.
func (v *Vault) EscrowAddress() crypto.Address {
	return crypto.DeriveEscrowAddress(v.Owner)
}

// VaultHealth is the pure-read health summary for a vault. RatioBps is the
// maximum uint64 when the vault carries no debt (infinite ratio by
// convention).
type VaultHealth struct {
	Collateral         uint64 `json:"collateralAmount"`
	CollateralValueUSD uint64 `json:"collateralValueUsd"`
	Debt               uint64 `json:"debtAmount"`
	RatioBps           uint64 `json:"collateralRatioBps"`
	IsLiquidatable     bool   `json:"isLiquidatable"`
}
