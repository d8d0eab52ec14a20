package types

import "math/big"

// Account is the ledger record for a single address. Balances are denominated
// in the smallest unit of each asset (GOR base units with 9 decimals, GUSD units
// with 6 decimals) and expressed as big integers to keep the encoding uniform
// across externally owned accounts and derived escrow holders.
type Account struct {
	Nonce       uint64   `json:"nonce"`
	BalanceGOR  *big.Int `json:"balanceGOR"`
	BalanceGUSD *big.Int `json:"balanceGUSD"`
}

// EnsureDefaults populates nil balances so callers can mutate in place.
func (a *Account) EnsureDefaults() {
	if a == nil {
		return
	}
	if a.BalanceGOR == nil {
		a.BalanceGOR = big.NewInt(0)
	}
	if a.BalanceGUSD == nil {
		a.BalanceGUSD = big.NewInt(0)
	}
}
