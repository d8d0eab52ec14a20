package state

import (
	"errors"
	"math/big"

	"gusd/crypto"
)

var (
	// ErrInsufficientFunds rejects a movement or burn exceeding the payer's
	// balance.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInvalidAuthority rejects stable-asset issuance without the
	// protocol's minting authority.
	ErrInvalidAuthority = errors.New("ledger: invalid mint authority")
)

// MoveCollateral moves GOR between two ledger accounts. The engine uses this
// for deposits into escrow, withdrawals back to owners, and liquidation
// seizures.
func (m *Manager) MoveCollateral(from, to crypto.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	value := new(big.Int).SetUint64(amount)

	fromAcc, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if fromAcc.BalanceGOR.Cmp(value) < 0 {
		return ErrInsufficientFunds
	}
	toAcc, err := m.GetAccount(to)
	if err != nil {
		return err
	}

	fromAcc.BalanceGOR = new(big.Int).Sub(fromAcc.BalanceGOR, value)
	toAcc.BalanceGOR = new(big.Int).Add(toAcc.BalanceGOR, value)

	if err := m.PutAccount(from, fromAcc); err != nil {
		return err
	}
	return m.PutAccount(to, toAcc)
}

// MintStable issues GUSD to the recipient under the protocol's minting
// authority and grows the tracked supply.
func (m *Manager) MintStable(authority, to crypto.Address, amount uint64) error {
	if authority.IsZero() {
		return ErrInvalidAuthority
	}
	if amount == 0 {
		return nil
	}
	value := new(big.Int).SetUint64(amount)

	acc, err := m.GetAccount(to)
	if err != nil {
		return err
	}
	supply, err := m.StableSupply()
	if err != nil {
		return err
	}

	acc.BalanceGUSD = new(big.Int).Add(acc.BalanceGUSD, value)
	supply.Add(supply, value)

	if err := m.PutAccount(to, acc); err != nil {
		return err
	}
	return m.putStableSupply(supply)
}

// BurnStable destroys GUSD held by the payer and shrinks the tracked supply.
func (m *Manager) BurnStable(from, authority crypto.Address, amount uint64) error {
	if authority.IsZero() {
		return ErrInvalidAuthority
	}
	if amount == 0 {
		return nil
	}
	value := new(big.Int).SetUint64(amount)

	acc, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if acc.BalanceGUSD.Cmp(value) < 0 {
		return ErrInsufficientFunds
	}
	supply, err := m.StableSupply()
	if err != nil {
		return err
	}
	if supply.Cmp(value) < 0 {
		return ErrInsufficientFunds
	}

	acc.BalanceGUSD = new(big.Int).Sub(acc.BalanceGUSD, value)
	supply.Sub(supply, value)

	if err := m.PutAccount(from, acc); err != nil {
		return err
	}
	return m.putStableSupply(supply)
}

// CollateralBalance reports the GOR balance custodied at an address. A
// balance beyond the engine's native width is an error rather than a
// truncation.
func (m *Manager) CollateralBalance(addr crypto.Address) (uint64, error) {
	acc, err := m.GetAccount(addr)
	if err != nil {
		return 0, err
	}
	if !acc.BalanceGOR.IsUint64() {
		return 0, errors.New("ledger: balance exceeds native width")
	}
	return acc.BalanceGOR.Uint64(), nil
}
