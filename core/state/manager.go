package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"gusd/core/types"
	"gusd/crypto"
	"gusd/native/vault"
	"gusd/storage"
)

// Manager persists protocol, vault, and ledger records in the underlying
// key-value store using RLP encoding. It implements both the engine's state
// surface and the custody ledger the engine drives.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Stored record shapes. RLP has no signed integer support, so timestamps are
// stored as uint64 and converted at the boundary.

type storedProtocol struct {
	Admin           []byte
	StableMint      []byte
	PriceUSD        uint64
	TotalCollateral uint64
	TotalDebt       uint64
	Paused          bool
	LastPriceUpdate uint64
}

type storedVault struct {
	Owner      []byte
	Collateral uint64
	Debt       uint64
}

type storedAccount struct {
	Nonce       uint64
	BalanceGOR  *big.Int
	BalanceGUSD *big.Int
}

// GetProtocol loads the protocol singleton, returning nil when the protocol
// has not been initialised.
func (m *Manager) GetProtocol() (*vault.ProtocolState, error) {
	var stored storedProtocol
	ok, err := m.get(protocolKey, &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	protocol := &vault.ProtocolState{
		PriceUSD:        stored.PriceUSD,
		TotalCollateral: stored.TotalCollateral,
		TotalDebt:       stored.TotalDebt,
		Paused:          stored.Paused,
		LastPriceUpdate: int64(stored.LastPriceUpdate),
	}
	if len(stored.Admin) == 20 {
		protocol.Admin = crypto.NewAddress(crypto.GorPrefix, stored.Admin)
	}
	if len(stored.StableMint) == 20 {
		protocol.StableMint = crypto.NewAddress(crypto.GorPrefix, stored.StableMint)
	}
	return protocol, nil
}

// PutProtocol persists the protocol singleton.
func (m *Manager) PutProtocol(protocol *vault.ProtocolState) error {
	if protocol == nil {
		return fmt.Errorf("state: protocol must not be nil")
	}
	if protocol.LastPriceUpdate < 0 {
		return fmt.Errorf("state: negative price update timestamp")
	}
	stored := storedProtocol{
		Admin:           protocol.Admin.Bytes(),
		StableMint:      protocol.StableMint.Bytes(),
		PriceUSD:        protocol.PriceUSD,
		TotalCollateral: protocol.TotalCollateral,
		TotalDebt:       protocol.TotalDebt,
		Paused:          protocol.Paused,
		LastPriceUpdate: uint64(protocol.LastPriceUpdate),
	}
	return m.put(protocolKey, &stored)
}

// GetVault loads a vault record by owner, returning nil when absent.
func (m *Manager) GetVault(owner crypto.Address) (*vault.Vault, error) {
	var stored storedVault
	ok, err := m.get(vaultKey(owner.Bytes()), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	v := &vault.Vault{Collateral: stored.Collateral, Debt: stored.Debt}
	if len(stored.Owner) == 20 {
		v.Owner = crypto.NewAddress(crypto.GorPrefix, stored.Owner)
	}
	return v, nil
}

// PutVault persists a vault record under its owner key.
func (m *Manager) PutVault(v *vault.Vault) error {
	if v == nil {
		return fmt.Errorf("state: vault must not be nil")
	}
	if v.Owner.IsZero() {
		return fmt.Errorf("state: vault owner must be set")
	}
	stored := storedVault{Owner: v.Owner.Bytes(), Collateral: v.Collateral, Debt: v.Debt}
	return m.put(vaultKey(v.Owner.Bytes()), &stored)
}

// DeleteVault removes a vault record.
func (m *Manager) DeleteVault(owner crypto.Address) error {
	return m.db.Delete(vaultKey(owner.Bytes()))
}

// GetAccount loads the ledger account for an address. Missing accounts
// materialise with zero balances.
func (m *Manager) GetAccount(addr crypto.Address) (*types.Account, error) {
	var stored storedAccount
	ok, err := m.get(accountKey(addr.Bytes()), &stored)
	if err != nil {
		return nil, err
	}
	acc := &types.Account{}
	if ok {
		acc.Nonce = stored.Nonce
		acc.BalanceGOR = stored.BalanceGOR
		acc.BalanceGUSD = stored.BalanceGUSD
	}
	acc.EnsureDefaults()
	return acc, nil
}

// PutAccount persists the ledger account for an address.
func (m *Manager) PutAccount(addr crypto.Address, acc *types.Account) error {
	if acc == nil {
		return fmt.Errorf("state: account must not be nil")
	}
	acc.EnsureDefaults()
	stored := storedAccount{Nonce: acc.Nonce, BalanceGOR: acc.BalanceGOR, BalanceGUSD: acc.BalanceGUSD}
	return m.put(accountKey(addr.Bytes()), &stored)
}

// StableSupply reports the GUSD supply currently outstanding in the ledger.
func (m *Manager) StableSupply() (*big.Int, error) {
	supply := new(big.Int)
	ok, err := m.get(stableSupplyKey, supply)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return supply, nil
}

func (m *Manager) putStableSupply(supply *big.Int) error {
	return m.put(stableSupplyKey, supply)
}

func (m *Manager) put(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("state: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

func (m *Manager) get(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("state: key must not be empty")
	}
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}
