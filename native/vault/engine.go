package vault

import (
	"math"
	"sync"

	"gusd/core/types"
	"gusd/crypto"
	nativecommon "gusd/native/common"
)

// engineState is the persistence surface the engine requires. ProtocolState
// is a singleton record; vaults are keyed by owner identity.
type engineState interface {
	GetProtocol() (*ProtocolState, error)
	PutProtocol(state *ProtocolState) error
	GetVault(owner crypto.Address) (*Vault, error)
	PutVault(vault *Vault) error
	DeleteVault(owner crypto.Address) error
}

// Ledger is the external custody collaborator. The engine requests fund
// movement as a side effect of its operations and assumes each call is atomic
// with the engine's own state mutation.
type Ledger interface {
	// MoveCollateral moves GOR between an account and an escrow holder.
	MoveCollateral(from, to crypto.Address, amount uint64) error
	// MintStable issues GUSD to an account under the protocol's minting
	// authority.
	MintStable(authority, to crypto.Address, amount uint64) error
	// BurnStable destroys GUSD held by an account.
	BurnStable(from, authority crypto.Address, amount uint64) error
	// CollateralBalance reports the GOR balance custodied at an address.
	CollateralBalance(addr crypto.Address) (uint64, error)
}

// Engine orchestrates every state transition of the GUSD protocol: price
// guarding, the four position operations, liquidation, and vault lifecycle.
// All operations apply atomically against the current snapshot of protocol
// and vault state; the engine serialises them behind a single lock.
type Engine struct {
	mu     sync.Mutex
	state  engineState
	ledger Ledger
	sink   EventSink
}

// NewEngine constructs an engine bound to the given state and ledger
// collaborators.
func NewEngine(state engineState, ledger Ledger) *Engine {
	return &Engine{state: state, ledger: ledger}
}

// SetEventSink wires the observability sink. Emission failure never rolls
// back a mutation; a nil sink disables emission.
func (e *Engine) SetEventSink(sink EventSink) {
	if e == nil {
		return
	}
	e.sink = sink
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || e.sink == nil || evt == nil {
		return
	}
	e.sink.Emit(evt)
}

// Initialize creates the protocol singleton. It fails if the protocol already
// exists or the initial price is zero.
func (e *Engine) Initialize(admin, stableMint crypto.Address, initialPriceUSD uint64, now int64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if initialPriceUSD == 0 {
		return ErrInvalidPrice
	}
	if admin.IsZero() {
		return ErrUnauthorized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.state.GetProtocol()
	if err != nil {
		return err
	}
	if existing != nil {
		return errAlreadyInitialised
	}
	return e.state.PutProtocol(&ProtocolState{
		Admin:           admin,
		StableMint:      stableMint,
		PriceUSD:        initialPriceUSD,
		Paused:          false,
		LastPriceUpdate: now,
	})
}

// Protocol returns a snapshot of the protocol state.
func (e *Engine) Protocol() (*ProtocolState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	protocol, err := e.loadProtocol()
	if err != nil {
		return nil, err
	}
	return protocol.Clone(), nil
}

// UpdatePrice validates and applies an admin price update under the
// max-change-per-update and minimum-interval rules.
func (e *Engine) UpdatePrice(caller crypto.Address, newPriceUSD uint64, now int64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if newPriceUSD == 0 {
		return ErrInvalidPrice
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return err
	}
	if !caller.Equal(protocol.Admin) {
		return ErrUnauthorized
	}
	if now-protocol.LastPriceUpdate < int64(MinPriceUpdateInterval.Seconds()) {
		return ErrPriceUpdateTooFrequent
	}

	oldPrice := protocol.PriceUSD
	var delta uint64
	if newPriceUSD > oldPrice {
		delta = newPriceUSD - oldPrice
	} else {
		delta = oldPrice - newPriceUSD
	}

	// Round-up division keeps the bound no stricter than the configured
	// percentage; the floor of 1 lets very small prices still move.
	maxDelta, err := mulDivCeil(oldPrice, MaxPriceChangeBps, BpsDenominator)
	if err != nil {
		return err
	}
	if delta > maxDelta {
		return ErrPriceChangeExceedsLimit
	}

	protocol.PriceUSD = newPriceUSD
	protocol.LastPriceUpdate = now
	if err := e.state.PutProtocol(protocol); err != nil {
		return err
	}

	e.emit(NewPriceUpdatedEvent(oldPrice, newPriceUSD))
	return nil
}

// Pause sets the protocol pause flag. Admin only.
func (e *Engine) Pause(caller crypto.Address) error {
	return e.setPaused(caller, true)
}

// Unpause clears the protocol pause flag. Admin only.
func (e *Engine) Unpause(caller crypto.Address) error {
	return e.setPaused(caller, false)
}

func (e *Engine) setPaused(caller crypto.Address, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return err
	}
	if !caller.Equal(protocol.Admin) {
		return ErrUnauthorized
	}
	protocol.Paused = paused
	return e.state.PutProtocol(protocol)
}

// TransferAdmin reassigns the admin role. The zero identity is rejected.
func (e *Engine) TransferAdmin(caller, newAdmin crypto.Address) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if newAdmin.IsZero() {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return err
	}
	if !caller.Equal(protocol.Admin) {
		return ErrUnauthorized
	}
	protocol.Admin = newAdmin
	return e.state.PutProtocol(protocol)
}

// CreateVault creates an empty vault for the owner. Operations against a
// vault that was never created fail ErrVaultNotFound.
func (e *Engine) CreateVault(owner crypto.Address, now int64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if owner.IsZero() {
		return ErrInvalidVaultOwner
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.loadProtocol(); err != nil {
		return err
	}
	existing, err := e.state.GetVault(owner)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrVaultExists
	}
	if err := e.state.PutVault(&Vault{Owner: owner}); err != nil {
		return err
	}

	e.emit(NewVaultCreatedEvent(owner, now))
	return nil
}

// Deposit locks collateral into the owner's vault escrow. No ratio check:
// deposits only improve health. Allowed while paused.
func (e *Engine) Deposit(owner crypto.Address, amount uint64) error {
	if e == nil || e.state == nil || e.ledger == nil {
		return errNilState
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return err
	}
	vault, err := e.loadVault(owner)
	if err != nil {
		return err
	}

	newCollateral, err := checkedAdd(vault.Collateral, amount)
	if err != nil {
		return err
	}
	newTotal, err := checkedAdd(protocol.TotalCollateral, amount)
	if err != nil {
		return err
	}

	if err := e.ledger.MoveCollateral(owner, vault.EscrowAddress(), amount); err != nil {
		return err
	}

	vault.Collateral = newCollateral
	protocol.TotalCollateral = newTotal
	if err := e.state.PutVault(vault); err != nil {
		return err
	}
	if err := e.state.PutProtocol(protocol); err != nil {
		return err
	}

	e.emit(NewCollateralDepositedEvent(owner, amount, vault.Collateral))
	return nil
}

// Mint issues GUSD against the vault's collateral, enforcing the minimum
// collateral ratio on the post-mint debt. Returns the resulting ratio in
// basis points. Rejected while paused.
func (e *Engine) Mint(owner crypto.Address, amount uint64) (uint64, error) {
	if e == nil || e.state == nil || e.ledger == nil {
		return 0, errNilState
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return 0, err
	}
	if err := nativecommon.Guard(protocol); err != nil {
		return 0, err
	}
	vault, err := e.loadVault(owner)
	if err != nil {
		return 0, err
	}

	newDebt, err := checkedAdd(vault.Debt, amount)
	if err != nil {
		return 0, err
	}
	collateralValue, err := usdValue(vault.Collateral, protocol.PriceUSD, CollateralDecimals)
	if err != nil {
		return 0, err
	}
	// Floor division: required collateral is never over-stated by
	// rounding, giving the borrower the benefit.
	required, err := mulDiv(newDebt, MinCollateralRatioBps, BpsDenominator)
	if err != nil {
		return 0, err
	}
	if collateralValue < required {
		return 0, ErrInsufficientCollateral
	}
	newTotalDebt, err := checkedAdd(protocol.TotalDebt, amount)
	if err != nil {
		return 0, err
	}
	resultingRatio, err := ratioBps(collateralValue, newDebt)
	if err != nil {
		return 0, err
	}

	if err := e.ledger.MintStable(protocol.StableMint, owner, amount); err != nil {
		return 0, err
	}

	vault.Debt = newDebt
	protocol.TotalDebt = newTotalDebt
	if err := e.state.PutVault(vault); err != nil {
		return 0, err
	}
	if err := e.state.PutProtocol(protocol); err != nil {
		return 0, err
	}

	e.emit(NewGusdMintedEvent(owner, amount, vault.Debt, resultingRatio))
	return resultingRatio, nil
}

// Repay burns GUSD from the owner and reduces the vault debt. An offer
// exceeding the outstanding debt is capped, not rejected. Returns the amount
// actually repaid. Allowed while paused.
func (e *Engine) Repay(owner crypto.Address, amount uint64) (uint64, error) {
	if e == nil || e.state == nil || e.ledger == nil {
		return 0, errNilState
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return 0, err
	}
	vault, err := e.loadVault(owner)
	if err != nil {
		return 0, err
	}

	repayAmount := minUint64(amount, vault.Debt)
	if repayAmount == 0 {
		return 0, nil
	}
	newDebt, err := checkedSub(vault.Debt, repayAmount)
	if err != nil {
		return 0, err
	}
	newTotalDebt, err := checkedSub(protocol.TotalDebt, repayAmount)
	if err != nil {
		return 0, err
	}

	if err := e.ledger.BurnStable(owner, protocol.StableMint, repayAmount); err != nil {
		return 0, err
	}

	vault.Debt = newDebt
	protocol.TotalDebt = newTotalDebt
	if err := e.state.PutVault(vault); err != nil {
		return 0, err
	}
	if err := e.state.PutProtocol(protocol); err != nil {
		return 0, err
	}

	e.emit(NewGusdRepaidEvent(owner, repayAmount, vault.Debt))
	return repayAmount, nil
}

// Withdraw releases collateral back to the owner, enforcing the minimum ratio
// on any remaining debt. Rejected while paused.
func (e *Engine) Withdraw(owner crypto.Address, amount uint64) error {
	if e == nil || e.state == nil || e.ledger == nil {
		return errNilState
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return err
	}
	if err := nativecommon.Guard(protocol); err != nil {
		return err
	}
	vault, err := e.loadVault(owner)
	if err != nil {
		return err
	}
	if amount > vault.Collateral {
		return ErrInsufficientCollateral
	}

	remaining := vault.Collateral - amount
	if vault.Debt > 0 {
		remainingValue, err := usdValue(remaining, protocol.PriceUSD, CollateralDecimals)
		if err != nil {
			return err
		}
		required, err := mulDiv(vault.Debt, MinCollateralRatioBps, BpsDenominator)
		if err != nil {
			return err
		}
		if remainingValue < required {
			return ErrWouldUndercollateralize
		}
	}
	newTotal, err := checkedSub(protocol.TotalCollateral, amount)
	if err != nil {
		return err
	}

	// The escrow holder releases custody on the vault's behalf; the owner
	// never signs for this balance directly.
	if err := e.ledger.MoveCollateral(vault.EscrowAddress(), owner, amount); err != nil {
		return err
	}

	vault.Collateral = remaining
	protocol.TotalCollateral = newTotal
	if err := e.state.PutVault(vault); err != nil {
		return err
	}
	if err := e.state.PutProtocol(protocol); err != nil {
		return err
	}

	e.emit(NewCollateralWithdrawnEvent(owner, amount, vault.Collateral))
	return nil
}

// Close deletes an empty vault, draining any residual escrow balance (dust
// accumulated at the custody address) back to the owner. Returns the residual
// amount drained.
func (e *Engine) Close(owner crypto.Address) (uint64, error) {
	if e == nil || e.state == nil || e.ledger == nil {
		return 0, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.loadProtocol(); err != nil {
		return 0, err
	}
	vault, err := e.loadVault(owner)
	if err != nil {
		return 0, err
	}
	if vault.Debt != 0 || vault.Collateral != 0 {
		return 0, ErrVaultNotEmpty
	}

	residual, err := e.ledger.CollateralBalance(vault.EscrowAddress())
	if err != nil {
		return 0, err
	}
	if residual > 0 {
		if err := e.ledger.MoveCollateral(vault.EscrowAddress(), owner, residual); err != nil {
			return 0, err
		}
	}
	if err := e.state.DeleteVault(owner); err != nil {
		return 0, err
	}

	e.emit(NewVaultClosedEvent(owner, residual))
	return residual, nil
}

// Liquidate lets a third party repay an undercollateralized vault's debt in
// exchange for a bonus-adjusted seizure of its collateral. The repay amount
// is the largest value that keeps the seizure within what the vault holds:
// partial-or-full, never over-seizing. Returns the debt repaid and the
// collateral seized. Rejected while paused.
func (e *Engine) Liquidate(liquidator, vaultOwner crypto.Address) (uint64, uint64, error) {
	if e == nil || e.state == nil || e.ledger == nil {
		return 0, 0, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return 0, 0, err
	}
	if err := nativecommon.Guard(protocol); err != nil {
		return 0, 0, err
	}
	vault, err := e.loadVault(vaultOwner)
	if err != nil {
		return 0, 0, err
	}
	if vault.Debt == 0 {
		return 0, 0, ErrNoDebtToLiquidate
	}

	collateralValue, err := usdValue(vault.Collateral, protocol.PriceUSD, CollateralDecimals)
	if err != nil {
		return 0, 0, err
	}
	ratio, err := ratioBps(collateralValue, vault.Debt)
	if err != nil {
		return 0, 0, err
	}
	// Liquidation is only permitted strictly below the threshold.
	if ratio >= LiquidationThresholdBps {
		return 0, 0, ErrVaultNotLiquidatable
	}

	// Largest repay amount at which the seizure, bonus included, exactly
	// exhausts the vault's collateral value.
	bonusDenom := BpsDenominator + LiquidationPenaltyBps
	maxRepay, err := mulDiv(collateralValue, BpsDenominator, bonusDenom)
	if err != nil {
		return 0, 0, err
	}
	repay := minUint64(vault.Debt, maxRepay)
	if repay == 0 {
		return 0, 0, ErrLiquidationNotProfitable
	}

	repayWithBonus, err := mulDiv(repay, bonusDenom, BpsDenominator)
	if err != nil {
		return 0, 0, err
	}
	seize, err := collateralFromUSD(repayWithBonus, protocol.PriceUSD, CollateralDecimals)
	if err != nil {
		return 0, 0, err
	}
	// Unreachable given the maxRepay derivation; guards against rounding
	// error accumulation. Treated as an invariant violation.
	if seize > vault.Collateral {
		return 0, 0, ErrMathOverflow
	}

	newCollateral, err := checkedSub(vault.Collateral, seize)
	if err != nil {
		return 0, 0, err
	}
	newDebt, err := checkedSub(vault.Debt, repay)
	if err != nil {
		return 0, 0, err
	}
	newTotalCollateral, err := checkedSub(protocol.TotalCollateral, seize)
	if err != nil {
		return 0, 0, err
	}
	newTotalDebt, err := checkedSub(protocol.TotalDebt, repay)
	if err != nil {
		return 0, 0, err
	}

	if err := e.ledger.BurnStable(liquidator, protocol.StableMint, repay); err != nil {
		return 0, 0, err
	}
	if err := e.ledger.MoveCollateral(vault.EscrowAddress(), liquidator, seize); err != nil {
		return 0, 0, err
	}

	vault.Collateral = newCollateral
	vault.Debt = newDebt
	protocol.TotalCollateral = newTotalCollateral
	protocol.TotalDebt = newTotalDebt
	if err := e.state.PutVault(vault); err != nil {
		return 0, 0, err
	}
	if err := e.state.PutProtocol(protocol); err != nil {
		return 0, 0, err
	}

	e.emit(NewVaultLiquidatedEvent(vaultOwner, liquidator, repay, seize))
	return repay, seize, nil
}

// Health returns the pure-read health summary for a vault. No state mutation.
func (e *Engine) Health(owner crypto.Address) (*VaultHealth, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	protocol, err := e.loadProtocol()
	if err != nil {
		return nil, err
	}
	vault, err := e.loadVault(owner)
	if err != nil {
		return nil, err
	}

	collateralValue, err := usdValue(vault.Collateral, protocol.PriceUSD, CollateralDecimals)
	if err != nil {
		return nil, err
	}
	ratio := uint64(math.MaxUint64)
	if vault.Debt > 0 {
		ratio, err = ratioBps(collateralValue, vault.Debt)
		if err != nil {
			return nil, err
		}
	}
	return &VaultHealth{
		Collateral:         vault.Collateral,
		CollateralValueUSD: collateralValue,
		Debt:               vault.Debt,
		RatioBps:           ratio,
		IsLiquidatable:     vault.Debt > 0 && ratio < LiquidationThresholdBps,
	}, nil
}

func (e *Engine) loadProtocol() (*ProtocolState, error) {
	protocol, err := e.state.GetProtocol()
	if err != nil {
		return nil, err
	}
	if protocol == nil {
		return nil, errNotInitialised
	}
	return protocol, nil
}

func (e *Engine) loadVault(owner crypto.Address) (*Vault, error) {
	vault, err := e.state.GetVault(owner)
	if err != nil {
		return nil, err
	}
	if vault == nil {
		return nil, ErrVaultNotFound
	}
	if !vault.Owner.Equal(owner) {
		return nil, ErrInvalidVaultOwner
	}
	return vault, nil
}
