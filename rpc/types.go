package rpc

import (
	"fmt"
	"strconv"
	"strings"

	"gusd/crypto"
)

type protocolResult struct {
	Admin           string `json:"admin"`
	PriceUSD        uint64 `json:"collateralPriceUsd"`
	TotalCollateral uint64 `json:"totalCollateral"`
	TotalDebt       uint64 `json:"totalDebt"`
	Paused          bool   `json:"paused"`
	LastPriceUpdate int64  `json:"lastPriceUpdateTs"`
}

type updatePriceParams struct {
	Caller   string `json:"caller"`
	NewPrice string `json:"newPrice"`
}

type adminParams struct {
	Caller string `json:"caller"`
}

type transferAdminParams struct {
	Caller   string `json:"caller"`
	NewAdmin string `json:"newAdmin"`
}

type vaultParams struct {
	Owner string `json:"owner"`
}

type vaultAmountParams struct {
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

type liquidateParams struct {
	Liquidator string `json:"liquidator"`
	VaultOwner string `json:"vaultOwner"`
}

type mintResult struct {
	CollateralRatioBps uint64 `json:"collateralRatioBps"`
}

type repayResult struct {
	Repaid uint64 `json:"repaid"`
}

type closeResult struct {
	Residual uint64 `json:"residual"`
}

type liquidateResult struct {
	DebtRepaid       uint64 `json:"debtRepaid"`
	CollateralSeized uint64 `json:"collateralSeized"`
}

func parseAddress(field, value string) (crypto.Address, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return crypto.Address{}, fmt.Errorf("%s is required", field)
	}
	addr, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return crypto.Address{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return addr, nil
}

func parseAmount(field, value string) (uint64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	amount, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return amount, nil
}
