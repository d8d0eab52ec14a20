package rpc

import (
	"net/http"
	"time"

	"gusd/crypto"
)

func (s *Server) handleProtocolGet(w http.ResponseWriter, req *RPCRequest) {
	protocol, err := s.engine.Protocol()
	if err != nil {
		s.writeEngineError(w, req.ID, "protocol_get", err)
		return
	}
	writeResult(w, req.ID, protocolResult{
		Admin:           protocol.Admin.String(),
		PriceUSD:        protocol.PriceUSD,
		TotalCollateral: protocol.TotalCollateral,
		TotalDebt:       protocol.TotalDebt,
		Paused:          protocol.Paused,
		LastPriceUpdate: protocol.LastPriceUpdate,
	})
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, req *RPCRequest) {
	var params updatePriceParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	newPrice, err := parseAmount("newPrice", params.NewPrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engine.UpdatePrice(caller, newPrice, time.Now().Unix()); err != nil {
		s.writeEngineError(w, req.ID, "protocol_updatePrice", err)
		return
	}
	s.metrics.RecordOperation("protocol_updatePrice")
	s.metrics.SetPrice(newPrice)
	writeResult(w, req.ID, map[string]uint64{"priceUsd": newPrice})
}

func (s *Server) handlePause(w http.ResponseWriter, req *RPCRequest) {
	var params adminParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engine.Pause(caller); err != nil {
		s.writeEngineError(w, req.ID, "protocol_pause", err)
		return
	}
	s.metrics.RecordOperation("protocol_pause")
	writeResult(w, req.ID, map[string]bool{"paused": true})
}

func (s *Server) handleUnpause(w http.ResponseWriter, req *RPCRequest) {
	var params adminParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engine.Unpause(caller); err != nil {
		s.writeEngineError(w, req.ID, "protocol_unpause", err)
		return
	}
	s.metrics.RecordOperation("protocol_unpause")
	writeResult(w, req.ID, map[string]bool{"paused": false})
}

func (s *Server) handleTransferAdmin(w http.ResponseWriter, req *RPCRequest) {
	var params transferAdminParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	newAdmin, err := parseAddress("newAdmin", params.NewAdmin)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engine.TransferAdmin(caller, newAdmin); err != nil {
		s.writeEngineError(w, req.ID, "protocol_transferAdmin", err)
		return
	}
	s.metrics.RecordOperation("protocol_transferAdmin")
	writeResult(w, req.ID, map[string]string{"admin": newAdmin.String()})
}

func (s *Server) handleVaultCreate(w http.ResponseWriter, req *RPCRequest) {
	var params vaultParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engine.CreateVault(owner, time.Now().Unix()); err != nil {
		s.writeEngineError(w, req.ID, "vault_create", err)
		return
	}
	s.metrics.RecordOperation("vault_create")
	writeResult(w, req.ID, map[string]string{"owner": owner.String()})
}

func (s *Server) handleVaultDeposit(w http.ResponseWriter, req *RPCRequest) {
	owner, amount, ok := s.ownerAmount(w, req)
	if !ok {
		return
	}
	if err := s.engine.Deposit(owner, amount); err != nil {
		s.writeEngineError(w, req.ID, "vault_deposit", err)
		return
	}
	s.metrics.RecordOperation("vault_deposit")
	writeResult(w, req.ID, map[string]uint64{"deposited": amount})
}

func (s *Server) handleVaultMint(w http.ResponseWriter, req *RPCRequest) {
	owner, amount, ok := s.ownerAmount(w, req)
	if !ok {
		return
	}
	ratio, err := s.engine.Mint(owner, amount)
	if err != nil {
		s.writeEngineError(w, req.ID, "vault_mint", err)
		return
	}
	s.metrics.RecordOperation("vault_mint")
	writeResult(w, req.ID, mintResult{CollateralRatioBps: ratio})
}

func (s *Server) handleVaultRepay(w http.ResponseWriter, req *RPCRequest) {
	owner, amount, ok := s.ownerAmount(w, req)
	if !ok {
		return
	}
	repaid, err := s.engine.Repay(owner, amount)
	if err != nil {
		s.writeEngineError(w, req.ID, "vault_repay", err)
		return
	}
	s.metrics.RecordOperation("vault_repay")
	writeResult(w, req.ID, repayResult{Repaid: repaid})
}

func (s *Server) handleVaultWithdraw(w http.ResponseWriter, req *RPCRequest) {
	owner, amount, ok := s.ownerAmount(w, req)
	if !ok {
		return
	}
	if err := s.engine.Withdraw(owner, amount); err != nil {
		s.writeEngineError(w, req.ID, "vault_withdraw", err)
		return
	}
	s.metrics.RecordOperation("vault_withdraw")
	writeResult(w, req.ID, map[string]uint64{"withdrawn": amount})
}

func (s *Server) handleVaultClose(w http.ResponseWriter, req *RPCRequest) {
	var params vaultParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	residual, err := s.engine.Close(owner)
	if err != nil {
		s.writeEngineError(w, req.ID, "vault_close", err)
		return
	}
	s.metrics.RecordOperation("vault_close")
	writeResult(w, req.ID, closeResult{Residual: residual})
}

func (s *Server) handleVaultLiquidate(w http.ResponseWriter, req *RPCRequest) {
	var params liquidateParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	liquidator, err := parseAddress("liquidator", params.Liquidator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	vaultOwner, err := parseAddress("vaultOwner", params.VaultOwner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	repaid, seized, err := s.engine.Liquidate(liquidator, vaultOwner)
	if err != nil {
		s.writeEngineError(w, req.ID, "vault_liquidate", err)
		return
	}
	s.metrics.RecordOperation("vault_liquidate")
	s.metrics.RecordLiquidation()
	writeResult(w, req.ID, liquidateResult{DebtRepaid: repaid, CollateralSeized: seized})
}

func (s *Server) handleVaultHealth(w http.ResponseWriter, req *RPCRequest) {
	var params vaultParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	health, err := s.engine.Health(owner)
	if err != nil {
		s.writeEngineError(w, req.ID, "vault_health", err)
		return
	}
	writeResult(w, req.ID, health)
}

func (s *Server) ownerAmount(w http.ResponseWriter, req *RPCRequest) (crypto.Address, uint64, bool) {
	var params vaultAmountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return crypto.Address{}, 0, false
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return crypto.Address{}, 0, false
	}
	amount, err := parseAmount("amount", params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return crypto.Address{}, 0, false
	}
	return owner, amount, true
}
