package state

// Key layout for the vault engine's durable records. The protocol state is a
// singleton; vaults and accounts are keyed by the 20-byte address.
var (
	protocolKey     = []byte("vault/protocol")
	vaultPrefix     = []byte("vault/record/")
	accountPrefix   = []byte("ledger/account/")
	stableSupplyKey = []byte("ledger/stable-supply")
)

func vaultKey(owner []byte) []byte {
	key := make([]byte, 0, len(vaultPrefix)+len(owner))
	key = append(key, vaultPrefix...)
	return append(key, owner...)
}

func accountKey(addr []byte) []byte {
	key := make([]byte, 0, len(accountPrefix)+len(addr))
	key = append(key, accountPrefix...)
	return append(key, addr...)
}
