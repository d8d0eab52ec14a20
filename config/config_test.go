package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.RPCAddress)
	require.Equal(t, "./gusd-data", cfg.DataDir)
	require.Equal(t, "gusd-local", cfg.NetworkName)
	require.Equal(t, uint64(1_000_000), cfg.InitialPriceUSD)

	// The default file must be written and loadable on the next start.
	_, err = os.Stat(path)
	require.NoError(t, err)
	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestLoadNormalizesBlankFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
RPCAddress = "  "
DataDir = ""
NetworkName = ""
InitialPriceUSD = 500000
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.RPCAddress)
	require.Equal(t, "./gusd-data", cfg.DataDir)
	require.Equal(t, "gusd-local", cfg.NetworkName)
	require.Equal(t, uint64(500_000), cfg.InitialPriceUSD)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
RPCAddress = ":8080"
Bogus = true
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Bogus")
}

func TestLoadValidatesAddresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
AdminAddress = "not-a-bech32-address"
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "AdminAddress")
}

func TestAdminAndMintDecoding(t *testing.T) {
	cfg := &Config{}
	admin, err := cfg.Admin()
	require.NoError(t, err)
	require.True(t, admin.IsZero())

	mint, err := cfg.Mint()
	require.NoError(t, err)
	require.True(t, mint.IsZero())
}
