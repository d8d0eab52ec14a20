package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"gusd/crypto"
)

// Config captures the runtime settings for the gusdd daemon.
type Config struct {
	RPCAddress      string `toml:"RPCAddress"`
	DataDir         string `toml:"DataDir"`
	NetworkName     string `toml:"NetworkName"`
	AdminAddress    string `toml:"AdminAddress"`
	StableMint      string `toml:"StableMint"`
	InitialPriceUSD uint64 `toml:"InitialPriceUSD"`
}

// Load loads the configuration from the given path, creating a commented
// default file when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown field %q", path, undecoded[0].String())
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() {
	if cfg == nil {
		return
	}
	cfg.RPCAddress = strings.TrimSpace(cfg.RPCAddress)
	if cfg.RPCAddress == "" {
		cfg.RPCAddress = ":8080"
	}
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = "./gusd-data"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "gusd-local"
	}
	cfg.AdminAddress = strings.TrimSpace(cfg.AdminAddress)
	cfg.StableMint = strings.TrimSpace(cfg.StableMint)
}

// Validate checks the decoded configuration for usable values.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("configuration is missing")
	}
	if cfg.AdminAddress != "" {
		if _, err := crypto.DecodeAddress(cfg.AdminAddress); err != nil {
			return fmt.Errorf("invalid AdminAddress: %w", err)
		}
	}
	if cfg.StableMint != "" {
		if _, err := crypto.DecodeAddress(cfg.StableMint); err != nil {
			return fmt.Errorf("invalid StableMint: %w", err)
		}
	}
	return nil
}

// Admin returns the decoded admin address. The zero address is returned when
// the field is unset.
func (cfg *Config) Admin() (crypto.Address, error) {
	if cfg == nil || cfg.AdminAddress == "" {
		return crypto.Address{}, nil
	}
	return crypto.DecodeAddress(cfg.AdminAddress)
}

// Mint returns the decoded stable mint authority address. The zero address is
// returned when the field is unset.
func (cfg *Config) Mint() (crypto.Address, error) {
	if cfg == nil || cfg.StableMint == "" {
		return crypto.Address{}, nil
	}
	return crypto.DecodeAddress(cfg.StableMint)
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:      ":8080",
		DataDir:         "./gusd-data",
		NetworkName:     "gusd-local",
		InitialPriceUSD: 1_000_000, // $1.00 with 6 implied decimals
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
