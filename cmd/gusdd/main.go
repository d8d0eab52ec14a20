package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gusd/config"
	"gusd/core/state"
	"gusd/core/types"
	"gusd/crypto"
	"gusd/native/vault"
	"gusd/observability/logging"
	"gusd/observability/metrics"
	"gusd/rpc"
	"gusd/storage"
)

// logSink forwards engine events to the process logger.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) Emit(evt *types.Event) {
	if evt == nil {
		return
	}
	attrs := make([]any, 0, len(evt.Attributes)*2)
	for key, value := range evt.Attributes {
		attrs = append(attrs, slog.String(key, value))
	}
	s.logger.With(attrs...).Info("event", slog.String("type", evt.Type))
}

func main() {
	var cfgPath string
	var keygen bool
	flag.StringVar(&cfgPath, "config", "./config.toml", "path to gusdd config")
	flag.BoolVar(&keygen, "keygen", false, "generate a key pair, print the address, and exit")
	flag.Parse()

	if keygen {
		addr, privHex, err := generateOperatorKey()
		if err != nil {
			log.Fatalf("generate key: %v", err)
		}
		fmt.Printf("address: %s\nprivate key: %s\n", addr, privHex)
		return
	}

	env := strings.TrimSpace(os.Getenv("GUSD_ENV"))
	logger := logging.Setup("gusdd", env)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		log.Fatalf("open database at %s: %v", cfg.DataDir, err)
	}
	defer func() {
		_ = db.Close()
	}()

	manager := state.NewManager(db)
	engine := vault.NewEngine(manager, manager)
	engine.SetEventSink(&logSink{logger: logger})

	if err := bootstrap(engine, manager, cfg, logger); err != nil {
		log.Fatalf("bootstrap protocol: %v", err)
	}

	server := rpc.NewServer(engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("gusdd listening",
		slog.String("addr", cfg.RPCAddress),
		slog.String("network", cfg.NetworkName),
	)
	if err := server.Start(ctx, cfg.RPCAddress); err != nil {
		log.Fatalf("rpc server: %v", err)
	}
	logger.Info("shutdown complete")
}

// generateOperatorKey mints a fresh key pair for configuring AdminAddress or
// StableMint. The private key is printed hex-encoded for the operator to store
// out of band; the daemon itself never persists keys.
func generateOperatorKey() (string, string, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return "", "", err
	}
	return key.PubKey().Address().String(), hex.EncodeToString(key.Bytes()), nil
}

// bootstrap initialises the protocol record on first start. Subsequent starts
// leave the persisted state untouched.
func bootstrap(engine *vault.Engine, manager *state.Manager, cfg *config.Config, logger *slog.Logger) error {
	existing, err := manager.GetProtocol()
	if err != nil {
		return err
	}
	if existing != nil {
		metrics.Vault().SetPrice(existing.PriceUSD)
		return nil
	}
	admin, err := cfg.Admin()
	if err != nil {
		return err
	}
	if admin.IsZero() {
		logger.Warn("AdminAddress not configured; protocol left uninitialised")
		return nil
	}
	mint, err := cfg.Mint()
	if err != nil {
		return err
	}
	if err := engine.Initialize(admin, mint, cfg.InitialPriceUSD, time.Now().Unix()); err != nil {
		return err
	}
	metrics.Vault().SetPrice(cfg.InitialPriceUSD)
	logger.Info("protocol initialised",
		slog.String("admin", admin.String()),
		slog.Uint64("initialPriceUsd", cfg.InitialPriceUSD),
	)
	return nil
}
