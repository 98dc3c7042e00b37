package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/slog"
	"github.com/pkg/errors"

	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/config"
	"github.com/bitfsorg/libspedn-go/keys"
)

const seedFileName = "seed.dat"

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

// environment is the resolved configuration shared by every sub-command.
type environment struct {
	cfg     config.Config
	network *keys.NetworkConfig
}

func loadEnvironment(global *globalFlags) (*environment, error) {
	path := global.ConfigFile
	if path == "" {
		dataDir := global.DataDir
		if dataDir == "" {
			dataDir = config.DefaultDataDir()
		}
		path = config.ConfigPath(dataDir)
	}

	loader := config.NewLoader(config.EnvPrefix)
	if err := loader.SetConfigFilePath(path); err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if global.DataDir != "" {
		cfg.DataDir = global.DataDir
	}
	if global.Network != "" {
		cfg.Network = global.Network
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	config.ApplyLogging(cfg.Log)

	network, err := keys.GetNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	slog.WithFields(slog.M{
		"network":  network.Name,
		"data_dir": cfg.DataDir,
	}).Debug("configuration loaded")

	return &environment{cfg: cfg, network: network}, nil
}

func (e *environment) seedPath() string {
	return filepath.Join(e.cfg.DataDir, seedFileName)
}

func (e *environment) openStore() (*coin.BoltStore, error) {
	return coin.OpenBoltStore(e.cfg.CoinStorePath())
}

func (e *environment) wallet(w WalletFlags) (*keys.Wallet, error) {
	if w.Mnemonic != "" {
		return keys.NewWalletFromMnemonic(w.Mnemonic, w.Passphrase, e.network)
	}
	if w.Password == "" {
		return nil, errors.New("a seed file password (--password or SPEDN_SEED_PASSWORD) or --mnemonic is required")
	}
	seed, err := keys.LoadSeedFile(e.seedPath(), w.Password)
	if err != nil {
		return nil, err
	}
	return keys.NewWallet(seed, e.network)
}

// lazyDeriver opens the wallet on first use, so requests that need no key
// never ask for one.
func (e *environment) lazyDeriver(w WalletFlags) deriveFunc {
	var wallet *keys.Wallet
	return func(path string) (*keys.PrivateKey, error) {
		if wallet == nil {
			var err error
			if wallet, err = e.wallet(w); err != nil {
				return nil, err
			}
		}
		return wallet.Derive(path)
	}
}
