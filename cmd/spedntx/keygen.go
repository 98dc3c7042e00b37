package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/bitfsorg/libspedn-go/keys"
)

func keygen(env *environment, conf *keygenConfig) error {
	path := env.seedPath()
	if _, err := os.Stat(path); err == nil && !conf.Force {
		return errors.Errorf("seed file %s already exists, use --force to replace it", path)
	}

	mnemonic, err := keys.GenerateMnemonic(conf.Bits)
	if err != nil {
		return err
	}
	seed, err := keys.SeedFromMnemonic(mnemonic, conf.Passphrase)
	if err != nil {
		return err
	}
	if err := keys.SaveSeedFile(path, seed, conf.Password); err != nil {
		return err
	}

	wallet, err := keys.NewWallet(seed, env.network)
	if err != nil {
		return err
	}
	receive, err := firstAddress(wallet, keys.ExternalChain)
	if err != nil {
		return err
	}
	change, err := firstAddress(wallet, keys.InternalChain)
	if err != nil {
		return err
	}

	fmt.Printf("Mnemonic (write it down, it is not stored in clear):\n%s\n\n", mnemonic)
	fmt.Printf("Seed file: %s\n", path)
	fmt.Printf("First receive address (%s): %s\n", keys.AccountPath(keys.CoinTypeBCH, 0, keys.ExternalChain, 0), receive)
	fmt.Printf("First change address (%s): %s\n", keys.AccountPath(keys.CoinTypeBCH, 0, keys.InternalChain, 0), change)
	return nil
}

// firstAddress returns the address at index 0 of chain in account 0.
func firstAddress(w *keys.Wallet, chain uint32) (string, error) {
	key, err := w.DeriveAccountKey(keys.CoinTypeBCH, 0, chain, 0)
	if err != nil {
		return "", err
	}
	addr, err := key.Address(w.Network().Network)
	if err != nil {
		return "", err
	}
	return addr.AddressString, nil
}
