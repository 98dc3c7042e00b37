package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/tx"
)

func coinsAdd(env *environment, conf *coinsAddConfig) error {
	c, err := newStoredCoin(conf, env.lazyDeriver(conf.WalletFlags))
	if err != nil {
		return err
	}

	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(c); err != nil {
		return err
	}
	fmt.Printf("added %s\n", c)
	return nil
}

// newStoredCoin builds the coin described by the add flags. A key path
// stands in for the P2PKH script paying to that key.
func newStoredCoin(conf *coinsAddConfig, derive deriveFunc) (*coin.Coin, error) {
	op, err := tx.NewOutpointFromString(conf.Outpoint)
	if err != nil {
		return nil, err
	}

	var lock []byte
	switch {
	case conf.Script != "" && conf.Key != "":
		return nil, errors.New("--script and --key are mutually exclusive")
	case conf.Script != "":
		if lock, err = hex.DecodeString(conf.Script); err != nil {
			return nil, errors.Wrap(err, "--script")
		}
	case conf.Key != "":
		key, err := derive(conf.Key)
		if err != nil {
			return nil, err
		}
		if lock, err = key.LockingScript(); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("one of --script or --key is required")
	}

	var meta *coin.Confirmation
	if conf.Height != 0 {
		meta = &coin.Confirmation{Height: conf.Height}
	}

	if len(conf.Challenges) == 0 {
		return coin.NewKeyedCoin(op, conf.Amount, lock, meta)
	}
	challenges := make([]coin.Challenge, 0, len(conf.Challenges))
	for _, s := range conf.Challenges {
		ch, err := parseChallengeFlag(s)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}
	return coin.NewContractCoin(op, conf.Amount, challenges, lock, meta)
}

// parseChallengeFlag parses name:type[:size].
func parseChallengeFlag(s string) (coin.Challenge, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return coin.Challenge{}, errors.Errorf("challenge %q must be name:type[:size]", s)
	}
	typ, err := coin.ParseParamType(parts[1])
	if err != nil {
		return coin.Challenge{}, err
	}
	ch := coin.Challenge{Name: parts[0], Type: typ}
	if len(parts) == 3 {
		size, err := strconv.Atoi(parts[2])
		if err != nil {
			return coin.Challenge{}, errors.Wrapf(err, "challenge %q size", s)
		}
		ch.Size = size
	}
	return ch, nil
}

func coinsList(env *environment) error {
	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	coins, err := store.List()
	if err != nil {
		return err
	}
	total, err := coin.Total(coins)
	if err != nil {
		return err
	}
	for _, c := range coins {
		fmt.Println(c)
	}
	fmt.Printf("total: %d in %d coins\n", total, len(coins))
	return nil
}

func coinsRemove(env *environment, conf *coinsRemoveConfig) error {
	op, err := tx.NewOutpointFromString(conf.Outpoint)
	if err != nil {
		return err
	}

	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(op); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", op)
	return nil
}
