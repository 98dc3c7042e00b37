package main

import (
	"fmt"
	"os"

	"github.com/gookit/slog"
	"github.com/pkg/errors"

	"github.com/bitfsorg/libspedn-go/builder"
	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/tx"
)

func build(env *environment, conf *buildConfig) error {
	data, err := os.ReadFile(conf.Request)
	if err != nil {
		return errors.Wrap(err, "reading spend request")
	}
	req, err := parseSpendRequest(data)
	if err != nil {
		return err
	}

	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	t, spent, err := buildSpend(newBuilder(env, req), req, store.Get, env.lazyDeriver(conf.WalletFlags))
	if err != nil {
		return err
	}

	totalIn, err := coin.Total(spent)
	if err != nil {
		return err
	}

	fmt.Printf("txid: %s\n", t.ID())
	fmt.Printf("size: %d\n", t.Size())
	fmt.Printf("fee: %d\n", totalIn-t.TotalOutput())
	fmt.Printf("hex: %s\n", t.Hex())

	if conf.UpdateStore {
		return updateStore(store, req, t, spent)
	}
	return nil
}

func newBuilder(env *environment, req *spendRequest) *builder.TxBuilder {
	opts := []builder.Option{
		builder.WithNetwork(env.network.Network),
		builder.WithPolicy(env.cfg.BuilderPolicy()),
		builder.WithLogger(slog.Std().Logger),
	}
	if req.Version != 0 {
		opts = append(opts, builder.WithVersion(req.Version))
	}
	if req.LockTime != 0 {
		opts = append(opts, builder.WithLockTime(req.LockTime))
	}
	return builder.New(opts...)
}

// updateStore removes the spent coins and records the change output in
// one store update.
func updateStore(store coin.Store, req *spendRequest, t *tx.Transaction, spent []*coin.Coin) error {
	change, err := changeCoin(req, t)
	if err != nil {
		return err
	}
	ops := make([]tx.Outpoint, len(spent))
	for i, c := range spent {
		ops[i] = c.Outpoint()
	}
	var created []*coin.Coin
	if change != nil {
		created = append(created, change)
	}
	if err := store.Apply(ops, created); err != nil {
		return errors.Wrap(err, "updating coin store")
	}
	if change != nil {
		slog.Infof("change recorded: %s", change)
	}
	return nil
}
