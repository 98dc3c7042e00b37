package main

import (
	"bytes"
	"encoding/hex"
	"maps"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/libspedn-go/builder"
	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/digest"
	"github.com/bitfsorg/libspedn-go/keys"
	"github.com/bitfsorg/libspedn-go/template"
	"github.com/bitfsorg/libspedn-go/tx"
)

// spendRequest is the YAML document accepted by the build command.
type spendRequest struct {
	AllowOverpay bool            `yaml:"allow_overpay"`
	Version      uint32          `yaml:"version"`
	LockTime     uint32          `yaml:"lock_time"`
	Inputs       []inputRequest  `yaml:"inputs"`
	Outputs      []outputRequest `yaml:"outputs"`
	Change       string          `yaml:"change"`
}

// inputRequest names a coin by outpoint. Amount and locking script may be
// given inline; otherwise the coin is read from the coin store.
type inputRequest struct {
	Outpoint      string                  `yaml:"outpoint"`
	Amount        uint64                  `yaml:"amount"`
	LockingScript string                  `yaml:"locking_script"`
	Key           string                  `yaml:"key"`
	Challenges    []challengeRequest      `yaml:"challenges"`
	Params        map[string]paramRequest `yaml:"params"`
}

type challengeRequest struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Size int    `yaml:"size"`
}

// paramRequest sets exactly one field.
type paramRequest struct {
	Sign     string           `yaml:"sign"`
	SignData *signDataRequest `yaml:"sign_data"`
	PubKey   string           `yaml:"pubkey"`
	Hex      *string          `yaml:"hex"`
	Text     *string          `yaml:"text"`
	Int      *int64           `yaml:"int"`
	Bool     *bool            `yaml:"bool"`
}

type signDataRequest struct {
	Key     string `yaml:"key"`
	Message string `yaml:"message"`
}

// outputRequest is a payment to an address or raw script, or a data carrier.
type outputRequest struct {
	Address string   `yaml:"address"`
	Script  string   `yaml:"script"`
	Amount  uint64   `yaml:"amount"`
	Data    []string `yaml:"data"`
}

// deriveFunc resolves a derivation path to a signing key.
type deriveFunc func(path string) (*keys.PrivateKey, error)

// lookupFunc fetches a stored coin.
type lookupFunc func(op tx.Outpoint) (*coin.Coin, error)

func parseSpendRequest(data []byte) (*spendRequest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	req := &spendRequest{}
	if err := dec.Decode(req); err != nil {
		return nil, errors.Wrap(err, "decoding spend request")
	}
	return req, nil
}

// buildSpend registers the request on b and builds it. It returns the coins
// spent in input order.
func buildSpend(b *builder.TxBuilder, req *spendRequest, lookup lookupFunc, derive deriveFunc) (*tx.Transaction, []*coin.Coin, error) {
	spent := make([]*coin.Coin, 0, len(req.Inputs))
	for i, in := range req.Inputs {
		c, unlocker, err := resolveInput(in, lookup, derive)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "input %d", i)
		}
		if err := b.AddInput(c, unlocker); err != nil {
			return nil, nil, errors.Wrapf(err, "input %d", i)
		}
		spent = append(spent, c)
	}

	for i, out := range req.Outputs {
		if err := addOutput(b, out); err != nil {
			return nil, nil, errors.Wrapf(err, "output %d", i)
		}
	}
	if req.Change != "" {
		if err := b.AddChangeAddress(req.Change); err != nil {
			return nil, nil, errors.Wrap(err, "change")
		}
	}

	t, err := b.Build(req.AllowOverpay)
	if err != nil {
		return nil, nil, err
	}
	return t, spent, nil
}

func resolveInput(in inputRequest, lookup lookupFunc, derive deriveFunc) (*coin.Coin, builder.Unlocker, error) {
	op, err := tx.NewOutpointFromString(in.Outpoint)
	if err != nil {
		return nil, nil, err
	}

	var c *coin.Coin
	switch {
	case in.Amount == 0 && in.LockingScript == "":
		if c, err = lookup(op); err != nil {
			return nil, nil, err
		}
	default:
		if c, err = inlineCoin(op, in); err != nil {
			return nil, nil, err
		}
	}

	if c.Kind() == coin.KindKeyed {
		if in.Key == "" {
			return nil, nil, errors.Errorf("keyed coin %s needs a key path", op)
		}
		key, err := derive(in.Key)
		if err != nil {
			return nil, nil, err
		}
		return c, builder.SignWith(key), nil
	}

	unlocker, err := contractUnlocker(in.Params, derive)
	if err != nil {
		return nil, nil, err
	}
	return c, unlocker, nil
}

func inlineCoin(op tx.Outpoint, in inputRequest) (*coin.Coin, error) {
	lock, err := hex.DecodeString(in.LockingScript)
	if err != nil {
		return nil, errors.Wrap(err, "locking_script")
	}
	if len(in.Challenges) == 0 {
		return coin.NewKeyedCoin(op, in.Amount, lock, nil)
	}
	challenges, err := parseChallenges(in.Challenges)
	if err != nil {
		return nil, err
	}
	return coin.NewContractCoin(op, in.Amount, challenges, lock, nil)
}

func parseChallenges(reqs []challengeRequest) ([]coin.Challenge, error) {
	out := make([]coin.Challenge, 0, len(reqs))
	for _, r := range reqs {
		typ, err := coin.ParseParamType(r.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, coin.Challenge{Name: r.Name, Type: typ, Size: r.Size})
	}
	return out, nil
}

type pendingDataSig struct {
	key     *keys.PrivateKey
	message []byte
}

// contractUnlocker resolves keys and literal values up front. Signatures
// are made in the signing phase, against the final outputs.
func contractUnlocker(reqs map[string]paramRequest, derive deriveFunc) (builder.Unlocker, error) {
	static := template.Params{}
	sigs := map[string]*keys.PrivateKey{}
	dataSigs := map[string]pendingDataSig{}

	for name, r := range reqs {
		set := 0
		if r.Sign != "" {
			set++
			key, err := derive(r.Sign)
			if err != nil {
				return nil, errors.Wrapf(err, "param %q", name)
			}
			sigs[name] = key
		}
		if r.SignData != nil {
			set++
			key, err := derive(r.SignData.Key)
			if err != nil {
				return nil, errors.Wrapf(err, "param %q", name)
			}
			dataSigs[name] = pendingDataSig{key: key, message: []byte(r.SignData.Message)}
		}
		if r.PubKey != "" {
			set++
			key, err := derive(r.PubKey)
			if err != nil {
				return nil, errors.Wrapf(err, "param %q", name)
			}
			static[name] = template.Bytes(key.PubKey())
		}
		if r.Hex != nil {
			set++
			b, err := hex.DecodeString(*r.Hex)
			if err != nil {
				return nil, errors.Wrapf(err, "param %q", name)
			}
			static[name] = template.Bytes(b)
		}
		if r.Text != nil {
			set++
			static[name] = template.Bytes([]byte(*r.Text))
		}
		if r.Int != nil {
			set++
			static[name] = template.Int(*r.Int)
		}
		if r.Bool != nil {
			set++
			static[name] = template.Bool(*r.Bool)
		}
		if set != 1 {
			return nil, errors.Errorf("param %q must set exactly one value, has %d", name, set)
		}
	}

	derLen := template.MaxDataSigLen
	for _, key := range sigs {
		derLen = max(derLen, digest.MaxSignatureLen(key))
	}
	for _, ds := range dataSigs {
		derLen = max(derLen, digest.MaxSignatureLen(ds.key))
	}

	u := builder.UnlockFunc(func(ctx *builder.SigningContext) ([]byte, error) {
		params := maps.Clone(static)
		for name, key := range sigs {
			sig, err := ctx.Sign(key)
			if err != nil {
				return nil, err
			}
			params[name] = template.Bytes(sig)
		}
		for name, ds := range dataSigs {
			sig, err := ctx.SignData(ds.key, ds.message)
			if err != nil {
				return nil, err
			}
			params[name] = template.Bytes(sig)
		}
		return ctx.Spend(params)
	})
	return builder.WithSignatureLen(u, derLen), nil
}

func addOutput(b *builder.TxBuilder, out outputRequest) error {
	set := 0
	for _, s := range []bool{out.Address != "", out.Script != "", len(out.Data) > 0} {
		if s {
			set++
		}
	}
	if set != 1 {
		return errors.New("output must set exactly one of address, script or data")
	}

	switch {
	case out.Address != "":
		return b.AddOutputAddress(out.Address, out.Amount)
	case out.Script != "":
		lock, err := hex.DecodeString(out.Script)
		if err != nil {
			return errors.Wrap(err, "script")
		}
		return b.AddOutput(lock, out.Amount)
	default:
		if out.Amount != 0 {
			return errors.Errorf("data output cannot carry an amount (%d)", out.Amount)
		}
		pushes := make([][]byte, len(out.Data))
		for i, d := range out.Data {
			pushes[i] = []byte(d)
		}
		return b.AddDataOutput(pushes...)
	}
}

// changeCoin returns the change output of t as a keyed coin, or nil when
// the request has no change address.
func changeCoin(req *spendRequest, t *tx.Transaction) (*coin.Coin, error) {
	if req.Change == "" {
		return nil, nil
	}
	index := len(t.Outputs) - 1
	out := t.Outputs[index]
	return coin.NewKeyedCoin(tx.Outpoint{TxID: t.TxID(), Index: uint32(index)}, out.Amount, out.LockingScript, nil)
}
