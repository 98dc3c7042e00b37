package main

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libspedn-go/builder"
	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/keys"
	"github.com/bitfsorg/libspedn-go/template"
	"github.com/bitfsorg/libspedn-go/tx"
)

const (
	fixtureMnemonic = "draw parade crater busy book swim soldier tragic exit feel top civil"
	fixtureTxID     = "ad70c931d742d6903271d1d3047701fb25b6859c440aeacf774d242f74f10738"

	// P2PKH scripts of m/44'/145'/0'/0/0, 0/1 and 1/0.
	lock0 = "76a914e9e306ca52851f80e50b7d8084686ee8871c51b188ac"
	lock1 = "76a9144bc71601ab9bd24df572b4f2a2173f810365890088ac"
	lock2 = "76a9140663e7a9b865b69e0b38fe1dcd201f44184f8c0e88ac"

	addr0 = "n2qdhq6KFWkWMdrS5VeVZYtQRFScq8Kofd"
	addr2 = "mg6k2ioHyrX54kSG5vNQfyPtSPpaiyPUAP"
)

func fixtureDeriver(t *testing.T) deriveFunc {
	t.Helper()
	w, err := keys.NewWalletFromMnemonic(fixtureMnemonic, "", &keys.TestNet)
	require.NoError(t, err)
	return w.Derive
}

func fixtureStore(t *testing.T) *coin.MemStore {
	t.Helper()
	s := coin.NewMemStore()
	for i, lock := range []string{lock0, lock1, lock2} {
		op, err := tx.NewOutpoint(fixtureTxID, uint32(i))
		require.NoError(t, err)
		c, err := coin.NewKeyedCoin(op, 100000, mustHex(t, lock), nil)
		require.NoError(t, err)
		require.NoError(t, s.Put(c))
	}
	return s
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func testnetBuilder() *builder.TxBuilder {
	return builder.New(builder.WithNetwork(tx.Testnet))
}

// changeRequest spends stored coins 0 and 1 with change to addr2.
func changeRequest(t *testing.T) *spendRequest {
	t.Helper()
	req, err := parseSpendRequest([]byte(`
inputs:
  - outpoint: "` + fixtureTxID + `:0"
    key: "m/44'/145'/0'/0/0"
  - outpoint: "` + fixtureTxID + `:1"
    key: "m/44'/145'/0'/0/1"
outputs:
  - address: ` + addr0 + `
    amount: 100000
change: ` + addr2 + `
`))
	require.NoError(t, err)
	return req
}

func TestBuildSpend_StoredCoinsWithChange(t *testing.T) {
	req := changeRequest(t)

	store := fixtureStore(t)
	txn, spent, err := buildSpend(testnetBuilder(), req, store.Get, fixtureDeriver(t))
	require.NoError(t, err)

	assert.Equal(t, "12955a672cb0bbc88454a509697ee5a16c8d7f77e94f9a558d0077180eab47c6", txn.ID())
	assert.Equal(t, 372, txn.Size())
	require.Len(t, spent, 2)
	total, err := coin.Total(spent)
	require.NoError(t, err)
	assert.Equal(t, uint64(200000), total)

	require.NoError(t, updateStore(store, req, txn, spent))
	left, err := store.List()
	require.NoError(t, err)
	require.Len(t, left, 2)

	change, err := store.Get(tx.Outpoint{TxID: txn.TxID(), Index: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(99628), change.Amount())
	assert.Equal(t, mustHex(t, lock2), change.LockingScript())
}

func TestUpdateStore_AllOrNothing(t *testing.T) {
	req := changeRequest(t)
	store := fixtureStore(t)
	txn, spent, err := buildSpend(testnetBuilder(), req, store.Get, fixtureDeriver(t))
	require.NoError(t, err)

	// With the change outpoint already taken the update must leave the
	// spent coins in place.
	change, err := changeCoin(req, txn)
	require.NoError(t, err)
	require.NotNil(t, change)
	require.NoError(t, store.Put(change))

	err = updateStore(store, req, txn, spent)
	require.ErrorIs(t, err, coin.ErrDuplicateCoin)
	left, err := store.List()
	require.NoError(t, err)
	assert.Len(t, left, 4)
	for _, c := range spent {
		_, err := store.Get(c.Outpoint())
		assert.NoError(t, err)
	}
}

func TestBuildSpend_InlineContractCoin(t *testing.T) {
	const contractTxID = "6b5c8d90e8ac791d00c1d70bcc7a52fb4fd9077bf07387b0db9240a919cdabdf"
	req, err := parseSpendRequest([]byte(`
inputs:
  - outpoint: "` + contractTxID + `:0"
    amount: 5000000
    locking_script: ` + lock1 + `
    challenges:
      - {name: sig, type: Sig}
      - {name: pubKey, type: PubKey}
    params:
      sig: {sign: "m/44'/145'/0'/0/1"}
      pubKey: {pubkey: "m/44'/145'/0'/0/1"}
  - outpoint: "` + contractTxID + `:1"
    amount: 4999700
    locking_script: ` + lock2 + `
    key: "m/44'/145'/0'/1/0"
outputs:
  - address: mnRdUBC3rf9NnhEMnPWHcJMvbzWAfdYDFw
    amount: 9999300
`))
	require.NoError(t, err)

	txn, spent, err := buildSpend(testnetBuilder(), req, coin.NewMemStore().Get, fixtureDeriver(t))
	require.NoError(t, err)
	assert.Equal(t, "d110ec218c74a228a039aebc11b6c32f6f1b5f9495c2f2572a7f019598e75e40", txn.ID())
	assert.Equal(t, coin.KindContract, spent[0].Kind())

	c, err := changeCoin(req, txn)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestBuildSpend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name: "coin not in store",
			yaml: `
inputs:
  - outpoint: "` + fixtureTxID + `:7"
    key: "m/0"
outputs:
  - address: ` + addr0 + `
    amount: 1000
`,
			wantErr: coin.ErrCoinNotFound,
		},
		{
			name: "overpay",
			yaml: `
inputs:
  - outpoint: "` + fixtureTxID + `:0"
    key: "m/44'/145'/0'/0/0"
outputs:
  - address: ` + addr0 + `
    amount: 1000
`,
			wantErr: builder.ErrOverpay,
		},
		{
			name: "missing contract param",
			yaml: `
inputs:
  - outpoint: "` + fixtureTxID + `:5"
    amount: 100000
    locking_script: ` + lock1 + `
    challenges:
      - {name: sig, type: Sig}
      - {name: pubKey, type: PubKey}
    params:
      sig: {sign: "m/44'/145'/0'/0/1"}
outputs:
  - address: ` + addr0 + `
    amount: 99000
`,
			wantErr: template.ErrMissingParam,
		},
		{
			name: "mainnet address on testnet",
			yaml: `
inputs:
  - outpoint: "` + fixtureTxID + `:0"
    key: "m/44'/145'/0'/0/0"
outputs:
  - address: 1NKgQn1LSVKFaXNpMvg7jdg5ZFquvek5Ka
    amount: 99000
`,
			wantErr: builder.ErrNetworkMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := parseSpendRequest([]byte(tc.yaml))
			require.NoError(t, err)
			_, _, err = buildSpend(testnetBuilder(), req, fixtureStore(t).Get, fixtureDeriver(t))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseSpendRequest_UnknownField(t *testing.T) {
	_, err := parseSpendRequest([]byte("inputs: []\nfee: 5\n"))
	assert.Error(t, err)
}

func TestResolveInput_RequestErrors(t *testing.T) {
	derive := fixtureDeriver(t)
	lookup := fixtureStore(t).Get
	op := fixtureTxID + ":0"
	one := int64(1)

	tests := []struct {
		name string
		in   inputRequest
	}{
		{"bad outpoint", inputRequest{Outpoint: "nope", Key: "m/0"}},
		{"keyed without key", inputRequest{Outpoint: op}},
		{"bad script hex", inputRequest{Outpoint: op, Amount: 1, LockingScript: "zz"}},
		{"unknown challenge type", inputRequest{Outpoint: op, Amount: 1, LockingScript: lock0,
			Challenges: []challengeRequest{{Name: "x", Type: "float"}}}},
		{"param with two values", inputRequest{Outpoint: op, Amount: 1, LockingScript: lock0,
			Challenges: []challengeRequest{{Name: "x", Type: "int"}},
			Params:     map[string]paramRequest{"x": {Int: &one, PubKey: "m/0"}}}},
		{"param with no value", inputRequest{Outpoint: op, Amount: 1, LockingScript: lock0,
			Challenges: []challengeRequest{{Name: "x", Type: "int"}},
			Params:     map[string]paramRequest{"x": {}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := resolveInput(tc.in, lookup, derive)
			assert.Error(t, err)
		})
	}
}

func TestAddOutput_Shapes(t *testing.T) {
	b := testnetBuilder()
	assert.Error(t, addOutput(b, outputRequest{Amount: 5}))
	assert.Error(t, addOutput(testnetBuilder(), outputRequest{Address: addr0, Script: lock0, Amount: 5}))
	assert.Error(t, addOutput(testnetBuilder(), outputRequest{Data: []string{"x"}, Amount: 5}))
	assert.NoError(t, addOutput(testnetBuilder(), outputRequest{Data: []string{"spedn", "v1"}}))
	assert.NoError(t, addOutput(testnetBuilder(), outputRequest{Script: lock0, Amount: 5}))
}

func TestParseChallengeFlag(t *testing.T) {
	ch, err := parseChallengeFlag("data:bin:20")
	require.NoError(t, err)
	assert.Equal(t, coin.Challenge{Name: "data", Type: coin.TypeBin, Size: 20}, ch)

	ch, err = parseChallengeFlag("s:Sig")
	require.NoError(t, err)
	assert.Equal(t, coin.TypeSig, ch.Type)

	for _, bad := range []string{"s", "s:float", "s:bin:x", "a:b:c:d"} {
		_, err := parseChallengeFlag(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewStoredCoin(t *testing.T) {
	derive := fixtureDeriver(t)
	op := fixtureTxID + ":3"

	c, err := newStoredCoin(&coinsAddConfig{Outpoint: op, Amount: 5000, Key: "m/44'/145'/0'/0/0", Height: 800000}, derive)
	require.NoError(t, err)
	assert.Equal(t, coin.KindKeyed, c.Kind())
	assert.Equal(t, mustHex(t, lock0), c.LockingScript())
	meta, ok := c.Confirmation()
	require.True(t, ok)
	assert.Equal(t, uint32(800000), meta.Height)

	c, err = newStoredCoin(&coinsAddConfig{Outpoint: op, Amount: 5000, Script: lock1,
		Challenges: []string{"sig:Sig", "pubKey:PubKey"}}, derive)
	require.NoError(t, err)
	assert.Equal(t, coin.KindContract, c.Kind())
	assert.Len(t, c.Challenges(), 2)

	_, err = newStoredCoin(&coinsAddConfig{Outpoint: op, Amount: 5000}, derive)
	assert.Error(t, err)
	_, err = newStoredCoin(&coinsAddConfig{Outpoint: op, Amount: 5000, Script: lock0, Key: "m/0"}, derive)
	assert.Error(t, err)
}
