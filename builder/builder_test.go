package builder

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"testing"

	"github.com/gookit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/digest"
	"github.com/bitfsorg/libspedn-go/keys"
	"github.com/bitfsorg/libspedn-go/template"
	"github.com/bitfsorg/libspedn-go/tx"
)

const (
	fixtureMnemonic = "draw parade crater busy book swim soldier tragic exit feel top civil"
	fixtureTxID     = "ad70c931d742d6903271d1d3047701fb25b6859c440aeacf774d242f74f10738"
	contractTxID    = "6b5c8d90e8ac791d00c1d70bcc7a52fb4fd9077bf07387b0db9240a919cdabdf"
)

// fixture holds three keys from the test wallet and one 100000-satoshi
// coin locked to each.
type fixture struct {
	keys  [3]*keys.PrivateKey
	addrs [3]string
	locks [3][]byte
	coins [3]*coin.Coin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, err := keys.NewWalletFromMnemonic(fixtureMnemonic, "", &keys.TestNet)
	require.NoError(t, err)

	f := &fixture{}
	for i, path := range []string{"m/44'/145'/0'/0/0", "m/44'/145'/0'/0/1", "m/44'/145'/0'/1/0"} {
		k, err := w.Derive(path)
		require.NoError(t, err)
		f.keys[i] = k

		addr, err := k.Address(tx.Testnet)
		require.NoError(t, err)
		f.addrs[i] = addr.AddressString

		f.locks[i], err = k.LockingScript()
		require.NoError(t, err)

		op, err := tx.NewOutpoint(fixtureTxID, uint32(i))
		require.NoError(t, err)
		f.coins[i], err = coin.NewKeyedCoin(op, 100000, f.locks[i],
			&coin.Confirmation{Height: 12345, Confirmations: 30})
		require.NoError(t, err)
	}
	return f
}

// twoInputBuilder spends coins 0 and 1 with their own keys.
func (f *fixture) twoInputBuilder(t *testing.T) *TxBuilder {
	t.Helper()
	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], SignWith(f.keys[0])))
	require.NoError(t, b.AddInput(f.coins[1], SignWith(f.keys[1])))
	return b
}

func testOutpoint(t *testing.T, txid string, index uint32) tx.Outpoint {
	t.Helper()
	op, err := tx.NewOutpoint(txid, index)
	require.NoError(t, err)
	return op
}

// verifyInputs checks every input carries a valid ALL|FORKID signature
// followed by a 33-byte public key.
func verifyInputs(t *testing.T, txn *tx.Transaction, spent []*coin.Coin) {
	t.Helper()
	for i, in := range txn.Inputs {
		us := in.UnlockingScript
		require.Len(t, us, 1+keys.SignatureLen+1+1+keys.PubKeyLen, "input %d", i)
		require.Equal(t, byte(0x41), us[1+keys.SignatureLen])

		pub, err := ec.PublicKeyFromBytes(us[len(us)-keys.PubKeyLen:])
		require.NoError(t, err)
		sig, err := ec.ParseDERSignature(us[1 : 1+keys.SignatureLen])
		require.NoError(t, err)

		pre, err := digest.Preimage(txn, i, spent[i].LockingScript(), spent[i].Amount(), digest.SigHashAllForkID)
		require.NoError(t, err)
		assert.True(t, sig.Verify(sha256d(pre), pub), "input %d signature", i)
	}
}

func sha256d(b []byte) []byte {
	h := sha256.Sum256(b)
	h = sha256.Sum256(h[:])
	return h[:]
}

// --- End-to-end scenarios ---

func TestBuild_ChangeIsInputMinusOutputMinusSize(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 100000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))

	txn, err := b.Build(false)
	require.NoError(t, err)
	require.Len(t, txn.Outputs, 2)

	assert.Equal(t, 100000-uint64(txn.Size()), txn.Outputs[1].Amount)
	assert.Equal(t, 372, txn.Size())
	assert.Equal(t, uint64(99628), txn.Outputs[1].Amount)
	assert.Equal(t, f.locks[2], txn.Outputs[1].LockingScript)
	assert.Equal(t, "12955a672cb0bbc88454a509697ee5a16c8d7f77e94f9a558d0077180eab47c6", txn.ID())

	verifyInputs(t, txn, f.coins[:2])
}

func TestBuild_OverpayGuard(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 100000))

	_, err := b.Build(false)
	require.ErrorIs(t, err, ErrOverpay)
	assert.EqualError(t, err, "Fee is unreasonably high.")
}

func TestBuild_OverpayAllowed(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 100000))

	txn, err := b.Build(true)
	require.NoError(t, err)
	require.Len(t, txn.Outputs, 1)
	assert.Equal(t, uint64(100000), txn.TotalOutput())
	verifyInputs(t, txn, f.coins[:2])
}

func TestBuild_DustGuard(t *testing.T) {
	f := newFixture(t)
	calls := 0
	counting := UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
		calls++
		return SignWith(f.keys[ctx.Index()]).Unlock(ctx)
	})

	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], counting))
	require.NoError(t, b.AddInput(f.coins[1], counting))
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 199990))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))

	_, err := b.Build(false)
	require.ErrorIs(t, err, ErrDust)
	assert.EqualError(t, err, "Change output is below dust level.")
	assert.Zero(t, calls, "no input may be signed after a guard fails")
}

func TestBuild_DustNotBypassable(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	// Change would be positive but below 546.
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 199500))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))

	_, err := b.Build(true)
	assert.ErrorIs(t, err, ErrDust)
}

func TestBuild_InsufficientFunds(t *testing.T) {
	f := newFixture(t)

	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 200001))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))
	_, err := b.Build(true)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.EqualError(t, err, "Insufficient funds.")

	// Without change the surplus must still cover the fee.
	b = f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 199900))
	_, err = b.Build(true)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestBuild_OutputTotalOverflow(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	// MaxUint64 + 2 wraps to 1 without a carry check.
	require.NoError(t, b.AddOutput(f.locks[0], math.MaxUint64))
	require.NoError(t, b.AddOutput(f.locks[1], 2))

	_, err := b.Build(true)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.EqualError(t, err, "Insufficient funds.")
}

func TestBuild_InputTotalOverflow(t *testing.T) {
	f := newFixture(t)
	huge, err := coin.NewKeyedCoin(testOutpoint(t, contractTxID, 0), math.MaxUint64, f.locks[0], nil)
	require.NoError(t, err)

	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(huge, SignWith(f.keys[0])))
	require.NoError(t, b.AddInput(f.coins[1], SignWith(f.keys[1])))
	require.NoError(t, b.AddOutput(f.locks[2], 1000))

	_, err = b.Build(true)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestBuild_ContractCoin(t *testing.T) {
	f := newFixture(t)

	build := func() *tx.Transaction {
		contract, err := coin.NewContractCoin(testOutpoint(t, contractTxID, 0), 5000000,
			[]coin.Challenge{
				{Name: "sig", Type: coin.TypeSig},
				{Name: "pubKey", Type: coin.TypePubKey},
			},
			f.locks[1], &coin.Confirmation{Height: 100, Confirmations: 10})
		require.NoError(t, err)
		keyed, err := coin.NewKeyedCoin(testOutpoint(t, contractTxID, 1), 4999700, f.locks[2], nil)
		require.NoError(t, err)

		b := New(WithNetwork(tx.Testnet))
		require.NoError(t, b.AddInput(contract, UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
			sig, err := ctx.Sign(f.keys[1])
			if err != nil {
				return nil, err
			}
			return ctx.Spend(template.Params{
				"pubKey": template.Bytes(f.keys[1].PubKey()),
				"sig":    template.Bytes(sig),
			})
		})))
		require.NoError(t, b.AddInput(keyed, SignWith(f.keys[2])))
		require.NoError(t, b.AddOutputAddress(f.addrs[1], 9999300))

		txn, err := b.Build(false)
		require.NoError(t, err)
		verifyInputs(t, txn, []*coin.Coin{contract, keyed})
		return txn
	}

	first := build()
	assert.Equal(t, "d110ec218c74a228a039aebc11b6c32f6f1b5f9495c2f2572a7f019598e75e40", first.ID())
	assert.Equal(t, 338, first.Size())
	assert.Equal(t, first.Bytes(), build().Bytes())
}

func TestBuild_SignDataEquivalence(t *testing.T) {
	f := newFixture(t)
	var sig, dataSig []byte

	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
		var err error
		if sig, err = ctx.Sign(f.keys[0]); err != nil {
			return nil, err
		}
		pre, err := ctx.Preimage(digest.SigHashAll)
		if err != nil {
			return nil, err
		}
		h := sha256.Sum256(pre)
		if dataSig, err = ctx.SignData(f.keys[0], h[:]); err != nil {
			return nil, err
		}
		return ctx.Spend(template.Params{
			"pubKey": template.Bytes(f.keys[0].PubKey()),
			"sig":    template.Bytes(sig),
		})
	})))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 99600))

	_, err := b.Build(false)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(append(dataSig, 0x41)), hex.EncodeToString(sig))
}

// --- Signing phase tests ---

func TestBuild_UnlockersRunInOrderAgainstFinalOutputs(t *testing.T) {
	f := newFixture(t)
	var order []int
	var seenChange []uint64

	b := New(WithNetwork(tx.Testnet))
	for i := range f.coins {
		key := f.keys[i]
		require.NoError(t, b.AddInput(f.coins[i], UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
			order = append(order, ctx.Index())
			seenChange = append(seenChange, ctx.Transaction().Outputs[1].Amount)
			assert.Equal(t, ctx.Coin().Outpoint().Index, uint32(ctx.Index()))
			return SignWith(key).Unlock(ctx)
		})))
	}
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 150000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))

	txn, err := b.Build(false)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, order)
	want := 300000 - 150000 - uint64(txn.Size())
	assert.Equal(t, []uint64{want, want, want}, seenChange)
	assert.Equal(t, want, txn.Outputs[1].Amount)
	verifyInputs(t, txn, f.coins[:])
}

func TestBuild_UnlockerErrors(t *testing.T) {
	f := newFixture(t)

	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
		return ctx.Spend(template.Params{"pubKey": template.Bytes(f.keys[0].PubKey())})
	})))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 99600))
	_, err := b.Build(false)
	assert.ErrorIs(t, err, ErrUnlockFailed)
	assert.ErrorIs(t, err, ErrMalformedParam)
	assert.ErrorIs(t, err, template.ErrMissingParam)

	// Signing with the wrong key is caught by the key-hash check.
	b = New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], SignWith(f.keys[1])))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 99600))
	_, err = b.Build(false)
	assert.ErrorIs(t, err, template.ErrPubKeyMismatch)
}

func TestBuild_SizeMismatch(t *testing.T) {
	f := newFixture(t)
	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], UnlockFunc(func(*SigningContext) ([]byte, error) {
		return bytes.Repeat([]byte{0x51}, 200), nil
	})))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 99600))

	_, err := b.Build(false)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestBuild_ShorterThanEstimate(t *testing.T) {
	f := newFixture(t)
	contract, err := coin.NewContractCoin(testOutpoint(t, contractTxID, 0), 100000,
		[]coin.Challenge{{Name: "secret", Type: coin.TypeBin, Size: 40}},
		[]byte{0xa8, 0x20}, nil)
	require.NoError(t, err)

	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(contract, UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
		return ctx.Spend(template.Params{"secret": template.Bytes([]byte("short"))})
	})))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 50000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))

	txn, err := b.Build(false)
	require.NoError(t, err)
	// The fee was fixed from the 41-byte placeholder push.
	estimated := txn.Size() + 35
	assert.Equal(t, uint64(100000-50000-estimated), txn.Outputs[1].Amount)
}

// sdkKey signs with go-sdk's plain RFC6979 signer, whose DER signatures
// vary between 70 and 72 bytes.
type sdkKey struct{ priv *ec.PrivateKey }

func (k sdkKey) PubKey() []byte { return k.priv.PubKey().Compressed() }

func (k sdkKey) SignDigest(d []byte) ([]byte, error) {
	sig, err := k.priv.Sign(d)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// longSigKey returns a well-framed 72-byte DER signature for any digest.
type longSigKey struct{}

func (longSigKey) PubKey() []byte { return make([]byte, keys.PubKeyLen) }

func (longSigKey) SignDigest([]byte) ([]byte, error) {
	sig := make([]byte, template.MaxDERLen)
	sig[0], sig[1], sig[2] = 0x30, template.MaxDERLen-2, 0x02
	return sig, nil
}

func TestBuild_VariableLengthSigner(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 20; i++ {
		priv, err := ec.NewPrivateKey()
		require.NoError(t, err)
		wrapped, err := keys.NewPrivateKey(priv)
		require.NoError(t, err)
		lock, err := wrapped.LockingScript()
		require.NoError(t, err)
		c, err := coin.NewKeyedCoin(testOutpoint(t, contractTxID, uint32(i)), 100000, lock, nil)
		require.NoError(t, err)

		b := New(WithNetwork(tx.Testnet))
		require.NoError(t, b.AddInput(c, SignWith(sdkKey{priv: priv})))
		require.NoError(t, b.AddOutputAddress(f.addrs[0], 50000))
		require.NoError(t, b.AddChangeAddress(f.addrs[2]))

		txn, err := b.Build(false)
		require.NoError(t, err, "key %d", i)

		// The fee covers the 72-byte reservation; a shorter signature
		// leaves a few bytes of overpayment.
		fee := 100000 - 50000 - txn.Outputs[1].Amount
		size := uint64(txn.Size())
		assert.GreaterOrEqual(t, fee, size)
		assert.LessOrEqual(t, fee-size, uint64(4))
	}
}

func TestBuild_SignatureLongerThanReserved(t *testing.T) {
	f := newFixture(t)
	contract := func() *coin.Coin {
		c, err := coin.NewContractCoin(testOutpoint(t, contractTxID, 0), 100000,
			[]coin.Challenge{{Name: "sig", Type: coin.TypeSig}}, []byte{0xac}, nil)
		require.NoError(t, err)
		return c
	}
	unlock := UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
		sig, err := ctx.Sign(longSigKey{})
		if err != nil {
			return nil, err
		}
		return ctx.Spend(template.Params{"sig": template.Bytes(sig)})
	})

	// Sized for 70-byte signatures, the 72-byte one is rejected by name.
	b := New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(contract(), unlock))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 50000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))
	_, err := b.Build(false)
	require.ErrorIs(t, err, ErrSignatureLength)
	assert.NotErrorIs(t, err, ErrSizeMismatch)

	b = New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(contract(), WithSignatureLen(unlock, template.MaxDERLen)))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 50000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))
	txn, err := b.Build(false)
	require.NoError(t, err)
	assert.Equal(t, uint64(100000-50000-txn.Size()), txn.Outputs[1].Amount)

	// SignData is checked the same way.
	b = New(WithNetwork(tx.Testnet))
	require.NoError(t, b.AddInput(f.coins[0], UnlockFunc(func(ctx *SigningContext) ([]byte, error) {
		return ctx.SignData(longSigKey{}, []byte("msg"))
	})))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 99600))
	_, err = b.Build(false)
	assert.ErrorIs(t, err, ErrSignatureLength)
}

func TestBuild_LogsThroughGivenLogger(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	l := slog.NewSugaredLogger(&buf, slog.DebugLevel)

	b := New(WithNetwork(tx.Testnet), WithLogger(l.Logger))
	require.NoError(t, b.AddInput(f.coins[0], SignWith(f.keys[0])))
	require.NoError(t, b.AddOutputAddress(f.addrs[1], 50000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))
	txn, err := b.Build(false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "transaction built")
	assert.Contains(t, out, "estimated_size")
	assert.Contains(t, out, txn.ID())

	// The default builder has nowhere to write.
	assert.Zero(t, New().log.HandlersNum())
}

// --- Registration tests ---

func TestAddChangeOutput_Duplicate(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 1000))
	require.NoError(t, b.AddChangeOutput(f.locks[2]))

	err := b.AddChangeOutput(f.locks[1])
	assert.ErrorIs(t, err, ErrDuplicateChange)

	_, err = b.Build(false)
	assert.ErrorIs(t, err, ErrDuplicateChange, "registration errors are reported by Build")
}

func TestBuilder_SingleUse(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 100000))

	_, err := b.Build(false)
	require.ErrorIs(t, err, ErrOverpay)

	_, err = b.Build(true)
	assert.ErrorIs(t, err, ErrBuilderSpent)
	assert.ErrorIs(t, b.AddInput(f.coins[2], SignWith(f.keys[2])), ErrBuilderSpent)
	assert.ErrorIs(t, b.AddOutput(f.locks[0], 1), ErrBuilderSpent)
	assert.ErrorIs(t, b.AddChangeOutput(f.locks[0]), ErrBuilderSpent)
}

func TestAddInput_Errors(t *testing.T) {
	f := newFixture(t)
	b := New()
	assert.ErrorIs(t, b.AddInput(nil, SignWith(f.keys[0])), ErrNilParam)
	assert.ErrorIs(t, b.AddInput(f.coins[0], nil), ErrNilParam)

	b = New()
	require.NoError(t, b.AddInput(f.coins[0], SignWith(f.keys[0])))
	assert.ErrorIs(t, b.AddInput(f.coins[0], SignWith(f.keys[0])), ErrDuplicateInput)
}

func TestAddOutput_Errors(t *testing.T) {
	b := New()
	assert.ErrorIs(t, b.AddOutput(nil, 1), ErrEmptyScript)
	assert.ErrorIs(t, b.AddChangeOutput(nil), ErrEmptyScript)
}

func TestAddOutputAddress_Network(t *testing.T) {
	f := newFixture(t)

	b := New(WithNetwork(tx.Mainnet))
	assert.ErrorIs(t, b.AddOutputAddress(f.addrs[0], 1000), ErrNetworkMismatch)
	assert.ErrorIs(t, New().AddChangeAddress("not-an-address"), ErrInvalidAddress)

	mainAddr, err := f.keys[0].Address(tx.Mainnet)
	require.NoError(t, err)
	b = New()
	require.NoError(t, b.AddOutputAddress(mainAddr.AddressString, 1000))
	assert.Equal(t, f.locks[0], b.outputs[0].script)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	f := newFixture(t)

	_, err := New().Build(false)
	assert.ErrorIs(t, err, ErrNoInputs)

	b := New()
	require.NoError(t, b.AddInput(f.coins[0], SignWith(f.keys[0])))
	_, err = b.Build(false)
	assert.ErrorIs(t, err, ErrNoOutputs)
}

func TestBuild_Options(t *testing.T) {
	f := newFixture(t)
	b := New(WithNetwork(tx.Testnet), WithLockTime(650000), WithVersion(2),
		WithPolicy(Policy{FeeRate: 2, MaxFeeRatio: 10, DustLimit: 1000}))
	require.NoError(t, b.AddInput(f.coins[0], SignWith(f.keys[0])))
	require.NoError(t, b.AddDataOutput([]byte("spedn"), []byte("v1")))
	require.NoError(t, b.AddChangeAddress(f.addrs[0]))

	txn, err := b.Build(false)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), txn.Version)
	assert.Equal(t, uint32(650000), txn.LockTime)
	assert.Equal(t, tx.Testnet, txn.Network)
	assert.Equal(t, []byte{0x00, 0x6a, 0x05, 's', 'p', 'e', 'd', 'n', 0x02, 'v', '1'}, txn.Outputs[0].LockingScript)
	assert.Zero(t, txn.Outputs[0].Amount)
	assert.Equal(t, 100000-2*uint64(txn.Size()), txn.Outputs[1].Amount)
	verifyInputs(t, txn, f.coins[:1])

	_, err = New(WithPolicy(Policy{})).Build(false)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestBuild_RoundTrip(t *testing.T) {
	f := newFixture(t)
	b := f.twoInputBuilder(t)
	require.NoError(t, b.AddOutputAddress(f.addrs[0], 100000))
	require.NoError(t, b.AddChangeAddress(f.addrs[2]))
	txn, err := b.Build(false)
	require.NoError(t, err)

	parsed, err := tx.NewTransactionFromBytes(txn.Bytes())
	require.NoError(t, err)
	assert.True(t, txn.Equal(parsed))
	assert.Equal(t, txn.ID(), parsed.ID())
}
