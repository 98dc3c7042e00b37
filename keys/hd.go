package keys

import (
	"fmt"
	"strconv"
	"strings"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
)

const (
	// PurposeBIP44 is the BIP44 purpose level.
	PurposeBIP44 = 44

	// CoinTypeBCH is the SLIP-44 coin type used by contract wallets.
	CoinTypeBCH = 145

	// Chain indices.
	ExternalChain = 0 // Receive addresses
	InternalChain = 1 // Change addresses

	// Hardened is the BIP32 hardened index offset.
	Hardened = 0x80000000

	// MaxPathDepth bounds the number of levels in a derivation path.
	MaxPathDepth = 255
)

// Wallet derives keys from a BIP32 master key.
type Wallet struct {
	master  *bip32.ExtendedKey
	network *NetworkConfig
}

// NewWallet creates a wallet from a BIP39 seed.
func NewWallet(seed []byte, network *NetworkConfig) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}
	master, err := bip32.NewMaster(seed, network.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{master: master, network: network}, nil
}

// NewWalletFromMnemonic validates mnemonic and creates a wallet from its seed.
func NewWalletFromMnemonic(mnemonic, passphrase string, network *NetworkConfig) (*Wallet, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewWallet(seed, network)
}

// Network returns the wallet's network configuration.
func (w *Wallet) Network() *NetworkConfig { return w.network }

// Derive returns the key at path, e.g. "m/44'/145'/0'/0/1". Hardened levels
// are marked with ' or h.
func (w *Wallet) Derive(path string) (*PrivateKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	current := w.master
	for depth, idx := range indices {
		current, err = current.Child(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, depth, err)
		}
	}
	priv, err := current.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}
	return NewPrivateKey(priv)
}

// DeriveAccountKey returns m/44'/coinType'/account'/chain/index.
func (w *Wallet) DeriveAccountKey(coinType, account, chain, index uint32) (*PrivateKey, error) {
	return w.Derive(AccountPath(coinType, account, chain, index))
}

// AccountPath formats a BIP44 path.
func AccountPath(coinType, account, chain, index uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", PurposeBIP44, coinType, account, chain, index)
}

// ParsePath converts a textual derivation path into child indices.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, path)
	}
	parts = parts[1:]
	if len(parts) > MaxPathDepth {
		return nil, fmt.Errorf("%w: %q exceeds %d levels", ErrInvalidPath, path, MaxPathDepth)
	}
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		hardened := false
		if strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") {
			hardened = true
			p = p[:len(p)-1]
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n >= Hardened {
			return nil, fmt.Errorf("%w: bad level %q in %q", ErrInvalidPath, p, path)
		}
		idx := uint32(n)
		if hardened {
			idx += Hardened
		}
		out = append(out, idx)
	}
	return out, nil
}
