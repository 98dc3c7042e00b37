package keys

import (
	"fmt"
	"strings"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/libspedn-go/tx"
)

// NetworkConfig ties a ledger network to its address and BIP32 parameters.
type NetworkConfig struct {
	Name    string
	Network tx.Network
	Params  *chaincfg.Params
}

// Predefined network configurations.
var (
	MainNet = NetworkConfig{
		Name:    "mainnet",
		Network: tx.Mainnet,
		Params:  &chaincfg.MainNet,
	}

	TestNet = NetworkConfig{
		Name:    "testnet",
		Network: tx.Testnet,
		Params:  &chaincfg.TestNet,
	}

	// RegTest shares testnet address and extended-key versions.
	RegTest = NetworkConfig{
		Name:    "regtest",
		Network: tx.Testnet,
		Params:  &chaincfg.TestNet,
	}
)

var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"main":    &MainNet,
	"testnet": &TestNet,
	"test":    &TestNet,
	"regtest": &RegTest,
}

// GetNetwork returns a predefined network by name (case-insensitive).
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[strings.ToLower(name)]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// ForNetwork returns the configuration for a transaction network.
func ForNetwork(n tx.Network) *NetworkConfig {
	if n == tx.Mainnet {
		return &MainNet
	}
	return &TestNet
}

// IsMainnet reports whether addresses use the mainnet version byte.
func (c *NetworkConfig) IsMainnet() bool {
	return c.Network == tx.Mainnet
}
