package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	buildSubCmd  = "build"
	keygenSubCmd = "keygen"
	coinsSubCmd  = "coins"

	coinsAddSubCmd    = "coins add"
	coinsListSubCmd   = "coins list"
	coinsRemoveSubCmd = "coins remove"
)

type globalFlags struct {
	ConfigFile string `long:"config" short:"C" description:"Path to the configuration file (yaml or json)"`
	DataDir    string `long:"datadir" short:"b" description:"Directory holding the seed file and coin store"`
	Network    string `long:"network" short:"n" description:"Network to use: mainnet, testnet or regtest"`
}

// WalletFlags select where signing keys come from.
type WalletFlags struct {
	Mnemonic   string `long:"mnemonic" description:"Derive keys from this mnemonic instead of the seed file"`
	Passphrase string `long:"passphrase" description:"BIP39 passphrase used with --mnemonic"`
	Password   string `long:"password" short:"p" env:"SPEDN_SEED_PASSWORD" description:"Password of the seed file"`
}

type buildConfig struct {
	Request     string `long:"request" short:"r" description:"Spend request file (YAML)" required:"true"`
	UpdateStore bool   `long:"update-store" short:"u" description:"Remove spent coins from the store and record the change output"`
	WalletFlags
}

type keygenConfig struct {
	Bits       int    `long:"bits" default:"128" description:"Mnemonic entropy in bits: 128 or 256"`
	Passphrase string `long:"passphrase" description:"Optional BIP39 passphrase"`
	Password   string `long:"password" short:"p" env:"SPEDN_SEED_PASSWORD" description:"Password encrypting the seed file" required:"true"`
	Force      bool   `long:"force" description:"Overwrite an existing seed file"`
}

type coinsConfig struct{}

type coinsAddConfig struct {
	Outpoint   string   `long:"outpoint" short:"o" description:"Coin outpoint as txid:index" required:"true"`
	Amount     uint64   `long:"amount" short:"a" description:"Coin value in satoshis" required:"true"`
	Script     string   `long:"script" short:"s" description:"Locking script (encoded in hex)"`
	Key        string   `long:"key" short:"k" description:"Derivation path of the key the coin pays to"`
	Challenges []string `long:"challenge" short:"c" description:"Contract parameter as name:type[:size], in script order"`
	Height     uint32   `long:"height" description:"Block height the coin was mined at"`
	WalletFlags
}

type coinsListConfig struct{}

type coinsRemoveConfig struct {
	Outpoint string `long:"outpoint" short:"o" description:"Coin outpoint as txid:index" required:"true"`
}

func parseCommandLine() (subCommand string, global *globalFlags, config interface{}) {
	global = &globalFlags{}
	parser := flags.NewParser(global, flags.PrintErrors|flags.HelpFlag)

	buildConf := &buildConfig{}
	parser.AddCommand(buildSubCmd, "Builds and signs a spend",
		"Builds and signs the transaction described by a spend request file and prints it in hex", buildConf)

	keygenConf := &keygenConfig{}
	parser.AddCommand(keygenSubCmd, "Creates a new seed",
		"Creates a BIP39 mnemonic and stores its seed encrypted in the data directory", keygenConf)

	coinsCmd, err := parser.AddCommand(coinsSubCmd, "Manages the coin store",
		"Adds, lists and removes spendable coins", &coinsConfig{})
	if err != nil {
		printErrorAndExit(err)
	}

	coinsAddConf := &coinsAddConfig{}
	coinsCmd.AddCommand("add", "Adds a coin", "Adds a keyed or contract coin to the store", coinsAddConf)
	coinsListConf := &coinsListConfig{}
	coinsCmd.AddCommand("list", "Lists coins", "Lists stored coins and their total value", coinsListConf)
	coinsRemoveConf := &coinsRemoveConfig{}
	coinsCmd.AddCommand("remove", "Removes a coin", "Removes a coin from the store", coinsRemoveConf)

	_, err = parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	switch parser.Command.Active.Name {
	case buildSubCmd:
		return buildSubCmd, global, buildConf
	case keygenSubCmd:
		return keygenSubCmd, global, keygenConf
	case coinsSubCmd:
		switch coinsCmd.Active.Name {
		case "add":
			return coinsAddSubCmd, global, coinsAddConf
		case "list":
			return coinsListSubCmd, global, coinsListConf
		case "remove":
			return coinsRemoveSubCmd, global, coinsRemoveConf
		}
	}
	return parser.Command.Active.Name, global, nil
}
