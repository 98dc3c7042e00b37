// Command spedntx builds and signs transactions spending keyed and contract
// coins, and keeps a local store of spendable coins.
package main

import "github.com/pkg/errors"

func main() {
	subCmd, global, config := parseCommandLine()

	env, err := loadEnvironment(global)
	if err != nil {
		printErrorAndExit(err)
	}

	switch subCmd {
	case buildSubCmd:
		err = build(env, config.(*buildConfig))
	case keygenSubCmd:
		err = keygen(env, config.(*keygenConfig))
	case coinsAddSubCmd:
		err = coinsAdd(env, config.(*coinsAddConfig))
	case coinsListSubCmd:
		err = coinsList(env)
	case coinsRemoveSubCmd:
		err = coinsRemove(env, config.(*coinsRemoveConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'\n", subCmd)
	}

	if err != nil {
		printErrorAndExit(err)
	}
}
