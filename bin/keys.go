package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-errors/errors"
	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/console"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/wire"
)

var (
	keys_command = app.Command("keys", "Inspect the configured keys.")

	keys_show_command = keys_command.Command(
		"show", "Show the configured keys.")

	keys_show_private_flag = keys_show_command.Flag(
		"private", "Also show the private exponents.").Bool()

	keys_verify_command = keys_command.Command(
		"verify", "Check that the configured keys round trip.")

	keys_verify_limit = keys_verify_command.Flag(
		"limit", "Check every value below this. "+
			"The default covers every value a session can produce.").Int64()
)

func configuredKeys(config_obj *config.Config) []console.NamedKey {
	return []console.NamedKey{
		{Name: "authority", Key: config_obj.Authority},
		{Name: "server", Key: config_obj.Server.Key},
	}
}

func doKeysShow() error {
	config_obj, err := load_config()
	if err != nil {
		return err
	}

	console.KeyTable(os.Stdout, configuredKeys(config_obj),
		*keys_show_private_flag).Render()
	return nil
}

func doKeysVerify() error {
	config_obj, err := load_config()
	if err != nil {
		return err
	}

	failed := false
	for _, item := range configuredKeys(config_obj) {
		limit := *keys_verify_limit
		if limit == 0 {
			limit = crypto.ChainBound(item.Key.Modulus)
		}

		err := item.Key.Verify(limit)
		if err != nil {
			failed = true
			fmt.Printf("%-10s FAIL %v\n", item.Name, err)
			continue
		}
		fmt.Printf("%-10s OK   all values below %d round trip\n",
			item.Name, limit)
	}

	// The announcement must survive signing and verification.
	text := wire.FormatKeys(config_obj.Server.Key.Public())
	recovered, err := crypto.VerifyAnnouncement(
		crypto.SignAnnouncement(text, config_obj.Authority),
		config_obj.Authority.Public())
	if err != nil || !bytes.Equal(recovered, text) {
		failed = true
		fmt.Printf("%-10s FAIL announcement does not verify: %v\n",
			"announce", err)
	} else {
		fmt.Printf("%-10s OK   %s\n", "announce", text)
	}

	if failed {
		return errors.New("Key verification failed")
	}
	return nil
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case keys_show_command.FullCommand():
			kingpin.FatalIfError(doKeysShow(), "Unable to show keys.")

		case keys_verify_command.FullCommand():
			kingpin.FatalIfError(doKeysVerify(), "Unable to verify keys.")

		default:
			return false
		}
		return true
	})
}
