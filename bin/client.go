package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"www.velocidex.com/golang/seclink/client"
	"www.velocidex.com/golang/seclink/console"
)

var (
	client_command = app.Command("client",
		"Connect to a server and send every line typed on stdin.")

	client_address_arg = client_command.Arg(
		"address", "Server address.").String()

	client_port_arg = client_command.Arg(
		"port", "Server port.").Uint32()

	client_nonce_set  bool
	client_nonce_flag = client_command.Flag(
		"nonce", "Use this session nonce instead of a random one. "+
			"Any signed value is accepted.").
		IsSetByUser(&client_nonce_set).Int64()

	client_json_flag = client_command.Flag(
		"json", "Print session events as JSON lines.").Bool()

	client_wire_flag = client_command.Flag(
		"wire", "Show the raw lines on the wire.").Default("true").Bool()
)

func doClient() error {
	config_obj, err := load_config()
	if err != nil {
		return err
	}

	if *client_address_arg != "" {
		config_obj.Client.ServerAddress = *client_address_arg
	}

	if *client_port_arg != 0 {
		config_obj.Client.ServerPort = *client_port_arg
	}

	if client_nonce_set {
		config_obj.Client.Nonce = client_nonce_flag
	}

	ctx, cancel := install_sig_handler()
	defer cancel()

	out := console.NewConsole(os.Stdout, *client_json_flag)
	out.ShowWire = *client_wire_flag

	if !*client_json_flag {
		fmt.Fprintln(os.Stderr, "Type a message and press enter. A line "+
			"starting with '.' ends the session.")
	}

	return client.Run(ctx, config_obj, os.Stdin, out)
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		if command == client_command.FullCommand() {
			kingpin.FatalIfError(doClient(), "Client failed.")
			return true
		}
		return false
	})
}
