package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"
	"www.velocidex.com/golang/seclink/console"
	"www.velocidex.com/golang/seclink/logging"
	"www.velocidex.com/golang/seclink/server"
)

var (
	server_command = app.Command("server", "Run the seclink server.")

	server_port_flag = server_command.Flag(
		"port", "Port to listen on.").Short('p').Uint32()

	server_bind_flag = server_command.Flag(
		"bind", "Address to listen on.").String()

	server_events_flag = server_command.Flag(
		"events", "Print session events on the console.").
		Default("true").Bool()

	server_json_flag = server_command.Flag(
		"json", "Print session events as JSON lines.").Bool()
)

func doServer() error {
	config_obj, err := load_config()
	if err != nil {
		return err
	}

	if *server_port_flag != 0 {
		config_obj.Server.BindPort = *server_port_flag
	}

	if *server_bind_flag != "" {
		config_obj.Server.BindAddress = *server_bind_flag
	}

	ctx, cancel := install_sig_handler()
	defer cancel()

	logger := logging.GetLogger(config_obj, &logging.ServerComponent)
	logger.WithFields(logrus.Fields{
		"version":    config_obj.Version.Version,
		"build_time": config_obj.Version.BuildTime,
		"commit":     config_obj.Version.Commit,
	}).Info("Starting seclink server.")

	server.IncreaseLimits(config_obj)

	server_obj, err := server.NewServer(config_obj, logger)
	if err != nil {
		return err
	}

	if *server_events_flag || *server_json_flag {
		server_obj.SetEventSink(console.NewConsole(os.Stdout, *server_json_flag))
	}

	return server_obj.Run(ctx)
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		if command == server_command.FullCommand() {
			kingpin.FatalIfError(doServer(), "Server failed.")
			return true
		}
		return false
	})
}
