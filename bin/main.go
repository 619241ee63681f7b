package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/logging"
)

type CommandHandler func(command string) bool

var (
	app = kingpin.New("seclink",
		"An encrypted request/response channel over TCP.")

	config_path = app.Flag("config", "The configuration file.").Short('c').
			Envar("SECLINK_CONFIG").String()

	verbose_flag = app.Flag(
		"verbose", "Enabled verbose logging.").Short('v').
		Default("false").Bool()

	command_handlers []CommandHandler
)

// load_config reads the config file, or the built in defaults when
// no file is given, and starts file logging if configured.
func load_config() (*config.Config, error) {
	config_obj, err := config.LoadConfig(*config_path)
	if err != nil {
		return nil, err
	}

	err = logging.InitLogging(config_obj)
	if err != nil {
		return nil, err
	}

	return config_obj, nil
}

func main() {
	app.HelpFlag.Short('h')
	app.UsageTemplate(kingpin.CompactUsageTemplate)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if !*verbose_flag {
		logging.SuppressLogging = true
		logging.Manager.Reset()
	}

	for _, command_handler := range command_handlers {
		if command_handler(command) {
			break
		}
	}
}
