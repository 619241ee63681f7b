package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Velocidex/yaml/v2"
	"github.com/alecthomas/kingpin/v2"
	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/constants"
)

var (
	version = app.Command("version", "Report the binary version and build information.")
)

type versionInfo struct {
	config.Version `yaml:",inline"`
	GoVersion       string `yaml:"go_version"`
	DefaultPort     uint32 `yaml:"default_port"`
}

func doVersion() error {
	res, err := yaml.Marshal(&versionInfo{
		Version:     *config.GetVersion(),
		GoVersion:   runtime.Version(),
		DefaultPort: constants.DEFAULT_PORT,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%v", string(res))

	if *verbose_flag {
		info, ok := debug.ReadBuildInfo()
		if ok {
			fmt.Printf("\n\nBuild Info:\n%v\n", info)
		}
	}
	return nil
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		if command == version.FullCommand() {
			kingpin.FatalIfError(doVersion(), "Unable to encode version.")
			return true
		}
		return false
	})
}
