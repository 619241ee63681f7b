//go:build linux
// +build linux

package server

import (
	"syscall"

	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/logging"
)

// Every session holds a socket open until the client goes away. With
// a large max_sessions the default soft limit on open files (often
// 1024) may be too low, so raise it as far as the hard limit allows.
func IncreaseLimits(config_obj *config.Config) {
	var rLimit syscall.Rlimit

	logger := logging.GetLogger(config_obj, &logging.ServerComponent)

	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		logger.Info("Error Getting Rlimit %v", err)
		return
	}

	needed := uint64(2*config_obj.Server.MaxSessions + 64)
	if rLimit.Cur >= needed {
		return
	}

	rLimit.Cur = rLimit.Max
	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		logger.Info("Error increasing limit %v. "+
			"This might work better as root.", err)
		return
	}

	logger.Info("Increased open file limit to %v", rLimit.Cur)
}
