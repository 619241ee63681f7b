//go:build !linux
// +build !linux

package server

import "www.velocidex.com/golang/seclink/config"

func IncreaseLimits(config_obj *config.Config) {}
