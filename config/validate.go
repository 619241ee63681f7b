package config

import (
	"fmt"

	"github.com/go-errors/errors"
)

// Shortest line able to hold anything useful: "ACK 220 nOnce received\r\n"
const minMaxLineLength = 32

func validateProtocol(config_obj *Config) error {
	if config_obj.Protocol.MaxLineLength < minMaxLineLength {
		return errors.New(fmt.Sprintf(
			"protocol.max_line_length must be at least %d", minMaxLineLength))
	}
	return nil
}

func ValidateServerConfig(config_obj *Config) error {
	err := validateProtocol(config_obj)
	if err != nil {
		return err
	}

	err = config_obj.Authority.Validate()
	if err != nil {
		return errors.New(fmt.Sprintf("authority: %v", err))
	}

	err = config_obj.Server.Key.Validate()
	if err != nil {
		return errors.New(fmt.Sprintf("server.key: %v", err))
	}

	if config_obj.Server.BindPort == 0 || config_obj.Server.BindPort > 65535 {
		return errors.New(fmt.Sprintf(
			"server.bind_port is invalid: %d", config_obj.Server.BindPort))
	}

	if config_obj.Server.MaxSessions < 1 {
		return errors.New("server.max_sessions must be at least 1")
	}

	if config_obj.Server.AcceptsPerSecond < 0 {
		return errors.New("server.accepts_per_second can not be negative")
	}

	return nil
}

func ValidateClientConfig(config_obj *Config) error {
	err := validateProtocol(config_obj)
	if err != nil {
		return err
	}

	err = config_obj.Authority.Public().Validate()
	if err != nil {
		return errors.New(fmt.Sprintf("authority: %v", err))
	}

	if config_obj.Client.ServerAddress == "" {
		return errors.New("client.server_address is required")
	}

	if config_obj.Client.ServerPort == 0 || config_obj.Client.ServerPort > 65535 {
		return errors.New(fmt.Sprintf(
			"client.server_port is invalid: %d", config_obj.Client.ServerPort))
	}
	return nil
}
