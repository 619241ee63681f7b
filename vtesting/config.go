package vtesting

import (
	"testing"

	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/seclink/config"
)

// GetTestConfig returns the default config with a short I/O timeout
// so a stuck test fails instead of hanging.
func GetTestConfig(t *testing.T) *config.Config {
	config_obj := config.GetDefaultConfig()
	config_obj.Protocol.IoTimeout = 10
	config_obj.Server.MaxSessions = 4

	require.NoError(t, config.ValidateServerConfig(config_obj))
	require.NoError(t, config.ValidateClientConfig(config_obj))

	return config_obj
}
