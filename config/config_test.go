package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/seclink/crypto"
)

func TestDefaultConfig(t *testing.T) {
	config_obj := GetDefaultConfig()
	require.NoError(t, ValidateServerConfig(config_obj))
	require.NoError(t, ValidateClientConfig(config_obj))

	assert.Equal(t, crypto.PublicKey{Exponent: 13, Modulus: 41989},
		config_obj.Server.Key.Public())
	assert.Equal(t, uint32(1234), config_obj.Server.BindPort)
	assert.Nil(t, config_obj.Client.Nonce)
}

func TestLoadClientConfig(t *testing.T) {
	config_obj, err := LoadConfig("test_data/client.yaml")
	require.NoError(t, err)
	require.NoError(t, ValidateClientConfig(config_obj))

	assert.Equal(t, "10.0.0.5", config_obj.Client.ServerAddress)
	assert.Equal(t, uint32(4321), config_obj.Client.ServerPort)
	require.NotNil(t, config_obj.Client.Nonce)
	assert.Equal(t, int64(23), *config_obj.Client.Nonce)
	assert.Equal(t, 30*time.Second, config_obj.Protocol.IOTimeout())
	assert.Equal(t, uint64(800), config_obj.Protocol.MaxLineLength)

	// The file only names the public half, the default private
	// exponent remains from the defaults.
	assert.Equal(t, int64(4297), config_obj.Authority.PublicExponent)

	// Untouched sections keep their defaults.
	assert.Equal(t, int64(41989), config_obj.Server.Key.Modulus)
}

func TestNegativeNonceIsValid(t *testing.T) {
	nonce := int64(-17)
	config_obj := GetDefaultConfig()
	config_obj.Client.Nonce = &nonce
	assert.NoError(t, ValidateClientConfig(config_obj))
}

func TestInvalidConfigs(t *testing.T) {
	config_obj, err := LoadConfig("test_data/bad_key.yaml")
	require.NoError(t, err)
	assert.Error(t, ValidateServerConfig(config_obj))

	_, err = LoadConfig("test_data/unknown_field.yaml")
	assert.Error(t, err)

	_, err = LoadConfig("test_data/missing.yaml")
	assert.Error(t, err)

	config_obj = GetDefaultConfig()
	config_obj.Protocol.MaxLineLength = 4
	assert.Error(t, ValidateClientConfig(config_obj))

	config_obj = GetDefaultConfig()
	config_obj.Server.MaxSessions = 0
	assert.Error(t, ValidateServerConfig(config_obj))
}

func TestWriteConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "seclink.yaml")

	config_obj := GetDefaultConfig()
	config_obj.Server.BindPort = 9999
	require.NoError(t, WriteConfigToFile(filename, config_obj))

	loaded, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, uint32(9999), loaded.Server.BindPort)
	assert.Equal(t, config_obj.Server.Key, loaded.Server.Key)
}
