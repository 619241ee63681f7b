package config

import (
	"io/ioutil"
	"time"

	"github.com/Velocidex/yaml/v2"
	"github.com/go-errors/errors"
	"www.velocidex.com/golang/seclink/constants"
	"www.velocidex.com/golang/seclink/crypto"
)

// Embed build time constants into here for reporting the version.
var (
	build_time  string
	commit_hash string
)

type Version struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	BuildTime string `yaml:"build_time,omitempty"`
	Commit    string `yaml:"commit,omitempty"`
}

type ServerConfig struct {
	BindAddress string `yaml:"bind_address"`
	BindPort    uint32 `yaml:"bind_port"`

	// The server's operating key. Only the public half is ever
	// announced to clients.
	Key crypto.KeyPair `yaml:"key"`

	// Number of sessions serviced at the same time. A value of 1
	// services one client to completion before accepting the next.
	MaxSessions int `yaml:"max_sessions"`

	// Zero means accepts are not paced.
	AcceptsPerSecond float64 `yaml:"accepts_per_second,omitempty"`

	// Seconds a client nonce is remembered for reuse warnings.
	NonceReuseWindow uint64 `yaml:"nonce_reuse_window"`

	// Prometheus metrics are exported when a port is set.
	MonitoringBindAddress string `yaml:"monitoring_bind_address,omitempty"`
	MonitoringBindPort    uint32 `yaml:"monitoring_bind_port,omitempty"`
}

type ClientConfig struct {
	ServerAddress string `yaml:"server_address"`
	ServerPort    uint32 `yaml:"server_port"`

	// A fixed session nonce. When unset a random nonce is chosen for
	// every session.
	Nonce *int64 `yaml:"nonce,omitempty"`
}

type ProtocolConfig struct {
	// Longest line accepted from a peer, including the terminator.
	MaxLineLength uint64 `yaml:"max_line_length"`

	// Seconds to wait on a single send or receive. Zero waits
	// forever.
	IoTimeout uint64 `yaml:"io_timeout,omitempty"`
}

func (self ProtocolConfig) IOTimeout() time.Duration {
	return time.Duration(self.IoTimeout) * time.Second
}

type LoggingConfig struct {
	// When set logs are also written to rotated files here.
	OutputDirectory string `yaml:"output_directory,omitempty"`

	// Seconds
	MaxAge       uint64 `yaml:"max_age,omitempty"`
	RotationTime uint64 `yaml:"rotation_time,omitempty"`

	Debug bool `yaml:"debug,omitempty"`
}

type Config struct {
	Version *Version `yaml:"version,omitempty"`

	// The trusted authority which wraps the server key
	// announcement. Clients only need the public half.
	Authority crypto.KeyPair `yaml:"authority"`

	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

func GetVersion() *Version {
	return &Version{
		Name:      "seclink",
		Version:   constants.VERSION,
		BuildTime: build_time,
		Commit:    commit_hash,
	}
}

// GetDefaultConfig returns the built in keys and settings.
func GetDefaultConfig() *Config {
	return &Config{
		Version: GetVersion(),
		Authority: crypto.KeyPair{
			PublicExponent:  4297,
			PrivateExponent: 4633,
			Modulus:         7171,
		},
		Server: ServerConfig{
			BindAddress: "127.0.0.1",
			BindPort:    constants.DEFAULT_PORT,
			Key: crypto.KeyPair{
				PublicExponent:  13,
				PrivateExponent: 6397,
				Modulus:         41989,
			},
			MaxSessions:      1,
			NonceReuseWindow: 3600,
		},
		Client: ClientConfig{
			ServerAddress: "localhost",
			ServerPort:    constants.DEFAULT_PORT,
		},
		Protocol: ProtocolConfig{
			MaxLineLength: constants.DEFAULT_MAX_LINE_LENGTH,
		},
	}
}

// LoadConfig overlays the YAML file on top of the default config. An
// empty filename just returns the defaults.
func LoadConfig(filename string) (*Config, error) {
	config_obj := GetDefaultConfig()
	if filename == "" {
		return config_obj, nil
	}

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	err = ParseConfigFromString(data, config_obj)
	if err != nil {
		return nil, err
	}

	// The running binary always reports its own version.
	config_obj.Version = GetVersion()

	return config_obj, nil
}

func ParseConfigFromString(config_string []byte, config_obj *Config) error {
	err := yaml.UnmarshalStrict(config_string, config_obj)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func Encode(config_obj *Config) ([]byte, error) {
	return yaml.Marshal(config_obj)
}

func WriteConfigToFile(filename string, config_obj *Config) error {
	bytes, err := Encode(config_obj)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(filename, bytes, 0600)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	return nil
}
