package config

import (
	"path/filepath"
	"time"

	"github.com/MinterTeam/minter-membership/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisFileName = "genesis.yaml"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisFilePath = filepath.Join(defaultConfigDir, defaultGenesisFileName)
)

func DefaultConfig() *Config {
	return &Config{BaseConfig: DefaultBaseConfig()}
}

// GetConfig returns the default config rooted at the node home dir. The home dir and
// the default config file are created if missing.
func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.SetRoot(utils.GetMembershipHome())
	EnsureRoot(utils.GetMembershipHome())

	return cfg
}

// Config defines the top level configuration of a node
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration of a node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the YAML file describing the membership at genesis
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// Number of nodes the state tree keeps in memory
	StateCacheSize int `mapstructure:"state_cache_size"`

	// Address to listen for API connections
	APIListenAddress string `mapstructure:"api_listen_addr"`

	// Address to serve prometheus metrics on, empty disables them
	PrometheusListenAddress string `mapstructure:"prometheus_listen_addr"`

	// Human readable part of bech32 addresses
	AddressPrefix string `mapstructure:"address_prefix"`

	BlockInterval time.Duration `mapstructure:"block_interval"`
}

// DefaultBaseConfig returns a default base configuration of a node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:                 defaultGenesisFilePath,
		LogLevel:                DefaultPackageLogLevels(),
		LogFormat:               LogFormatPlain,
		LogPath:                 "stdout",
		DBBackend:               "goleveldb",
		DBPath:                  defaultDataDir,
		StateCacheSize:          100000,
		APIListenAddress:        "tcp://0.0.0.0:8841",
		PrometheusListenAddress: ":26660",
		AddressPrefix:           "mx",
		BlockInterval:           5 * time.Second,
	}
}

// GenesisFile returns the full path to the genesis file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all modules
// log at "error", while the `host` and `main` modules log at "info"
func DefaultPackageLogLevels() string {
	return "host:info,main:info,api:info,*:" + DefaultLogLevel()
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
