package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"catalog-keeper/internal/env"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - TCP listening address (e.g. "127.0.0.1:8999"), empty disables TCP
 * @property {string} socket - Unix socket path, empty disables the socket
 * @property {string} mode - gin mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Socket  string `mapstructure:"socket"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" or empty logs to stdout
 * @property {string} format - console or json
 */
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	Format     string `mapstructure:"format"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

/**
 * Catalog storage configuration
 * @property {string} path - Path of the JSON catalog document
 */
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

/**
 * Metrics configuration
 * @property {bool} enabled - Expose prometheus metrics
 * @property {string} path - HTTP path of the metrics endpoint
 */
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

const EnvPrefix = "CATALOG_KEEPER"

var (
	Config     AppConfig
	configFile string
	configLock sync.Mutex
)

func setDefaults() {
	viper.SetDefault("server.address", "127.0.0.1:8999")
	viper.SetDefault("server.socket", filepath.Join(env.RunDir(), "catalog-keeper.sock"))
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.path", "console")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.max_size", 10)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("store.path", "components_metadata.json")
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
}

/**
 * Load application configuration from YAML file and environment
 * @param {string} file - Explicit config file, empty searches config.yaml in "." and the data directory
 * @returns {*AppConfig} Loaded configuration, also stored in config.Config
 * @returns {error} Error if the file exists but cannot be read or decoded
 * @description
 * - Missing config.yaml in the search path is not an error, defaults apply
 * - Environment variables CATALOG_KEEPER_<SECTION>_<KEY> override file values
 */
func LoadConfig(file string) (*AppConfig, error) {
	configLock.Lock()
	defer configLock.Unlock()

	viper.Reset()
	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(env.DataDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}
	configFile = viper.ConfigFileUsed()

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config failed: %w", err)
	}
	Config = cfg
	return &Config, nil
}

// ReloadConfig re-reads the file used by the last LoadConfig.
func ReloadConfig() error {
	_, err := LoadConfig(configFile)
	return err
}

// ConfigFile returns the config file in use, empty when running on defaults.
func ConfigFile() string {
	return configFile
}

/**
 * Watch the config file and re-apply it on change
 * @param {func(*AppConfig)} onChange - Called with the new configuration after a successful reload
 * @description
 * - No-op when no config file is in use
 * - Decode errors keep the previous configuration
 */
func WatchConfig(onChange func(*AppConfig)) {
	if configFile == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var cfg AppConfig
		if err := viper.Unmarshal(&cfg); err != nil {
			return
		}
		configLock.Lock()
		Config = cfg
		configLock.Unlock()
		if onChange != nil {
			onChange(&cfg)
		}
	})
	viper.WatchConfig()
}
