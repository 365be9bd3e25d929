package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/daedaleanai/assetcp/log"
)

// Config holds the user settings of assetcp.
type Config struct {
	HashFunction string
	Concurrency  int
	FailFast     bool
	OutputDir    string
}

const (
	configFileName = "config"
	envPrefix      = "ASSETCP"

	KeyHashFunction = "hash-function"
	KeyConcurrency  = "concurrency"
	KeyFailFast     = "fail-fast"
	KeyOutputDir    = "output-dir"
)

var (
	config     *Config
	configOnce sync.Once
)

func getConfigDir() (string, error) {
	if configDir, ok := os.LookupEnv(envPrefix + "_CONFIG_DIR"); ok {
		return configDir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return filepath.Join(xdgConfigHome, "assetcp"), nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "unable to locate the configuration directory")
	}
	return filepath.Join(homeDir, ".config", "assetcp"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHashFunction, "md5")
	v.SetDefault(KeyConcurrency, runtime.NumCPU())
	v.SetDefault(KeyFailFast, false)
	v.SetDefault(KeyOutputDir, "OUTPUT")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file in configDir, if any. Environment
// variables override the file and the file overrides the defaults.
func Load(configDir string) (Config, error) {
	v := newViper()
	if configDir != "" {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrapf(err, "failed to read configuration in %s", configDir)
			}
			log.Debug("No configuration file in `%s`.\n", configDir)
		} else {
			log.Debug("Loaded configuration from `%s`.\n", v.ConfigFileUsed())
		}
	}

	cfg := Config{
		HashFunction: v.GetString(KeyHashFunction),
		Concurrency:  v.GetInt(KeyConcurrency),
		FailFast:     v.GetBool(KeyFailFast),
		OutputDir:    v.GetString(KeyOutputDir),
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	return cfg, nil
}

func loadConfiguration() Config {
	configDir, err := getConfigDir()
	if err != nil {
		log.Debug("%s. Using default configuration.\n", err)
	}
	cfg, err := Load(configDir)
	if err != nil {
		log.Warning("%s. Using default configuration.\n", err)
		cfg, _ = Load("")
	}
	log.Debug("Running with configuration: %+v\n", cfg)
	return cfg
}

// GetConfig returns the user configuration, loading it on first use.
func GetConfig() Config {
	configOnce.Do(func() {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	})
	return *config
}
