package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file operations so the loader can be tested without
// touching the real filesystem.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem with actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// envPrefix namespaces the environment variables the loader reads, so
// SCOPEKIT_REGISTRY_DEFAULT_CACHING maps to registry.default_caching.
const envPrefix = "SCOPEKIT"

// LoaderConfig holds loader dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load builds Settings from defaults, an optional YAML file, an optional
// .env file, and SCOPEKIT_-prefixed environment variables, in that
// precedence order (later sources win). The result has defaults applied
// and is validated before being returned.
func Load(opts ...LoaderOption) (Settings, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findFile(lc.FileSystem, "scopekit.yml", "scopekit.yaml")
	}
	envFile := lc.EnvFile
	if envFile == "" {
		envFile = findFile(lc.FileSystem, ".env.scopekit", ".env")
	}

	// .env goes first so viper's AutomaticEnv sees the variables it sets.
	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return Settings{}, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindSettingsKeys(v)

	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	s := DefaultSettings()
	// Environment variables arrive as strings; decode them weakly so
	// "false" lands in bool fields and "0.25" in float fields.
	weak := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }
	if err := v.Unmarshal(&s, weak); err != nil {
		return Settings{}, fmt.Errorf("unmarshaling settings: %w", err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// findFile returns the first candidate that exists in the working directory
// or one level up, or "" when none do.
func findFile(fs FileSystem, candidates ...string) string {
	for _, name := range candidates {
		for _, dir := range []string{".", "..", "config"} {
			path := dir + "/" + name
			if fs.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// bindSettingsKeys registers every settings key with viper so AutomaticEnv
// can resolve it even when no config file mentions the key.
func bindSettingsKeys(v *viper.Viper) {
	keys := []string{
		"name",
		"environment",
		"version",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.timestamp",
		"logging.caller",
		"logging.service_name",
		"registry.default_caching",
		"verify.unnecessary_config",
		"verify.directory",
		"tracing.enabled",
		"tracing.endpoint",
		"tracing.insecure",
		"tracing.sample_rate",
		"metrics.enabled",
		"metrics.endpoint",
		"metrics.insecure",
		"metrics.interval_seconds",
	}
	for _, key := range keys {
		// BindEnv only errors on an empty key.
		_ = v.BindEnv(key)
	}
}
