// Package config loads loader settings from defaults, an optional config
// file and CJS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/require"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "CJS"
	// ConfigFileName is the basename (without extension) searched for in
	// the working directory when no explicit file is given.
	ConfigFileName = ".cjs"

	EngineJS       = "js"
	EngineStarlark = "starlark"
)

// Config holds the loader settings.
type Config struct {
	// LibraryPaths are searched for bare specifiers after the ancestor
	// walk. From the environment they are split on the OS list separator.
	LibraryPaths []string `mapstructure:"-"`
	// ScriptExtension, when empty, leaves the engine's default in place.
	ScriptExtension string `mapstructure:"script_extension"`
	DataExtension   string `mapstructure:"data_extension"`
	ModulesDir      string `mapstructure:"modules_dir"`
	Descriptor      string `mapstructure:"descriptor"`
	MainField       string `mapstructure:"main_field"`
	IndexName       string `mapstructure:"index_name"`
	Engine          string `mapstructure:"engine"`
	LogLevel        string `mapstructure:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataExtension: require.DefaultDataExtension,
		ModulesDir:    require.DefaultModulesDir,
		Descriptor:    require.DefaultDescriptor,
		MainField:     require.DefaultMainField,
		IndexName:     require.DefaultIndexName,
		Engine:        EngineJS,
		LogLevel:      zerolog.InfoLevel.String(),
	}
}

// Load reads the configuration. When path is empty a ".cjs" file (yaml,
// toml or json) in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("library_paths", []string{})
	v.SetDefault("script_extension", defaults.ScriptExtension)
	v.SetDefault("data_extension", defaults.DataExtension)
	v.SetDefault("modules_dir", defaults.ModulesDir)
	v.SetDefault("descriptor", defaults.Descriptor)
	v.SetDefault("main_field", defaults.MainField)
	v.SetDefault("index_name", defaults.IndexName)
	v.SetDefault("engine", defaults.Engine)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	switch raw := v.Get("library_paths").(type) {
	case string:
		cfg.LibraryPaths = filepath.SplitList(raw)
	default:
		cfg.LibraryPaths = v.GetStringSlice("library_paths")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the engine name and the log level.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineJS, EngineStarlark:
	default:
		return fmt.Errorf("unknown engine %q (want %q or %q)", c.Engine, EngineJS, EngineStarlark)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// LoaderOptions converts the configuration to loader options. Library
// paths are opened as filesystem folders and must exist.
func (c *Config) LoaderOptions() ([]require.Option, error) {
	var opts []require.Option
	if c.ScriptExtension != "" {
		opts = append(opts, require.WithScriptExtension(c.ScriptExtension))
	}
	opts = append(opts,
		require.WithDataExtension(c.DataExtension),
		require.WithModulesDir(c.ModulesDir),
		require.WithDescriptor(c.Descriptor, c.MainField),
		require.WithIndexName(c.IndexName),
	)

	libs := make([]folder.Folder, 0, len(c.LibraryPaths))
	for _, dir := range c.LibraryPaths {
		if dir == "" {
			continue
		}
		lib, err := folder.NewOSFolder(dir)
		if err != nil {
			return nil, fmt.Errorf("library path: %w", err)
		}
		libs = append(libs, lib)
	}
	if len(libs) > 0 {
		opts = append(opts, require.WithLibraryPaths(libs...))
	}
	return opts, nil
}
