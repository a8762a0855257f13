// Package config is used to load the configuration file
package config

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/blacktop/go-objc/pkg/bindgen"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Generate configures binding generation.
type Generate struct {
	// Frameworks is the directory holding one sub-directory per module with
	// its translation-config.toml and symbols.yaml.
	Frameworks string `mapstructure:"frameworks"`
	// Output is the directory generated packages are written to.
	Output       string              `mapstructure:"output"`
	ImportPrefix string              `mapstructure:"import-prefix"`
	Targets      translation.Targets `mapstructure:"targets"`
	Parallel     int                 `mapstructure:"parallel"`
	DryRun       bool                `mapstructure:"dry-run"`
}

// Config is the configuration struct
type Config struct {
	Verbose  bool     `mapstructure:"verbose"`
	Color    bool     `mapstructure:"color"`
	Generate Generate `mapstructure:"generate"`
}

func (c *Config) verify() error {
	if c.Generate.Frameworks == "" {
		c.Generate.Frameworks = "frameworks"
	}
	if c.Generate.Output == "" {
		c.Generate.Output = c.Generate.Frameworks
	}
	if c.Generate.ImportPrefix == "" {
		c.Generate.ImportPrefix = bindgen.DefaultImportPrefix
	}
	switch {
	case c.Generate.Parallel < 0:
		return fmt.Errorf("config: parallel must not be negative")
	case c.Generate.Parallel == 0:
		c.Generate.Parallel = runtime.NumCPU()
	}
	return nil
}

var targetsType = reflect.TypeOf(translation.Targets{})

// targetsHook decodes deployment targets given as "macos=11.0,ios=14".
func targetsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != targetsType {
		return data, nil
	}
	if data.(string) == "" {
		return translation.Targets(nil), nil
	}
	return translation.ParseTargets(data.(string))
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	var c *Config

	if err := viper.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		targetsHook,
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = new(Config)
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}
