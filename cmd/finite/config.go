package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "finite"
	configFileType = "yaml"
	envPrefix      = "FINITE"

	cfgKeyBackend  = "backend"
	cfgKeyLogLevel = "log-level"
	cfgKeyJSONCase = "json-case"

	defaultBackend  = "u64"
	defaultLogLevel = "warn"
	defaultJSONCase = "kebab"
)

// loadConfig layers, from lowest to highest precedence: defaults,
// finite.yaml, FINITE_* environment variables and command line flags.
// Without --config, finite.yaml is looked up in the working directory and
// a missing file is not an error.
func loadConfig(cmd *cobra.Command, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyJSONCase, defaultJSONCase)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel, cfgKeyJSONCase} {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
	}
	return v, nil
}

// defaultConfigYAML is printed by "finite config init".
const defaultConfigYAML = `# finite configuration

# Backend family for encode, decode, table and explore:
# u8 u16 u32 u64 u128 s8 s16 s32 s64
backend: u64

# debug, info, warn or error
log-level: warn

# JSON key casing of WIT names: kebab, snake or camel
json-case: kebab
`

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
