// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/isbn-search/internal/openbd"
	"github.com/pdiddy/isbn-search/internal/secrets"
	"github.com/pdiddy/isbn-search/pkg/types"
)

const (
	configName = "isbn-search"
	envPrefix  = "ISBN_SEARCH"
)

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	configureViper(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureViper installs defaults and environment binding. lookup.timeout
// is read from ISBN_SEARCH_LOOKUP_TIMEOUT.
func configureViper(v *viper.Viper) {
	v.SetDefault("lookup.base_url", openbd.DefaultBaseURL)
	v.SetDefault("lookup.timeout", "30s")
	v.SetDefault("lookup.user_agent", "isbn-search/0.1")
	v.SetDefault("lookup.rate_limit_retries", 0)

	v.SetDefault("history.backend", string(types.HistorySQLite))
	v.SetDefault("history.dir", "history")
	v.SetDefault("history.redis_addr", "localhost:6379")
	v.SetDefault("history.redis_db", 0)
	v.SetDefault("history.max_entries", 100)

	v.SetDefault("serve.addr", ":8080")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig decodes v into a Config and fills credentials from secrets.
func loadConfig(v *viper.Viper, s map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	secrets.Apply(&cfg, s)
	return cfg, nil
}

// currentConfig is loadConfig over the global viper instance.
func currentConfig() (types.Config, error) {
	return loadConfig(viper.GetViper(), loadedSecrets)
}
