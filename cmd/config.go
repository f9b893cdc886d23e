package cmd

import (
	"fmt"

	"db-export/internal/source"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// ResolveDBConfig picks the database to export. A --dsn flag wins, then the active
// entry of the databases list, then the database section.
func ResolveDBConfig() (*DBConfig, error) {
	flagged := RootCmd.PersistentFlags().Changed("dsn")
	if !flagged && viper.IsSet("databases") {
		config, err := GetActiveDBConfig()
		if err != nil {
			return nil, err
		}
		if RootCmd.PersistentFlags().Changed("schema") {
			config.Schema = SchemaName
		}
		return config, nil
	}

	config := &DBConfig{
		Name:   "default",
		Driver: viper.GetString("database.driver"),
		DSN:    viper.GetString("database.dsn"),
		Schema: viper.GetString("database.schema"),
		Active: true,
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag or config)")
	}
	return config, nil
}

func (c *DBConfig) Opener() source.SQLOpener {
	return source.SQLOpener{Driver: c.Driver, DSN: c.DSN, Schema: c.Schema}
}
