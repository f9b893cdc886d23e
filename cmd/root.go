package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"db-export/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	dsn        string
	DriverName string
	SchemaName string
	logLevel   string

	Log = logger.New()
)

var RootCmd = &cobra.Command{
	Use:   "db-export",
	Short: "Export database tables to XML and JSON",
	Long: `
  ____  ____    _______  ______   ___  ____ _____ 
 |  _ \| __ )  | ____\ \/ /  _ \ / _ \|  _ \_   _|
 | | | |  _ \  |  _|  \  /| |_) | | | | |_) || |  
 | |_| | |_) | | |___ /  \|  __/| |_| |  _ < | |  
 |____/|____/  |_____/_/\_\_|    \___/|_| \_\|_|  

DB EXPORT - Database to XML / JSON Exporter
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		Log.SetLevel(viper.GetString("log.level"))
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-export.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN) or SQLite file path")
	RootCmd.PersistentFlags().StringVar(&DriverName, "driver", "", "Database driver (sqlite, mysql, postgres, sqlserver, oracle); detected from the DSN when empty")
	RootCmd.PersistentFlags().StringVar(&SchemaName, "schema", "", "Schema to export (default depends on the driver)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.schema", RootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("log.level", "info")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-export")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		Log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}
