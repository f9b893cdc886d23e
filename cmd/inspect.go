package cmd

import (
	"fmt"

	"db-export/internal/engine"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the tables and fields an export would read",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := ResolveDBConfig()
		if err != nil {
			return err
		}

		conv := engine.NewConverter(Log)
		if err := conv.Open(config.Opener()); err != nil {
			return err
		}
		defer conv.Close()

		fmt.Printf("Analysis Results for %s:\n", config.Name)
		for i, t := range conv.Tables() {
			fmt.Printf("[%02d] %s (%d fields)\n", i+1, t.Name, t.Len())
			for _, f := range t.Fields() {
				fmt.Printf("     %-24s %-16s %s\n", f.Name, f.DeclaredType, f.Type)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
