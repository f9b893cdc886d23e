package cmd

import (
	"fmt"
	"strings"
	"time"

	"db-export/internal/engine"
	"db-export/internal/exportconfig"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showProgress bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every table to XML and/or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := ResolveDBConfig()
		if err != nil {
			return err
		}

		rules := exportconfig.File{}
		if path := viper.GetString("export.rules"); path != "" {
			var errs []error
			rules, errs = exportconfig.Load(path)
			for _, e := range errs {
				Log.Warnf("Export rules: %v", e)
			}
			Log.Debugf("Export rules: %s", rules.Common)
		}

		targets := exportTargets(rules)
		if len(targets) == 0 {
			return fmt.Errorf("nothing to export: set --xml and/or --json (or output.xml / output.json)")
		}

		conv := engine.NewConverter(Log)
		if err := conv.Open(config.Opener()); err != nil {
			return err
		}
		defer conv.Close()
		fmt.Printf("Connected to %s (%d tables)\n", config.Name, len(conv.Tables()))

		start := time.Now()
		if showProgress {
			uiprogress.Start()
			bar := uiprogress.AddBar(len(conv.Tables()) * len(targets)).AppendCompleted().PrependElapsed()
			current := ""
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("Exporting %-20s ", current)
			})
			conv.OnTable = func(format engine.Format, table string) {
				current = string(format) + ":" + table
				bar.Incr()
			}
		}

		results, err := conv.ExportAll(targets)
		if showProgress {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		failed := printSummary(results)
		Log.Infof("Export done! Time Elapsed: %s", time.Since(start))
		if failed > 0 {
			return fmt.Errorf("%d of %d exports failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("xml", "", "Write the XML export to this file")
	exportCmd.Flags().String("json", "", "Write the JSON export to this file")
	exportCmd.Flags().String("rules", "", "JSON file with export rules (excludes and keys)")
	exportCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar")

	viper.BindPFlag("output.xml", exportCmd.Flags().Lookup("xml"))
	viper.BindPFlag("output.json", exportCmd.Flags().Lookup("json"))
	viper.BindPFlag("export.rules", exportCmd.Flags().Lookup("rules"))
}

// exportTargets lists the requested outputs, XML first.
func exportTargets(rules exportconfig.File) []engine.Target {
	var targets []engine.Target
	for _, f := range []engine.Format{engine.FormatXML, engine.FormatJSON} {
		path := viper.GetString("output." + string(f))
		if path == "" {
			continue
		}
		targets = append(targets, engine.Target{Format: f, Path: path, Config: rules.For(f.Section())})
	}
	return targets
}

func printSummary(results []*engine.Result) int {
	fmt.Println("\nSummary Report:")
	failed := 0
	for _, r := range results {
		icon := "✓"
		if r.Err != nil {
			icon = "!"
			failed++
		}
		fmt.Printf("[%s] %-4s %-30s : %d tables, %d records (skipped %d, failed %d, dropped %d)\n",
			icon, strings.ToUpper(string(r.Format)), r.Path, r.Tables, r.Records, r.Skipped, r.Failed, r.Dropped)
		for _, d := range r.Diagnostics {
			fmt.Printf("    └ %s\n", d)
		}
	}
	fmt.Println("--------------------------------------------------")
	return failed
}
