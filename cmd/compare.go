package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sdlc-simlab/sdlc-sim/sim"
	"github.com/sdlc-simlab/sdlc-sim/sim/compare"
)

var (
	compareScenarios []string // Scenario YAML files to compare
	comparePresets   []string // Built-in scenarios to compare
	compareJSONPath  string   // JSON report output path
	compareCSVPath   string   // CSV report output path
	compareParallel  bool     // Run scenarios concurrently
)

// compareCmd runs several scenarios and prints a side-by-side comparison
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run multiple scenarios and compare their outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfgs, skipped := compare.LoadAll(compareScenarios)
		if len(skipped) > 0 {
			logrus.Warnf("%d scenario file(s) skipped", len(skipped))
		}
		for _, name := range comparePresets {
			cfg, err := sim.LookupPreset(name)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfgs = append(cfgs, cfg)
		}
		if len(cfgs) == 0 {
			logrus.Fatalf("No scenarios given: use --scenario and/or --preset (presets: %v)", sim.PresetNames())
		}

		ctx, cancel := signalContext()
		defer cancel()

		run := compare.RunAll
		if compareParallel {
			run = compare.RunAllParallel
		}
		c, err := run(ctx, cfgs)
		if err != nil {
			logrus.Fatalf("comparison failed: %v", err)
		}

		c.WriteTable(os.Stdout)
		if insights := c.Insights(); len(insights) > 0 {
			fmt.Println()
			for _, insight := range insights {
				fmt.Printf("- %s\n", insight)
			}
		}

		if compareJSONPath != "" {
			if err := c.ExportJSON(compareJSONPath); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("wrote JSON report to %s", compareJSONPath)
		}
		if compareCSVPath != "" {
			if err := c.ExportCSV(compareCSVPath); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("wrote CSV report to %s", compareCSVPath)
		}
	},
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareScenarios, "scenario", nil, "Scenario YAML files to compare (repeatable)")
	compareCmd.Flags().StringSliceVar(&comparePresets, "preset", nil, "Built-in scenarios to compare (repeatable)")
	compareCmd.Flags().StringVar(&compareJSONPath, "json", "", "Write a nested JSON report to this path")
	compareCmd.Flags().StringVar(&compareCSVPath, "csv", "", "Write a flat CSV report to this path")
	compareCmd.Flags().BoolVar(&compareParallel, "parallel", false, "Run scenarios concurrently")
}
