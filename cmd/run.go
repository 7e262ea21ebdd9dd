package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

// runCmd executes a single scenario and prints its metrics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single scenario simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadScenario()

		ctx, cancel := signalContext()
		defer cancel()

		engine, err := sim.NewEngineFromConfig(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		var progress chan sim.ProgressUpdate
		var progressDone chan struct{}
		if showProgress {
			progress = make(chan sim.ProgressUpdate, 8)
			progressDone = make(chan struct{})
			engine.SetProgress(progress, 7)
			go func() {
				defer close(progressDone)
				for u := range progress {
					fmt.Printf("day %d/%d: %d created, %d merged, %d open\n",
						u.Day, u.TotalDays, u.Created, u.Merged, u.Open)
				}
			}()
		}

		result, err := engine.Run(ctx)
		if showProgress {
			close(progress)
			<-progressDone
		}
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}

		if outputPath != "" {
			if !showEvents {
				result.Events = nil
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				logrus.Fatalf("encoding result: %v", err)
			}
			if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
				logrus.Fatalf("writing result: %v", err)
			}
			logrus.Infof("wrote result to %s", outputPath)
		}

		fmt.Printf("Scenario: %s\n\n", result.Scenario)
		result.Metrics.Print(os.Stdout)
	},
}

// presetsCmd lists the built-in scenarios
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sim.PresetNames() {
			cfg, _ := sim.LookupPreset(name)
			fmt.Printf("%-16s %s\n", name, cfg.Description)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file")
	runCmd.Flags().StringVar(&presetName, "preset", "", "Name of a built-in scenario")
	runCmd.Flags().Int64Var(&seedOverride, "seed", -1, "Override the scenario's random seed (negative keeps it)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the run result as JSON to this path")
	runCmd.Flags().BoolVar(&showEvents, "events", false, "Include the raw event log in JSON output")
	runCmd.Flags().BoolVar(&showProgress, "progress", false, "Print weekly progress snapshots")
}
