package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

var (
	// CLI flags for a single scenario run
	logLevel     string // Log verbosity level
	scenarioPath string // Path to a YAML scenario file
	presetName   string // Name of a built-in scenario
	seedOverride int64  // Seed override; negative leaves the scenario's seed
	outputPath   string // Write the run result as JSON to this path
	showEvents   bool   // Include the raw event log in JSON output
	showProgress bool   // Print weekly progress snapshots
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sdlc-sim",
	Short: "Agent-based simulator for software delivery team dynamics",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the --log flag before any command runs.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// signalContext returns a context cancelled by SIGINT/SIGTERM, so a long
// comparison can be interrupted cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// loadScenario resolves the --scenario / --preset flags into a config.
func loadScenario() *sim.ScenarioConfig {
	var cfg *sim.ScenarioConfig
	var err error
	switch {
	case scenarioPath != "":
		cfg, err = sim.LoadScenario(scenarioPath)
	case presetName != "":
		cfg, err = sim.LookupPreset(presetName)
	default:
		logrus.Fatalf("No scenario given: use --scenario FILE or --preset NAME (presets: %v)", sim.PresetNames())
	}
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if seedOverride >= 0 {
		cfg.Simulation.Seed = &seedOverride
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(presetsCmd)
}
