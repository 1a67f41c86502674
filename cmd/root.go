package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/mdc-sim/sim"
	"github.com/inference-sim/mdc-sim/sim/analytic"
	"github.com/inference-sim/mdc-sim/sim/report"
)

var (
	logLevel     string // Log verbosity level
	configPath   string // YAML config document
	outputFormat string // text, csv or json
	traceEvents  bool   // Record every dispatched event
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mdc-sim",
	Short: "Discrete-event simulator for M/D/c queues",
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// addParamFlags registers the flags that override config document keys.
func addParamFlags(c *cobra.Command) {
	c.Flags().Float64("arrival-rate", 0, "Arrival rate l (jobs per time unit)")
	c.Flags().Float64("service-rate", 0, "Service rate u per server; service time is 1/u")
	c.Flags().Int("servers", 0, "Number of servers c")
	c.Flags().Float64("wait-threshold", 0, "Wait-time threshold twait")
	c.Flags().Float64("horizon", 0, "Simulation end time (endtime)")
	c.Flags().Float64("events", 0, "Expected number of arrivals (nevents); sets endtime = nevents / l")
	c.Flags().Int64("seed", 0, "Seed for the arrival process (default: wall clock)")
}

// flagOverrides returns a RunDoc holding only the flags set on the command
// line, so they take precedence over the config document.
func flagOverrides(c *cobra.Command) RunDoc {
	var d RunDoc
	f := c.Flags()
	float := func(name string) *float64 {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetFloat64(name)
		return &v
	}
	d.L = float("arrival-rate")
	d.U = float("service-rate")
	d.TWait = float("wait-threshold")
	d.EndTime = float("horizon")
	d.NEvents = float("events")
	if f.Changed("servers") {
		v, _ := f.GetInt("servers")
		d.C = &v
	}
	if f.Changed("seed") {
		v, _ := f.GetInt64("seed")
		d.Seed = &v
	}
	return d
}

// resolveRunConfig merges the config document named by args or --config
// with the command-line overrides.
func resolveRunConfig(c *cobra.Command, args []string) (sim.Config, error) {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	var doc RunDoc
	if path != "" {
		var err error
		if doc, err = LoadRunDoc(path); err != nil {
			return sim.Config{}, err
		}
		logrus.Infof("Loaded config %s", path)
	}
	over := flagOverrides(c)
	if over.EndTime != nil && over.NEvents != nil {
		return sim.Config{}, fmt.Errorf("--horizon and --events are mutually exclusive: %w", sim.ErrInvalidConfig)
	}
	return doc.Overlay(over).Config()
}

// writeResults renders results to w in format.
func writeResults(w io.Writer, format report.Format, results ...*sim.RunResult) error {
	switch format {
	case report.FormatCSV:
		cw := report.NewCSVWriter(w)
		for _, r := range results {
			if err := cw.Write(r); err != nil {
				return err
			}
		}
		return cw.Flush()
	case report.FormatJSON:
		return report.WriteJSON(w, results...)
	default:
		for i, r := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			var ref *analytic.Reference
			if mdc, err := analytic.MDc(r.Config.ArrivalRate, r.Config.ServiceRate, r.Config.ServerCount); err == nil {
				ref = &mdc
			}
			if err := report.WriteText(w, r, ref); err != nil {
				return err
			}
		}
		return nil
	}
}

// runCmd executes one simulation using a config document and CLI flags
var runCmd = &cobra.Command{
	Use:   "run [config.yaml]",
	Short: "Run one M/D/c simulation",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		cfg, err := resolveRunConfig(cmd, args)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		cfg.Trace = traceEvents

		result, err := sim.RunSimulation(cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := writeResults(os.Stdout, format, result); err != nil {
			logrus.Fatalf("Writing results: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config document (keys l, u, c, twait, endtime|nevents, seed)")
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, csv, json)")
	runCmd.Flags().BoolVar(&traceEvents, "trace", false, "Record every dispatched event and summarize the trace")
	addParamFlags(runCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(analyticCmd)
}
