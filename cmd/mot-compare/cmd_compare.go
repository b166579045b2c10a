package main

import (
	"github.com/spf13/cobra"

	"github.com/LdDl/mot-compare/compare"
	"github.com/LdDl/mot-compare/config"
	"github.com/LdDl/mot-compare/logging"
	"github.com/LdDl/mot-compare/pipeline"
)

var compareFlags struct {
	configPath string
	bins       int
	threshold  float64
	mapping    string
	layout     string
	comma      string
	smooth     bool
	format     string
	worst      int
	logLevel   string
	logFormat  string
}

var compareCmd = &cobra.Command{
	Use:   "compare <measurements1> <measurements2>",
	Short: "Compare two measurement tables and print identity mismatch statistics",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareFlags.configPath, "config", "", "YAML configuration file")
	f.IntVar(&compareFlags.bins, "bins", 0, "Bins per feature dimension of motion models")
	f.Float64Var(&compareFlags.threshold, "threshold", 0, "Log2 score a best match must exceed")
	f.StringVar(&compareFlags.mapping, "mapping", "", "Label mapping strategy: greedy or hungarian")
	f.StringVar(&compareFlags.layout, "layout", "", "Column layout: features or bbox")
	f.StringVar(&compareFlags.comma, "comma", "", "CSV field delimiter")
	f.BoolVar(&compareFlags.smooth, "smooth", false, "Smooth trajectories with Kalman filter before building motion models")
	f.StringVar(&compareFlags.format, "format", "", "Report format: text or json")
	f.IntVar(&compareFlags.worst, "worst", 0, "Number of worst frames to list")
	f.StringVar(&compareFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&compareFlags.logFormat, "log-format", "", "Log format: text or json")
}

// loadConfig merges defaults, configuration file and explicitly set flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if compareFlags.configPath != "" {
		loaded, err := config.Load(compareFlags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	f := cmd.Flags()
	if f.Changed("bins") {
		cfg.Bins = compareFlags.bins
	}
	if f.Changed("threshold") {
		cfg.Threshold = compareFlags.threshold
	}
	if f.Changed("mapping") {
		cfg.Mapping = compareFlags.mapping
	}
	if f.Changed("layout") {
		cfg.Layout = compareFlags.layout
	}
	if f.Changed("comma") {
		cfg.Comma = compareFlags.comma
	}
	if f.Changed("smooth") {
		cfg.Smooth = compareFlags.smooth
	}
	if f.Changed("format") {
		cfg.Format = compareFlags.format
	}
	if f.Changed("worst") {
		cfg.WorstFrames = compareFlags.worst
	}
	if f.Changed("log-level") {
		cfg.Log.Level = compareFlags.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = compareFlags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())

	a, b, err := pipeline.Prepare(cmd.Context(), cfg, args[0], args[1])
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	report, err := compare.Run(cmd.Context(), a.Table, b.Table, a.Model, b.Model, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cfg.Format == "json" {
		return report.WriteJSON(out, cfg.WorstFrames)
	}
	return report.WriteText(out, cfg.WorstFrames)
}
