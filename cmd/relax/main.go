// Command relax runs the relax demo application against an in-memory host,
// either from a script or behind the live inspector.
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/relaxui/relax/internal/config"
	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/tracing"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configDir  string
	logLevel   string
	logFormat  string
	noColor    bool
	jsonErrors bool
}

func main() {
	flags := &globalFlags{}
	if err := newRootCmd(flags).Execute(); err != nil {
		reportError(os.Stderr, err, flags.jsonErrors)
		os.Exit(1)
	}
}

// reportError prints coded errors with their explanation and hint, and
// anything else on one line.
func reportError(w io.Writer, err error, asJSON bool) {
	var re *errors.RelaxError
	switch {
	case stderrors.As(err, &re) && asJSON:
		fmt.Fprintln(w, re.FormatJSON())
	case stderrors.As(err, &re):
		fmt.Fprint(w, re.Format())
	default:
		fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
	}
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relax",
		Short: "A reconciling UI engine",
		Long: `relax keeps a virtual tree in sync with a host presentation tree.

This command drives the bundled todo application on an in-memory host:

  • demo    replays a script of user actions and prints each patch
  • serve   runs the application behind the live inspector`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", ".", "Directory containing "+config.ConfigFileName)
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from "+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text, json (default from "+config.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonErrors, "json-errors", false, "Print errors as JSON")

	rootCmd.AddCommand(
		demoCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads relax.yaml and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configDir)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// instruments builds the recorder and tracer the config asks for.
func instruments(cfg *config.Config) (*metrics.Recorder, *tracing.Tracer) {
	var rec *metrics.Recorder
	if cfg.Inspector.Metrics {
		opts := []metrics.Option{metrics.WithNamespace(cfg.Inspector.Namespace)}
		if cfg.Inspector.RuntimeMetrics {
			opts = append(opts, metrics.WithRuntimeCollectors())
		}
		rec = metrics.New(opts...)
	}
	var tracer *tracing.Tracer
	if cfg.Tracing.Enabled {
		tracer = tracing.New(tracing.WithTracerName(cfg.Tracing.TracerName))
	}
	return rec, tracer
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
