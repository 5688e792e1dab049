// Package config turns command-line flags and JITTER_* environment
// variables into a validated Config.
//
// Precedence, highest first: explicit flag, environment variable,
// default. Every long flag has an environment twin with dashes turned
// into underscores: --header-every is JITTER_HEADER_EVERY.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/randomizedcoder/jitter/internal/cycles"
	"github.com/randomizedcoder/jitter/internal/report"
	"github.com/randomizedcoder/jitter/internal/trigger"
	"github.com/randomizedcoder/jitter/internal/workload"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// EnvPrefix prefixes the environment twins of the flags.
const EnvPrefix = "JITTER"

// Defaults
const (
	DefaultRate       = 20000
	DefaultIterations = 200
)

// Legend modes.
const (
	LegendAuto   = "auto"
	LegendAlways = "always"
	LegendNever  = "never"
)

// Config holds all command-line configuration
type Config struct {
	// Loop shape
	Loops       uint32
	Rate        uint32
	Iterations  uint64
	Warmup      int
	HeaderEvery uint64

	// Anomaly trigger
	PID       int
	Threshold uint64
	Settle    uint64

	// Output and diagnostics
	Clock       cycles.Kind
	AsyncReport bool
	Legend      string
	LogLevel    logrus.Level

	// Misc
	Help    bool
	Version bool
}

// TriggerEnabled reports whether an anomaly target was given.
func (c *Config) TriggerEnabled() bool {
	return c.PID > 0
}

// Parse parses args (without the program name). Usage goes to out. On
// --help it prints usage and returns flag.ErrHelp.
func Parse(name string, args []string, out io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false // Preserve definition order in help

	fs.Uint32P("loops", "l", workload.DefaultIterations, "Workload loop count per sample")
	fs.Uint32P("rate", "r", DefaultRate, "Samples per display update")
	fs.Uint64P("iterations", "i", DefaultIterations, "Display updates before exit (0 = run forever)")
	fs.IntP("pid", "p", 0, "Tracer PID to send SIGUSR2 on the first jitter spike (0 = disabled)")
	fs.Uint64P("threshold", "t", trigger.DefaultThreshold, "Jitter threshold in ticks for the tracer trigger")
	fs.Uint64("settle", trigger.DefaultSettle, "Display updates to wait before the trigger may fire")
	fs.Int("warmup", workload.DefaultPrime, "Uncounted workload calls before measuring")
	fs.Uint64("header-every", report.HeaderEvery, "Repeat the header every N sample numbers")
	fs.String("clock", string(cycles.KindAuto), "Time source: auto, tsc or monotonic")
	fs.Bool("async-report", false, "Write report rows from a separate goroutine")
	fs.String("legend", LegendAuto, "Print the column legend: auto (stdout is a terminal), always, never")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolP("help", "h", false, "Show help")
	fs.BoolP("version", "v", false, "Show version")

	fs.Usage = func() {
		fmt.Fprintf(out, "%s - measure execution-time jitter on one CPU core\n", name)
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "Usage: taskset -c <cpu> %s [flags]\n", name)
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Flags:")
		fs.PrintDefaults()
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "Every flag can also be set from the environment, e.g. %s_LOOPS=40000.\n", EnvPrefix)
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "For resetting statistics use:  pkill -USR1 %s\n", name)
		fmt.Fprintln(out, "For elevating the priority of this program try:  chrt -r -p 99 <pid>")
		fmt.Fprintln(out, "For tracing the first spike run on another terminal:")
		fmt.Fprintln(out, "  perf record -S -C$CPU -e intel_pt// -v")
		fmt.Fprintf(out, "and start %s with --pid $(pgrep perf)\n", name)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	cfg := &Config{
		Loops:       v.GetUint32("loops"),
		Rate:        v.GetUint32("rate"),
		Iterations:  v.GetUint64("iterations"),
		Warmup:      v.GetInt("warmup"),
		HeaderEvery: v.GetUint64("header-every"),
		PID:         v.GetInt("pid"),
		Threshold:   v.GetUint64("threshold"),
		Settle:      v.GetUint64("settle"),
		AsyncReport: v.GetBool("async-report"),
		Legend:      v.GetString("legend"),
		Help:        v.GetBool("help"),
		Version:     v.GetBool("version"),
	}

	if cfg.Help {
		fs.Usage()
		return cfg, flag.ErrHelp
	}
	if cfg.Version {
		return cfg, nil
	}

	if extra := fs.Args(); len(extra) > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, extra)
	}

	kind, err := cycles.ParseKind(v.GetString("clock"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.Clock = kind

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that the flag types do not.
func (c *Config) Validate() error {
	switch {
	case c.Loops == 0:
		return fmt.Errorf("%w: loops must be positive", ErrInvalid)
	case c.Rate == 0:
		return fmt.Errorf("%w: rate must be positive", ErrInvalid)
	case c.HeaderEvery == 0:
		return fmt.Errorf("%w: header-every must be positive", ErrInvalid)
	case c.Warmup < 0:
		return fmt.Errorf("%w: warmup must not be negative", ErrInvalid)
	case c.PID < 0:
		return fmt.Errorf("%w: pid must not be negative", ErrInvalid)
	}

	switch c.Legend {
	case LegendAuto, LegendAlways, LegendNever:
	default:
		return fmt.Errorf("%w: legend must be auto, always or never, got %q", ErrInvalid, c.Legend)
	}
	return nil
}
