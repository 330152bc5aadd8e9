package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/profile"
	"github.com/arloliu/go-scpi/sim"
	"github.com/arloliu/go-scpi/trace"
	"github.com/arloliu/go-scpi/transport"
	"github.com/arloliu/go-scpi/usbtmc"
)

// Serial numbers of the instruments on the simulated bench.
const (
	SimSupplySerial = "SIM3606001"
	SimSMUSerial    = "SIM2723001"
)

// app carries the global flags and the resources opened for one invocation.
type app struct {
	simulate    bool
	tracePath   string
	timeout     time.Duration
	verbose     bool
	logLevel    string
	profilePath string
	envFiles    []string

	log      logger.Logger
	recorder *trace.FileRecorder
	dir      transport.Directory
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the benchctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "benchctl",
		Short: "Bench instrument control over USBTMC",
		Long: `Discover, query and configure the Keysight U3606 supply/multimeter and
the U2723 source-measure unit.

Examples:
  benchctl discover                              # List attached instruments
  benchctl query MY5400001 "SENS:VOLT?"          # One-shot query
  benchctl psu apply --profile bench.yaml        # Apply a bench profile
  benchctl --sim smu pulse --peak 0.02 --width 5 # Pulse on the simulated SMU`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd.ErrOrStderr()) },
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.simulate, "sim", false, "use simulated instruments instead of USB devices")
	flags.StringVar(&a.tracePath, "trace", "", "record every command to a CBOR trace file")
	flags.DurationVar(&a.timeout, "timeout", 0, "transport timeout (default per instrument)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every command (same as --log-level debug)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&a.profilePath, "profile", "", "bench profile YAML file")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, ".env files with BENCH_ overrides")

	root.AddCommand(
		newDiscoverCmd(a),
		newIDNCmd(a),
		newWriteCmd(a),
		newQueryCmd(a),
		newConsoleCmd(a),
		newPSUCmd(a),
		newSMUCmd(a),
		newTraceCmd(a),
	)

	return root
}

func (a *app) setup(stderr io.Writer) error {
	level, err := logger.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = logger.DebugLevel
	}
	a.log = logger.NewSlogWithWriter(stderr, level, false, os.Getenv("ENV") == "development")
	logger.SetLogger(a.log)

	if a.simulate {
		a.dir = sim.NewDirectory(sim.NewU3606(SimSupplySerial), sim.NewU2723(SimSMUSerial))
	} else {
		a.dir = usbtmc.NewDirectory(a.log)
	}

	if a.tracePath != "" {
		rec, err := trace.NewFileRecorder(a.tracePath)
		if err != nil {
			return err
		}
		a.recorder = rec
	}

	return nil
}

func (a *app) teardown() error {
	if a.recorder == nil {
		return nil
	}

	return a.recorder.Close()
}

// sessionOptions returns the session options selected by the global flags.
func (a *app) sessionOptions() []instrument.Option {
	opts := []instrument.Option{instrument.WithLogger(a.log)}
	if a.timeout != 0 {
		opts = append(opts, instrument.WithTimeout(a.timeout))
	}
	if a.recorder != nil {
		opts = append(opts, instrument.WithTracer(a.recorder))
	}

	return opts
}

// loadProfile reads the --profile file, if any, and applies the environment
// overrides.
func (a *app) loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{}
	if a.profilePath != "" {
		var err error
		if p, err = profile.Load(a.profilePath); err != nil {
			return nil, err
		}
	}
	if err := p.LoadEnv(a.envFiles...); err != nil {
		return nil, err
	}

	return p, nil
}

// open opens a raw session to the instrument with the given serial number.
func (a *app) open(ctx context.Context, serial, model string) (*instrument.Session, error) {
	return instrument.Open(ctx, a.dir, serial, model, a.sessionOptions()...)
}
