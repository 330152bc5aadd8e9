package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-scpi/memlist"
	"github.com/arloliu/go-scpi/profile"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/smu"
)

func newSMUCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smu",
		Short: "U2723 source-measure unit",
	}
	cmd.PersistentFlags().String("serial", "", "SMU serial number")
	cmd.AddCommand(newSMUApplyCmd(a), newSMUMeasureCmd(a), newSMUPulseCmd(a))

	return cmd
}

// smuProfile loads the SMU section of the profile and applies the --serial
// flag.
func (a *app) smuProfile(cmd *cobra.Command) (*profile.SMU, error) {
	p, err := a.loadProfile()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("serial") {
		p.SMU.Serial, _ = cmd.Flags().GetString("serial")
	}
	if p.SMU.Serial == "" && a.simulate {
		p.SMU.Serial = SimSMUSerial
	}

	return &p.SMU, nil
}

func newSMUApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply the SMU section of the bench profile and report each channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.smuProfile(cmd)
			if err != nil {
				return err
			}
			opts, err := p.Options(a.sessionOptions()...)
			if err != nil {
				return err
			}

			return smu.Use(cmd.Context(), a.dir, opts, func(s *smu.SMU) error {
				for _, c := range opts.Channels {
					if err := reportChannel(cmd.OutOrStdout(), s, c.Channel); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func reportChannel(w io.Writer, s *smu.SMU, ch scpi.Channel) error {
	st := s.Channel(ch)
	on, err := s.OutputStatus(ch)
	if err != nil {
		return err
	}

	var reading float64
	if st.SourceMode == scpi.SIMV {
		reading, err = s.MeasureVoltage(ch)
	} else {
		reading, err = s.MeasureCurrent(ch)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %s %v output=%t measured=%s\n", ch, st.SourceMode, st.SourceLevel, on, formatReading(reading))

	return nil
}

func newSMUMeasureCmd(a *app) *cobra.Command {
	var (
		channel  int
		quantity string
		points   int
		interval int
	)

	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Run an array measurement on one channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := scpi.ChannelFromInt(channel)
			if err != nil {
				return err
			}
			p, err := a.smuProfile(cmd)
			if err != nil {
				return err
			}
			opts, err := p.Options(a.sessionOptions()...)
			if err != nil {
				return err
			}

			return smu.Use(cmd.Context(), a.dir, opts, func(s *smu.SMU) error {
				if err := s.SetSweepPoints(ch, points); err != nil {
					return err
				}
				if err := s.SetSweepInterval(ch, interval); err != nil {
					return err
				}

				var readings []float64
				switch strings.ToLower(quantity) {
				case "current":
					readings, err = s.MeasureCurrentArray(ch)
				case "voltage":
					readings, err = s.MeasureVoltageArray(ch)
				default:
					return &scpi.OptionError{Kind: "quantity", Value: quantity}
				}
				if err != nil {
					return err
				}

				return printReadings(cmd.OutOrStdout(), readings)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&channel, "channel", 1, "channel number (1-3)")
	flags.StringVar(&quantity, "quantity", "current", "measured quantity: current or voltage")
	flags.IntVar(&points, "points", 10, "number of readings (1-4096)")
	flags.IntVar(&interval, "interval", 1, "sample interval in ms (1-32767)")

	return cmd
}

func newSMUPulseCmd(a *app) *cobra.Command {
	var (
		channel int
		slot    int
		peak    float64
		width   float64
		loops   int
		voltage bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Build and run a memory list pulse program",
		Long: `Build a single pulse memory list program, enable the channel, run the
program and print its readings. With --dry-run the program is printed and no
instrument is opened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := scpi.ChannelFromInt(channel)
			if err != nil {
				return err
			}
			memSlot, err := scpi.ParseMemorySlot(strconv.Itoa(slot))
			if err != nil {
				return err
			}

			build := memlist.PulseCurrent
			if voltage {
				build = memlist.PulseVoltage
			}
			prog, err := build(ch, peak, width, memlist.WithSlot(memSlot), memlist.WithLoops(loops))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				for _, c := range prog.Commands {
					fmt.Fprintln(out, c)
				}

				return nil
			}

			p, err := a.smuProfile(cmd)
			if err != nil {
				return err
			}
			opts, err := p.Options(a.sessionOptions()...)
			if err != nil {
				return err
			}

			return smu.Use(cmd.Context(), a.dir, opts, func(s *smu.SMU) error {
				if err := s.EnableChannel(ch); err != nil {
					return err
				}
				readings, err := s.RunProgram(prog)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d steps, %d loops\n", ch, prog.Steps, prog.Loops)

				return printReadings(out, readings)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&channel, "channel", 1, "channel number (1-3)")
	flags.IntVar(&slot, "slot", 1, "memory list slot (1-2)")
	flags.Float64Var(&peak, "peak", 0, "pulse peak in A, or V with --voltage")
	flags.Float64Var(&width, "width", 1, "pulse width in ms")
	flags.IntVar(&loops, "loops", memlist.DefaultLoops, "number of pulses")
	flags.BoolVar(&voltage, "voltage", false, "pulse voltage instead of current")
	flags.BoolVar(&dryRun, "dry-run", false, "print the program without running it")
	_ = cmd.MarkFlagRequired("peak")

	return cmd
}

func printReadings(w io.Writer, readings []float64) error {
	for i, r := range readings {
		if _, err := fmt.Fprintf(w, "%4d  %s\n", i+1, formatReading(r)); err != nil {
			return err
		}
	}

	return nil
}
