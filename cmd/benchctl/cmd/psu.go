package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-scpi/profile"
	"github.com/arloliu/go-scpi/psu"
	"github.com/arloliu/go-scpi/scpi"
)

func newPSUCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psu",
		Short: "U3606 supply and multimeter",
	}
	cmd.AddCommand(newPSUApplyCmd(a))

	return cmd
}

type psuFlags struct {
	serial string
	mode   string
	signal string
	cv     float64
	cc     float64
}

func newPSUApplyCmd(a *app) *cobra.Command {
	var f psuFlags

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the supply section of the bench profile and report the result",
		Long: `Apply the multimeter mode and DC output of the bench profile, print the
resulting state and readings, then return the supply to its preset state.

Flags override the profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadProfile()
			if err != nil {
				return err
			}
			f.apply(cmd, &p.PSU)
			if p.PSU.Serial == "" && a.simulate {
				p.PSU.Serial = SimSupplySerial
			}

			opts, err := p.PSU.Options(a.sessionOptions()...)
			if err != nil {
				return err
			}

			return psu.Use(cmd.Context(), a.dir, opts, func(s *psu.Supply) error {
				return reportSupply(cmd.OutOrStdout(), s, opts.Meter)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.serial, "serial", "", "supply serial number")
	flags.StringVar(&f.mode, "mode", "", "multimeter mode: voltage, current or resistance")
	flags.StringVar(&f.signal, "signal", "", "multimeter signal type: AC or DC")
	flags.Float64Var(&f.cv, "cv", 0, "constant voltage output in V")
	flags.Float64Var(&f.cc, "cc", 0, "constant current output in A")
	cmd.MarkFlagsMutuallyExclusive("cv", "cc")

	return cmd
}

func (f *psuFlags) apply(cmd *cobra.Command, p *profile.PSU) {
	flags := cmd.Flags()
	if flags.Changed("serial") {
		p.Serial = f.serial
	}
	if flags.Changed("mode") {
		p.MultimeterMode = f.mode
	}
	if flags.Changed("signal") {
		p.MultimeterSignal = f.signal
	}
	if flags.Changed("cv") {
		p.ConstantVoltage, p.ConstantCurrent = &f.cv, nil
	}
	if flags.Changed("cc") {
		p.ConstantVoltage, p.ConstantCurrent = nil, &f.cc
	}
}

func reportSupply(w io.Writer, s *psu.Supply, meter *psu.MeterConfig) error {
	st := s.State()
	fmt.Fprintf(w, "output:   %s %v enabled=%t\n", modeName(st.OutputMode), st.OutputLevel, st.OutputEnabled)

	if st.OutputEnabled {
		v, err := s.SenseVoltage()
		if err != nil {
			return err
		}
		i, err := s.SenseCurrent()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "sense:    %.6g V  %.6g A\n", v, i)
	}

	if meter != nil {
		r, err := s.Read()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "meter:    %s %s %s\n", meter.Mode, meter.Signal, formatReading(r))
	}

	return nil
}

func modeName(m scpi.OutputMode) string {
	if m == 0 {
		return "off"
	}

	return m.String()
}

func formatReading(v float64) string {
	switch {
	case scpi.IsNoMeasurement(v):
		return "no measurement"
	case scpi.IsOverload(v):
		return "overload"
	default:
		return fmt.Sprintf("%.6g", v)
	}
}
