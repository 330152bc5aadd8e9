package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-scpi/scpi"
)

func newDiscoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List the attached USBTMC instruments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoints, err := a.dir.Discover(cmd.Context())
			if err != nil {
				return err
			}
			if len(endpoints) == 0 {
				return scpi.ErrNoDevicesDetected
			}

			out := cmd.OutOrStdout()
			for _, ep := range endpoints {
				fmt.Fprintf(out, "%-48s model=%s serial=%s\n", ep.Address, ep.Model, ep.Serial)
			}

			return nil
		},
	}
}

func newIDNCmd(a *app) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "idn <serial>",
		Short: "Identify the instrument with the given serial number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0], model)
			if err != nil {
				return err
			}
			defer s.Close()

			id := s.Identity()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "manufacturer: %s\n", id.Manufacturer)
			fmt.Fprintf(out, "model:        %s\n", id.Model)
			fmt.Fprintf(out, "serial:       %s\n", id.Serial)
			fmt.Fprintf(out, "firmware:     %s\n", id.Firmware)
			fmt.Fprintf(out, "address:      %s\n", s.Endpoint().Address)

			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "required model token, e.g. U3606")

	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write <serial> <command>...",
		Short: "Send commands to an instrument",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			defer s.Close()

			for _, c := range args[1:] {
				if err := s.Write(c); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <serial> <query>",
		Short: "Send a query and print the reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !scpi.IsQuery(args[1]) {
				return fmt.Errorf("%q is not a query", args[1])
			}

			s, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			defer s.Close()

			reply, err := s.Query(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(reply))

			return nil
		},
	}
}
