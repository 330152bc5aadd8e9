package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-scpi/trace"
)

func newTraceCmd(*app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect command traces recorded with --trace",
	}
	cmd.AddCommand(newTraceDumpCmd())

	return cmd
}

func parseKind(s string) (trace.Kind, error) {
	if s == "" {
		return 0, nil
	}
	for k := trace.KindOpen; k <= trace.KindClose; k++ {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown event kind %q", s)
}

func newTraceDumpCmd() *cobra.Command {
	var (
		session string
		kind    string
		address string
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the events of a trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}

			r, err := trace.OpenFile(args[0], trace.Filter{Session: session, Kind: k, Address: address})
			if err != nil {
				return err
			}
			defer r.Close()

			events, err := r.All()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ev := range events {
				fmt.Fprintf(out, "%s %s #%d %-7s %s", ev.Time.Format(time.RFC3339Nano), shortID(ev.Session), ev.Seq, ev.Kind, ev.Command)
				switch {
				case ev.Reply != "":
					fmt.Fprintf(out, " -> %s", ev.Reply)
				case ev.Error != "":
					fmt.Fprintf(out, " !! %s", ev.Error)
				case ev.Kind == trace.KindOpen:
					fmt.Fprintf(out, " %s", ev.Address)
				}
				if ev.Elapsed > 0 {
					fmt.Fprintf(out, " (%s)", ev.Elapsed)
				}
				fmt.Fprintln(out)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&session, "session", "", "only events of this session id")
	flags.StringVar(&kind, "kind", "", "only events of this kind (open, write, query, reply, error, timeout, close)")
	flags.StringVar(&address, "address", "", "only events of this instrument address")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
