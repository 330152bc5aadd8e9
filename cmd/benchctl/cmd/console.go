package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/scpi"
)

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console <serial>",
		Short: "Interactive SCPI shell",
		Long: `Open an interactive shell on one instrument. Lines ending in a query
header are sent as queries and their reply printed; everything else is written.

Built-in commands:
  errors   drain and print the firmware error queue
  help     show this help
  exit     leave the console`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			defer s.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          s.Identity().Model + "> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdin:           io.NopCloser(cmd.InOrStdin()),
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to create readline: %w", err)
			}
			defer rl.Close()

			return runConsole(rl, s)
		},
	}
}

func runConsole(rl *readline.Instance, s *instrument.Session) error {
	out := rl.Stdout()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}

		input := strings.TrimSpace(line)
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help", "?":
			fmt.Fprintln(out, "SCPI command or query, 'errors', 'exit'")
			continue
		case "errors":
			records, err := s.SystemErrors()
			for _, rec := range records {
				fmt.Fprintln(out, rec.String())
			}
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			}
			continue
		}

		if scpi.IsQuery(input) {
			reply, err := s.Query(input)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintln(out, reply)

			continue
		}
		if err := s.Write(input); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}
