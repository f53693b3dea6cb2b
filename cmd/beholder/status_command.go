package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"beholder/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stage and subtask progress for all jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := store.OpenRedis(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("connect state store: %w", err)
			}
			defer st.Close()

			rows, err := collectStageRows(cmd.Context(), st)
			if err != nil {
				return fmt.Errorf("read stage records: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No active jobs")
				return nil
			}

			cells := statusCells(rows)
			if !plain && isTerminal() {
				fmt.Fprintln(out, renderTable(statusHeaders, cells, 4))
			} else {
				fmt.Fprintln(out, renderPlain(statusHeaders, cells))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Force tab-separated output")
	return cmd
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
