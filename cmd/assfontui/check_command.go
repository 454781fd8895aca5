package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"assfontui/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories and external programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnvironment()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			results := preflight.RunAll(env)

			envLine := ctx.envPath
			if !ctx.envExists {
				envLine += " (not found, defaults used)"
			}
			fmt.Fprintln(out, renderStatusLine("Environment", statusInfo, envLine, shouldColorize(out)))
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Check", "Status", "Detail"},
				rows:    checkRows(results, shouldColorize(out)),
				wrap:    72,
			}))
			return summarizeChecks(out, results)
		},
	}
}

func checkRows(results []preflight.Result, colorize bool) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, statusCell(r, colorize), r.Detail})
	}
	return rows
}

func summarizeChecks(out io.Writer, results []preflight.Result) error {
	colorize := shouldColorize(out)
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		kind := statusOK
		for _, r := range results {
			if r.Warn {
				kind = statusWarn
			}
		}
		fmt.Fprintln(out, renderStatusLine("Summary", kind, fmt.Sprintf("%d checks passed", len(results)), colorize))
		return nil
	}
	fmt.Fprintln(out, renderStatusLine("Summary", statusError, fmt.Sprintf("%d of %d checks failed", len(failed), len(results)), colorize))
	return fmt.Errorf("%d checks failed", len(failed))
}
