package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Print the log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.ReadLog())
			return nil
		},
	}
}
