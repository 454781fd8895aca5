package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newPortCommand(ctx *commandContext) *cobra.Command {
	portCmd := &cobra.Command{
		Use:   "port",
		Short: "Inspect or change the preferred web UI port",
	}
	portCmd.AddCommand(newPortShowCommand(ctx))
	portCmd.AddCommand(newPortSetCommand(ctx))
	return portCmd
}

func newPortShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the port the next launch starts probing from",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnvironment()
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if port, ok := svc.Registry().Read(); ok {
				fmt.Fprintf(out, "%d (from %s)\n", port, svc.Registry().Path())
				return nil
			}
			fmt.Fprintf(out, "%d (default)\n", env.DefaultPort)
			return nil
		},
	}
}

func newPortSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <port>",
		Short: "Persist the preferred port for the next launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			message, ok := svc.StorePort(args[0])
			if !ok {
				return errors.New(message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}
