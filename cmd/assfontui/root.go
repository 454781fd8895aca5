package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFlag string

	ctx := newCommandContext(&envFlag)

	rootCmd := &cobra.Command{
		Use:           "assfontui",
		Short:         "Control panel for the AssFontSubset engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipEnvironment(cmd) {
				return nil
			}
			_, err := ctx.ensureEnvironment()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "Environment file path (default ./assfontui.toml)")

	serveCmd := newServeCommand(ctx)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newPortCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))

	return rootCmd
}
