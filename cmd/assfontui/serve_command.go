package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"assfontui/internal/launcher"
	"assfontui/internal/logging"
	"assfontui/internal/preflight"
	"assfontui/internal/relay"
	"assfontui/internal/webui"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnvironment()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}

			logger.Info("starting control panel",
				logging.String("environment", ctx.envPath),
				logging.Bool("environment_found", ctx.envExists),
				logging.String("engine", env.EngineBinary),
			)
			for _, result := range preflight.Failed(preflight.RunAll(env)) {
				logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail),
				)
			}

			opts := []launcher.Option{
				launcher.WithLogger(logger),
				launcher.WithRelay(launcher.CloudflaredRelay(relay.Cloudflared{
					Binary: env.RelayBinary,
					Logger: logging.NewComponentLogger(logger, "relay"),
				})),
				launcher.WithReadyHook(func(outcome launcher.Outcome) {
					out := cmd.OutOrStdout()
					if outcome.Relay {
						fmt.Fprintf(out, "Web UI published at %s (local port %d)\n", outcome.URL, outcome.Port)
						return
					}
					fmt.Fprintf(out, "Web UI listening at %s\n", outcome.URL)
				}),
			}
			if noBrowser {
				opts = append(opts, launcher.WithBrowser(nil))
			}

			handler := webui.NewHandler(svc, logger)
			l := launcher.New(env, svc.Registry(), handler, opts...)
			if _, err := l.Launch(cmd.Context()); err != nil {
				logging.ErrorWithContext(logger, "control panel failed", "startup_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "see the log file for details"),
				)
				return fmt.Errorf("start web UI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the browser after launch")
	return cmd
}
