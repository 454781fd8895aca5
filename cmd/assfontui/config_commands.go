package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"assfontui/internal/api"
	"assfontui/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration document utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSaveCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitEnvCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Show a configuration document after validation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnvironment()
			if err != nil {
				return err
			}
			store := config.NewStore(*env)
			path := store.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			doc, err := store.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				title:   path,
				headers: []string{"Key", "Value"},
				rows:    documentRows(doc),
				wrap:    80,
			}))
			return nil
		},
	}
}

func documentRows(doc config.Document) [][]string {
	inputs := "(none)"
	if len(doc.InputPaths) > 0 {
		inputs = strings.Join(doc.InputPaths, "\n")
	}
	return [][]string{
		{"input_paths", inputs},
		{"output_dir", orNone(doc.OutputDir)},
		{"font_dir", orNone(doc.FontDir)},
		{"subset_backend", string(doc.SubsetBackend)},
		{"bin_path", orNone(doc.BinPath)},
		{"source_han_ellipsis", yesNo(doc.SourceHanEllipsis)},
		{"debug", yesNo(doc.Debug)},
		{"server_port", strconv.Itoa(doc.ServerPort)},
	}
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(none)"
	}
	return value
}

func newConfigSaveCommand(ctx *commandContext) *cobra.Command {
	var (
		name string
		from string
	)

	cmd := &cobra.Command{
		Use:   "save <dir>",
		Short: "Write a configuration document into dir",
		Long: "Load the document given with --from (the default document when unset) and\n" +
			"save it into dir. Without --name a timestamped filename is generated.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnvironment()
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			doc, err := config.NewStore(*env).Load(from)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			message := svc.SaveConfig(api.SaveRequest{
				Dir:      args[0],
				Filename: name,
				Config:   api.FromDocument(doc),
			})
			fmt.Fprintln(cmd.OutOrStdout(), message)
			if !strings.HasPrefix(message, api.MsgConfigSaved) {
				return errors.New("config not saved")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Filename (.json is appended when missing)")
	cmd.Flags().StringVar(&from, "from", "", "Document to copy (default: config_path from the environment)")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a configuration document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnvironment()
			if err != nil {
				return err
			}
			store := config.NewStore(*env)
			path := store.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			doc, err := store.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := doc.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigInitEnvCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init-env",
		Short:       "Create a sample environment file",
		Annotations: map[string]string{"skipEnvironmentLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultEnvironmentPath()
				if err != nil {
					return fmt.Errorf("determine default environment path: %w", err)
				}
				target = defaultPath
			} else {
				abs, err := filepath.Abs(target)
				if err != nil {
					return fmt.Errorf("resolve environment path: %w", err)
				}
				target = abs
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("environment file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check environment path: %w", err)
				}
			}

			if err := config.CreateSampleEnvironment(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample environment to %s\n", target)
			fmt.Fprintln(out, "Set engine_binary if AssFontSubset.Console is not in the working directory.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the environment file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing environment file")
	return cmd
}
