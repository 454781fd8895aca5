package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assfontui/internal/api"
	"assfontui/internal/config"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		configPath string
		outputDir  string
		fontDir    string
		backend    string
		binPath    string
		noEllipsis bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "run [subtitle.ass...]",
		Short: "Subset the fonts of one or more ASS subtitles",
		Long: "Run the subsetting engine once. Options start from the configuration document\n" +
			"given with --config (when set) and are overridden by flags and arguments.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			env, _ := ctx.ensureEnvironment()

			doc := config.Default()
			if configPath != "" {
				doc, err = config.NewStore(*env).Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}

			fields := api.FromDocument(doc)
			req := api.RunRequest{
				InputPaths:        fields.InputPaths,
				OutputDir:         fields.OutputDir,
				FontDir:           fields.FontDir,
				SubsetBackend:     fields.SubsetBackend,
				BinPath:           fields.BinPath,
				SourceHanEllipsis: fields.SourceHanEllipsis,
				Debug:             fields.Debug,
			}
			if len(args) > 0 {
				req.InputPaths = args
			}
			flags := cmd.Flags()
			if flags.Changed("output") {
				req.OutputDir = outputDir
			}
			if flags.Changed("fonts") {
				req.FontDir = fontDir
			}
			if flags.Changed("subset-backend") {
				if !config.Backend(backend).Valid() {
					return fmt.Errorf("unknown subset backend %q (expected one of: %s)", backend, backendList())
				}
				req.SubsetBackend = backend
			}
			if flags.Changed("bin-path") {
				req.BinPath = binPath
			}
			if noEllipsis {
				req.SourceHanEllipsis = false
			}
			if debug {
				req.Debug = true
			}

			result := svc.Execute(cmd.Context(), req)
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			if !result.Success {
				return errors.New("subsetting did not complete")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration document to start from")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default <first input dir>/output)")
	cmd.Flags().StringVarP(&fontDir, "fonts", "f", "", "Font directory")
	cmd.Flags().StringVar(&backend, "subset-backend", string(config.BackendPyFontTools), "Subset backend")
	cmd.Flags().StringVar(&binPath, "bin-path", "", "Directory holding the backend executables")
	cmd.Flags().BoolVar(&noEllipsis, "no-source-han-ellipsis", false, "Disable Source Han ellipsis handling")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include the engine's debug output")
	return cmd
}

func backendList() string {
	names := make([]string, 0, len(config.Backends()))
	for _, b := range config.Backends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
