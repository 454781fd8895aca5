package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"assfontui/internal/config"
	"assfontui/internal/pathutil"
)

// SubtitleExt is the only input suffix the engine accepts.
const SubtitleExt = ".ass"

// Request is one engine invocation assembled from the current form values.
type Request struct {
	InputPaths        []string
	OutputDir         string
	FontDir           string
	SubsetBackend     config.Backend
	BinPath           string
	SourceHanEllipsis bool
	Debug             bool
}

// RequestFromDocument copies the run options out of doc.
func RequestFromDocument(doc config.Document) Request {
	return Request{
		InputPaths:        append([]string(nil), doc.InputPaths...),
		OutputDir:         doc.OutputDir,
		FontDir:           doc.FontDir,
		SubsetBackend:     doc.SubsetBackend,
		BinPath:           doc.BinPath,
		SourceHanEllipsis: doc.SourceHanEllipsis,
		Debug:             doc.Debug,
	}
}

// FilterInputs keeps existing regular files with the subtitle suffix, in
// order, duplicates included. Returned paths are absolute.
func FilterInputs(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		resolved, err := pathutil.ValidateFile(p)
		if err != nil {
			continue
		}
		if !strings.EqualFold(filepath.Ext(resolved), SubtitleExt) {
			continue
		}
		kept = append(kept, resolved)
	}
	return kept
}

// ResolveOutputDir returns the directory the engine writes into and creates
// it. A blank outputDir becomes "output" next to the first input.
func ResolveOutputDir(outputDir string, inputs []string) (string, error) {
	dir := pathutil.Clean(outputDir)
	if dir == "" {
		if len(inputs) == 0 {
			return "", fmt.Errorf("resolve output directory: no inputs")
		}
		dir = filepath.Join(filepath.Dir(inputs[0]), "output")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", abs, err)
	}
	return abs, nil
}

// BuildArgs assembles the engine arguments (without the executable) from
// already filtered inputs and a resolved output directory.
func BuildArgs(req Request, inputs []string, outputDir string) []string {
	args := make([]string, 0, len(inputs)+9)
	args = append(args, inputs...)
	args = append(args, "--output", outputDir)

	if fontDir, err := pathutil.ValidateDirectory(req.FontDir); err == nil {
		args = append(args, "--fonts", fontDir)
	}
	if req.SubsetBackend != "" && req.SubsetBackend != config.DefaultBackend {
		args = append(args, "--subset-backend", string(req.SubsetBackend))
	}
	if strings.TrimSpace(req.BinPath) != "" {
		if binPath, err := pathutil.ValidateDirectory(req.BinPath); err == nil {
			args = append(args, "--bin-path", binPath)
		}
	}
	if !req.SourceHanEllipsis {
		args = append(args, "--no-source-han-ellipsis")
	}
	if req.Debug {
		args = append(args, "--debug")
	}
	return args
}

// CommandLine renders binary and args as a single shell-like line for
// reports and logs.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"'") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
