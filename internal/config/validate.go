package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"assfontui/internal/pathutil"
)

// Validate reports the first field of d that violates the document
// invariants. Documents produced by Store.Load always pass.
func (d Document) Validate() error {
	if !d.SubsetBackend.Valid() {
		return fmt.Errorf("subset_backend must be one of %s", joinBackends())
	}
	if _, err := pathutil.ValidatePortNumber(d.ServerPort); err != nil {
		return fmt.Errorf("server_port: %w", err)
	}
	for i, p := range d.InputPaths {
		if _, err := pathutil.ValidateFile(p); err != nil {
			return fmt.Errorf("input_paths[%d]: %w", i, err)
		}
	}
	if err := validateOptionalDir("font_dir", d.FontDir); err != nil {
		return err
	}
	if err := validateOptionalDir("bin_path", d.BinPath); err != nil {
		return err
	}
	if d.OutputDir != "" && !filepath.IsAbs(d.OutputDir) {
		return errors.New("output_dir must be an absolute path or empty")
	}
	return nil
}

func validateOptionalDir(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := pathutil.ValidateDirectory(value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func joinBackends() string {
	names := make([]string, 0, len(Backends()))
	for _, b := range Backends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

// Validate ensures the environment is usable.
func (e Environment) Validate() error {
	if _, err := pathutil.ValidatePortNumber(e.DefaultPort); err != nil {
		return fmt.Errorf("default_port: %w", err)
	}
	if e.MaxPortAttempts <= 0 {
		return errors.New("max_port_attempts must be positive")
	}
	if e.RunTimeoutSeconds < 0 {
		return errors.New("run_timeout_seconds must be >= 0")
	}
	switch e.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", e.LogFormat)
	}
	for key, value := range map[string]string{
		"config_path":   e.ConfigPath,
		"port_file":     e.PortFile,
		"log_file":      e.LogFile,
		"engine_binary": e.EngineBinary,
	} {
		if !filepath.IsAbs(value) {
			return fmt.Errorf("%s must resolve to an absolute path", key)
		}
	}
	return nil
}
