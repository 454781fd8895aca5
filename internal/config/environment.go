package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_environment.toml
var sampleEnvironment string

// Environment holds every process-wide location and limit. Path fields are
// absolute after Normalize.
type Environment struct {
	WorkDir           string `toml:"work_dir"`
	ConfigPath        string `toml:"config_path"`
	PortFile          string `toml:"port_file"`
	LogFile           string `toml:"log_file"`
	EngineBinary      string `toml:"engine_binary"`
	BindHost          string `toml:"bind_host"`
	DefaultPort       int    `toml:"default_port"`
	MaxPortAttempts   int    `toml:"max_port_attempts"`
	RunTimeoutSeconds int    `toml:"run_timeout_seconds"`
	OpenBrowser       bool   `toml:"open_browser"`
	RelayBinary       string `toml:"relay_binary"`
	LogLevel          string `toml:"log_level"`
	LogFormat         string `toml:"log_format"`
}

// RunTimeout returns the engine timeout, or zero when runs are unbounded.
func (e Environment) RunTimeout() time.Duration {
	if e.RunTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(e.RunTimeoutSeconds) * time.Second
}

// LoadEnvironment reads the environment file at path. With an empty path it
// looks for assfontui.toml in the current directory. A missing file is not an
// error; defaults are used. The returned Environment is normalized and
// validated.
func LoadEnvironment(path string) (*Environment, string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", false, fmt.Errorf("resolve working directory: %w", err)
	}
	env := DefaultEnvironment(cwd)

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = filepath.Join(cwd, defaultEnvFileName)
	} else if resolved, err = filepath.Abs(resolved); err != nil {
		return nil, "", false, fmt.Errorf("resolve environment path: %w", err)
	}

	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open environment: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&env); err != nil {
			return nil, "", false, fmt.Errorf("parse environment: %w", err)
		}
	}

	if err := env.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := env.Validate(); err != nil {
		return nil, "", false, err
	}
	return &env, resolved, exists, nil
}

// Normalize fills blank fields with defaults and makes every path absolute,
// resolving relative paths against WorkDir.
func (e *Environment) Normalize() error {
	if strings.TrimSpace(e.WorkDir) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		e.WorkDir = cwd
	}
	workDir, err := filepath.Abs(strings.TrimSpace(e.WorkDir))
	if err != nil {
		return fmt.Errorf("work_dir: %w", err)
	}
	e.WorkDir = workDir

	defaults := DefaultEnvironment(workDir)
	e.ConfigPath = e.resolve(e.ConfigPath, defaults.ConfigPath)
	e.PortFile = e.resolve(e.PortFile, defaults.PortFile)
	e.LogFile = e.resolve(e.LogFile, defaults.LogFile)
	e.EngineBinary = e.resolve(e.EngineBinary, defaults.EngineBinary)

	e.BindHost = strings.TrimSpace(e.BindHost)
	if e.BindHost == "" {
		e.BindHost = defaults.BindHost
	}
	if e.DefaultPort == 0 {
		e.DefaultPort = defaults.DefaultPort
	}
	if e.MaxPortAttempts == 0 {
		e.MaxPortAttempts = defaults.MaxPortAttempts
	}
	e.RelayBinary = strings.TrimSpace(e.RelayBinary)
	if e.RelayBinary == "" {
		e.RelayBinary = defaults.RelayBinary
	}
	e.LogLevel = strings.ToLower(strings.TrimSpace(e.LogLevel))
	if e.LogLevel == "" {
		e.LogLevel = defaults.LogLevel
	}
	e.LogFormat = strings.ToLower(strings.TrimSpace(e.LogFormat))
	if e.LogFormat == "" {
		e.LogFormat = defaults.LogFormat
	}
	return nil
}

func (e *Environment) resolve(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(e.WorkDir, value)
}

// CreateSampleEnvironment writes a commented sample environment file.
func CreateSampleEnvironment(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create environment directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleEnvironment), 0o644); err != nil {
		return fmt.Errorf("write sample environment: %w", err)
	}
	return nil
}

// DefaultEnvironmentPath returns the environment file looked up when no path
// is given.
func DefaultEnvironmentPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(cwd, defaultEnvFileName), nil
}
