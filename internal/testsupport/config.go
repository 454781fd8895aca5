package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"assfontui/internal/config"
)

// EnvironmentOption allows callers to customize the generated test environment.
type EnvironmentOption func(*envBuilder)

type envBuilder struct {
	t       testing.TB
	baseDir string
	env     *config.Environment
}

// NewEnvironment produces a normalized environment rooted in a unique temp
// directory. Browser opening is disabled and the engine binary points at a
// path that does not exist unless WithStubbedEngine is used.
func NewEnvironment(t testing.TB, opts ...EnvironmentOption) *config.Environment {
	t.Helper()

	base := t.TempDir()
	envVal := config.DefaultEnvironment(base)
	envVal.OpenBrowser = false
	envVal.EngineBinary = filepath.Join(base, "bin", "AssFontSubset.Console")
	envVal.RelayBinary = filepath.Join(base, "bin", "cloudflared")

	builder := &envBuilder{t: t, baseDir: base, env: &envVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.env.Normalize(); err != nil {
		t.Fatalf("normalize environment: %v", err)
	}
	return builder.env
}

// WithDefaultPort sets the preferred web UI port.
func WithDefaultPort(port int) EnvironmentOption {
	return func(b *envBuilder) {
		b.env.DefaultPort = port
	}
}

// WithMaxPortAttempts bounds the port probe.
func WithMaxPortAttempts(n int) EnvironmentOption {
	return func(b *envBuilder) {
		b.env.MaxPortAttempts = n
	}
}

// WithStubbedEngine writes an executable shell script in place of the engine
// binary. The script body runs under /bin/sh.
func WithStubbedEngine(body string) EnvironmentOption {
	return func(b *envBuilder) {
		if body == "" {
			body = "exit 0"
		}
		target := filepath.Join(b.baseDir, "bin", "AssFontSubset.Console")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\n" + body + "\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write engine stub: %v", err)
		}
		b.env.EngineBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated environment.
func BaseDir(env *config.Environment) string {
	return env.WorkDir
}
