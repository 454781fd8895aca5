package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"assfontui/internal/config"
)

func writeEnvironment(t *testing.T, env *config.Environment) string {
	t.Helper()
	data, err := toml.Marshal(env)
	if err != nil {
		t.Fatalf("marshal environment: %v", err)
	}
	path := filepath.Join(env.WorkDir, "assfontui.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write environment: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, envPath string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, envPath)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, envPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if envPath != "" {
		flags = append(flags, "--env", envPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
