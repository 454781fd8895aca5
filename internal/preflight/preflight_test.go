package preflight

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"assfontui/internal/deps"
	"assfontui/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_Missing(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckDirectoryAccess_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result := CheckDirectoryAccess("test", path)
	if result.Passed || !strings.Contains(result.Detail, "is not a directory") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 1); !r.Passed {
		t.Fatalf("expected pass with a 1 byte minimum: %s", r.Detail)
	}
	if r := CheckFreeSpace("space", dir, ^uint64(0)); r.Passed {
		t.Fatalf("expected failure with an impossible minimum: %s", r.Detail)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFromDependency(t *testing.T) {
	optional := FromDependency(deps.Status{Name: "cloudflared", Optional: true, Detail: "binary \"cloudflared\" not found", Description: "relay"})
	if !optional.Passed || !optional.Warn || !strings.Contains(optional.Detail, "optional") {
		t.Fatalf("unexpected optional result %+v", optional)
	}
	required := FromDependency(deps.Status{Name: "engine", Detail: "missing"})
	if required.Passed {
		t.Fatalf("required dependency should fail: %+v", required)
	}
}

func TestRunAll(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("engine stub requires /bin/sh")
	}
	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil environment")
	}
	env := testsupport.NewEnvironment(t, testsupport.WithStubbedEngine(""))
	results := RunAll(env)

	var engine *Result
	for i := range results {
		if results[i].Name == "AssFontSubset" {
			engine = &results[i]
		}
	}
	if engine == nil || !engine.Passed {
		t.Fatalf("expected engine check to pass, got %+v", results)
	}
	if results[0].Name != "Work directory" || !results[0].Passed {
		t.Fatalf("unexpected work dir result %+v", results[0])
	}
	for _, r := range Failed(results) {
		if r.Name == "AssFontSubset" || r.Name == "Work directory" {
			t.Fatalf("unexpected failure %+v", r)
		}
	}
}
