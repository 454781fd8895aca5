package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "/data/subs", "/data/subs"},
		{"double quoted", `"/data/subs"`, "/data/subs"},
		{"single quoted", `'/data/subs'`, "/data/subs"},
		{"whitespace", "  /data/subs \t", "/data/subs"},
		{"quoted and padded", `  "C:\Users\me\subs"  `, `C:\Users\me\subs`},
		{"only leading quote", `"/data/subs`, "/data/subs"},
		{"inner quotes kept", `/data/"x"/subs`, `/data/"x"/subs`},
		{"only one layer", `""/data""`, `"/data"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotentOnSingleLayer(t *testing.T) {
	for _, in := range []string{`"/a/b"`, `'/a/b'`, "  /a/b  ", ` "/a b/c" `, "/plain"} {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "movie.ass")
	if err := os.WriteFile(file, []byte("[Script Info]\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := ValidateDirectory(`"` + dir + `"`)
	if err != nil {
		t.Fatalf("ValidateDirectory returned error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Fatalf("resolved = %q, want %q", got, want)
	}

	if _, err := ValidateDirectory("   "); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
	if _, err := ValidateDirectory(file); !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory for file, got %v", err)
	}
	if _, err := ValidateDirectory(filepath.Join(dir, "missing")); !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory for missing path, got %v", err)
	}

	var vErr *ValidationError
	if _, err := ValidateDirectory(file); !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestValidateDirectoryResolvesRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "fonts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(dir)

	got, err := ValidateDirectory("fonts")
	if err != nil {
		t.Fatalf("ValidateDirectory returned error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
	if filepath.Base(got) != "fonts" {
		t.Fatalf("unexpected resolved path %q", got)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "episode01.ass")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := ValidateFile(file); err != nil {
		t.Fatalf("ValidateFile returned error: %v", err)
	}
	if _, err := ValidateFile(dir); !errors.Is(err, ErrNotFile) {
		t.Fatalf("expected ErrNotFile for directory, got %v", err)
	}
	if _, err := ValidateFile(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestValidatePort(t *testing.T) {
	for _, port := range []int{MinPort, 7888, 30000, MaxPort} {
		got, err := ValidatePort(strconv.Itoa(port))
		if err != nil {
			t.Fatalf("ValidatePort(%d) returned error: %v", port, err)
		}
		if got != port {
			t.Fatalf("ValidatePort(%d) = %d", port, got)
		}
	}

	for _, value := range []string{"1023", "65536", "", "abc", "80.5", "-7888", "0x1F00"} {
		if _, err := ValidatePort(value); !errors.Is(err, ErrInvalidPort) {
			t.Fatalf("ValidatePort(%q) expected ErrInvalidPort, got %v", value, err)
		}
	}
}

func TestValidatePortTrimsWhitespace(t *testing.T) {
	got, err := ValidatePort(" 7888\n")
	if err != nil || got != 7888 {
		t.Fatalf("ValidatePort with whitespace = %d, %v", got, err)
	}
}
