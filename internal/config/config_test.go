package config_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"assfontui/internal/config"
	"assfontui/internal/testsupport"
)

func resolved(t *testing.T, path string) string {
	t.Helper()
	out, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", path, err)
	}
	return out
}

func writeJSON(t *testing.T, path string, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	testsupport.WriteFile(t, path, string(data))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	store := config.NewStore(*env)

	doc, err := store.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := config.Default()
	if doc.SubsetBackend != want.SubsetBackend || doc.ServerPort != want.ServerPort || !doc.SourceHanEllipsis {
		t.Fatalf("unexpected defaults: %+v", doc)
	}
	if doc.InputPaths == nil || len(doc.InputPaths) != 0 {
		t.Fatalf("expected empty non-nil input paths, got %#v", doc.InputPaths)
	}
}

func TestLoadUsesDefaultPathWhenEmpty(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	writeJSON(t, env.ConfigPath, map[string]any{"debug": true})

	doc, err := config.NewStore(*env).Load("  ")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !doc.Debug {
		t.Fatal("expected debug from default config path")
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	path := filepath.Join(env.WorkDir, "extra.json")
	writeJSON(t, path, map[string]any{
		"debug":        true,
		"server_port":  9000,
		"theme":        "dark",
		"window_width": 1200,
	})

	doc, err := config.NewStore(*env).Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !doc.Debug || doc.ServerPort != 9000 {
		t.Fatalf("recognized keys not applied: %+v", doc)
	}
	data, err := config.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "theme") {
		t.Fatalf("unknown key leaked into document: %s", data)
	}
}

func TestLoadCorruptFileReturnsDefaultsAndError(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	path := filepath.Join(env.WorkDir, "broken.json")
	testsupport.WriteFile(t, path, `{"debug": true,`)

	doc, err := config.NewStore(*env).Load(path)
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	if doc.Debug {
		t.Fatal("corrupt file must not apply any values")
	}
	if doc.ServerPort != config.DefaultPort {
		t.Fatalf("expected default port, got %d", doc.ServerPort)
	}
}

func TestLoadRejectsNonObject(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	for name, body := range map[string]string{
		"array.json": `[1, 2, 3]`,
		"null.json":  `null`,
		"str.json":   `"hello"`,
	} {
		path := filepath.Join(env.WorkDir, name)
		testsupport.WriteFile(t, path, body)
		if _, err := config.NewStore(*env).Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadValidatesEachField(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	base := env.WorkDir
	subs := testsupport.MkdirAll(t, filepath.Join(base, "subs"))
	good := testsupport.WriteSubtitle(t, subs, "ep01.ass")
	fonts := testsupport.MkdirAll(t, filepath.Join(base, "fonts"))

	path := filepath.Join(base, "mixed.json")
	writeJSON(t, path, map[string]any{
		"input_paths":         []any{good, filepath.Join(subs, "missing.ass"), 42, subs},
		"output_dir":          filepath.Join(base, "not-yet"),
		"font_dir":            fonts,
		"bin_path":            filepath.Join(base, "nope"),
		"subset_backend":      "Bogus",
		"source_han_ellipsis": "yes",
		"debug":               true,
		"server_port":         80,
	})

	doc, err := config.NewStore(*env).Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(doc.InputPaths) != 1 || doc.InputPaths[0] != resolved(t, good) {
		t.Fatalf("unexpected input paths: %#v", doc.InputPaths)
	}
	if doc.OutputDir != filepath.Join(base, "not-yet") {
		t.Fatalf("output dir should be kept even when missing, got %q", doc.OutputDir)
	}
	if doc.FontDir != resolved(t, fonts) {
		t.Fatalf("unexpected font dir: %q", doc.FontDir)
	}
	if doc.BinPath != "" {
		t.Fatalf("invalid bin path should fall back to default, got %q", doc.BinPath)
	}
	if doc.SubsetBackend != config.DefaultBackend {
		t.Fatalf("invalid backend should fall back, got %q", doc.SubsetBackend)
	}
	if !doc.SourceHanEllipsis {
		t.Fatal("non-bool ellipsis should keep default true")
	}
	if !doc.Debug {
		t.Fatal("expected debug true")
	}
	if doc.ServerPort != config.DefaultPort {
		t.Fatalf("out-of-range port should fall back, got %d", doc.ServerPort)
	}
}

func TestLoadRejectsFractionalPort(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	path := filepath.Join(env.WorkDir, "port.json")
	testsupport.WriteFile(t, path, `{"server_port": 8080.5}`)

	doc, err := config.NewStore(*env).Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.ServerPort != config.DefaultPort {
		t.Fatalf("expected default port, got %d", doc.ServerPort)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	base := env.WorkDir
	sub := testsupport.WriteSubtitle(t, filepath.Join(base, "subs"), "字幕.ass")
	fonts := testsupport.MkdirAll(t, filepath.Join(base, "fonts"))

	doc := config.Default()
	doc.InputPaths = []string{resolved(t, sub)}
	doc.FontDir = resolved(t, fonts)
	doc.OutputDir = filepath.Join(base, "out")
	doc.SubsetBackend = config.BackendHarfBuzzSubset
	doc.SourceHanEllipsis = false
	doc.ServerPort = 8123

	store := config.NewStore(*env)
	saved, err := store.Save(base, "mine", doc)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Base(saved) != "mine.json" {
		t.Fatalf("expected .json suffix, got %q", saved)
	}
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}
	if !strings.Contains(string(data), "字幕.ass") {
		t.Fatalf("non-ASCII characters should be written verbatim: %s", data)
	}
	if !strings.Contains(string(data), "\n  \"output_dir\"") {
		t.Fatalf("expected two-space indentation: %s", data)
	}

	loaded, err := store.Load(saved)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.SubsetBackend != doc.SubsetBackend || loaded.ServerPort != doc.ServerPort ||
		loaded.SourceHanEllipsis != doc.SourceHanEllipsis || loaded.FontDir != doc.FontDir ||
		loaded.OutputDir != doc.OutputDir || len(loaded.InputPaths) != 1 || loaded.InputPaths[0] != doc.InputPaths[0] {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, doc)
	}
}

func TestSaveGeneratesUniqueFilename(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	store := config.NewStore(*env, config.WithClock(func() time.Time { return fixed }))
	pattern := regexp.MustCompile(`^assfont_config_\d{8}_\d{6}(_\d+)?\.json$`)

	first, err := store.Save(env.WorkDir, "", config.Default())
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.Save(env.WorkDir, "   ", config.Default())
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if filepath.Base(first) != "assfont_config_20240309_140507.json" {
		t.Fatalf("unexpected generated name %q", first)
	}
	if first == second {
		t.Fatal("auto-named saves in the same second must not overwrite")
	}
	for _, p := range []string{first, second} {
		if !pattern.MatchString(filepath.Base(p)) {
			t.Fatalf("name %q does not match pattern", p)
		}
	}
}

func TestSaveRejectsInvalidDirectory(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	store := config.NewStore(*env)

	if _, err := store.Save("", "x", config.Default()); err == nil {
		t.Fatal("expected error for empty directory")
	}
	if _, err := store.Save(filepath.Join(env.WorkDir, "missing"), "x", config.Default()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSaveRejectsFilenamesOutsideDirectory(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	store := config.NewStore(*env)
	target := testsupport.MkdirAll(t, filepath.Join(env.WorkDir, "configs"))

	for _, name := range []string{"../escape", "sub/inner.json", "..", "."} {
		if _, err := store.Save(target, name, config.Default()); !errors.Is(err, config.ErrInvalidFilename) {
			t.Fatalf("Save(%q) error = %v, want ErrInvalidFilename", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(env.WorkDir, "escape.json")); !os.IsNotExist(err) {
		t.Fatalf("file written outside the target directory, stat err=%v", err)
	}
}

func TestSchemaOrderMatchesDocument(t *testing.T) {
	want := []string{"input_paths", "output_dir", "font_dir", "subset_backend", "bin_path", "source_han_ellipsis", "debug", "server_port"}
	fields := config.Schema()
	if len(fields) != len(want) {
		t.Fatalf("schema length %d want %d", len(fields), len(want))
	}
	for i, f := range fields {
		if f.Key != want[i] {
			t.Fatalf("field %d = %q want %q", i, f.Key, want[i])
		}
	}
}

func TestDocumentValidate(t *testing.T) {
	doc := config.Default()
	if err := doc.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	doc.SubsetBackend = "Other"
	if err := doc.Validate(); err == nil {
		t.Fatal("expected backend error")
	}
	doc = config.Default()
	doc.OutputDir = "relative/out"
	if err := doc.Validate(); err == nil {
		t.Fatal("expected output_dir error")
	}
}
