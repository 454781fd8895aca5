package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"assfontui/internal/fileutil"
	"assfontui/internal/pathutil"
)

// ErrInvalidFilename is returned by Save for names that are not a single
// path element.
var ErrInvalidFilename = errors.New("filename must not contain path separators")

// Document is the persisted record of all run options.
type Document struct {
	InputPaths        []string `json:"input_paths"`
	OutputDir         string   `json:"output_dir"`
	FontDir           string   `json:"font_dir"`
	SubsetBackend     Backend  `json:"subset_backend"`
	BinPath           string   `json:"bin_path"`
	SourceHanEllipsis bool     `json:"source_han_ellipsis"`
	Debug             bool     `json:"debug"`
	ServerPort        int      `json:"server_port"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.InputPaths = append([]string{}, d.InputPaths...)
	return out
}

// Store loads and saves configuration documents.
type Store struct {
	defaultPath string
	now         func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to name auto-generated files.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds a Store whose Load falls back to env.ConfigPath.
func NewStore(env Environment, opts ...StoreOption) *Store {
	s := &Store{defaultPath: env.ConfigPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath returns the location used when Load receives an empty path.
func (s *Store) DefaultPath() string {
	return s.defaultPath
}

// Load reads the document at path, or the default location when path is
// empty. A missing file yields defaults and no error. A file that cannot be
// read or is not a JSON object yields defaults and an error; nothing from it
// is applied.
func (s *Store) Load(path string) (Document, error) {
	target := pathutil.Clean(path)
	if target == "" {
		target = s.defaultPath
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("load config %s: %w", target, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("load config %s: %w", target, err)
	}
	if raw == nil {
		return Default(), fmt.Errorf("load config %s: top-level value is not a JSON object", target)
	}
	return merge(raw), nil
}

// Save writes doc into targetDir. A blank filename is replaced by a
// timestamped name and a missing ".json" suffix is appended. It returns the
// path written.
func (s *Store) Save(targetDir, filename string, doc Document) (string, error) {
	dir, err := pathutil.ValidateDirectory(targetDir)
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(filename)
	autoNamed := name == ""
	if autoNamed {
		name = GenerateFilename(s.now())
	} else if filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	} else if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory %q: %w", dir, err)
	}

	target := filepath.Join(dir, name)
	if autoNamed {
		target = uniquePath(target)
	}

	data, err := Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	return target, nil
}

// GenerateFilename returns the auto-generated name for a save at t.
func GenerateFilename(t time.Time) string {
	return fmt.Sprintf("assfont_config_%s.json", t.Format("20060102_150405"))
}

// uniquePath appends _1, _2, ... before the extension until the name is free.
func uniquePath(path string) string {
	if !fileutil.Exists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !fileutil.Exists(candidate) {
			return candidate
		}
	}
}

// Marshal encodes doc as indented JSON without escaping non-ASCII or HTML
// characters.
func Marshal(doc Document) ([]byte, error) {
	if doc.InputPaths == nil {
		doc.InputPaths = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
