// Package portfile persists the last used web UI port in a one-line sidecar
// file.
package portfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"assfontui/internal/fileutil"
	"assfontui/internal/logging"
	"assfontui/internal/pathutil"
)

// Registry reads and writes the port sidecar.
type Registry struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes read and write failures to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logging.NewComponentLogger(logger, "portfile")
	}
}

// New returns a Registry for the sidecar at path.
func New(path string, opts ...Option) *Registry {
	r := &Registry{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the sidecar location.
func (r *Registry) Path() string {
	return r.path
}

// Read returns the stored port when the file exists and holds a valid port.
func (r *Registry) Read() (int, bool) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(r.logger, "port file unreadable", "port_file_read_failed",
				logging.String("path", r.path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "default port is used"),
			)
		}
		return 0, false
	}
	port, err := pathutil.ValidatePort(string(data))
	if err != nil {
		r.logger.Debug("port file content ignored", logging.String("path", r.path), logging.Error(err))
		return 0, false
	}
	return port, true
}

// ReadOr returns the stored port, or fallback when none is stored.
func (r *Registry) ReadOr(fallback int) int {
	if port, ok := r.Read(); ok {
		return port
	}
	return fallback
}

// Write stores port as the whole file content. It reports false when port is
// out of range or the file cannot be written.
func (r *Registry) Write(port int) bool {
	if _, err := pathutil.ValidatePortNumber(port); err != nil {
		r.logger.Debug("refusing to persist invalid port", logging.Int("port", port))
		return false
	}
	if err := r.write(port); err != nil {
		logging.WarnWithContext(r.logger, "port file write failed", "port_file_write_failed",
			logging.String("path", r.path),
			logging.Int("port", port),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next launch starts from the default port"),
		)
		return false
	}
	r.logger.Info("port saved", logging.Int("port", port), logging.String("path", r.path))
	return true
}

func (r *Registry) write(port int) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create port file directory: %w", err)
	}
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock port file: %w", err)
	}
	defer func() { _ = r.lock.Unlock() }()
	return fileutil.WriteFileAtomic(r.path, []byte(strconv.Itoa(port)), 0o644)
}
