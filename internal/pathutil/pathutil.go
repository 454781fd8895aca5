package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// MinPort and MaxPort bound the ports the control panel accepts.
	MinPort = 1024
	MaxPort = 65535
)

var (
	ErrEmptyPath    = errors.New("path must not be empty")
	ErrNotDirectory = errors.New("path is not a valid directory")
	ErrNotFile      = errors.New("path is not a valid file")
	ErrInvalidPort  = fmt.Errorf("port must be an integer between %d and %d", MinPort, MaxPort)
)

// ValidationError reports why a value was rejected. It wraps one of the
// sentinel errors above, or the underlying filesystem error.
type ValidationError struct {
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Err, ErrEmptyPath) || errors.Is(e.Err, ErrInvalidPort) {
		return e.Err.Error()
	}
	if errors.Is(e.Err, ErrNotDirectory) || errors.Is(e.Err, ErrNotFile) {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Value)
	}
	return fmt.Sprintf("validate path %q: %v", e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(value string, err error) error {
	return &ValidationError{Value: value, Err: err}
}

// Clean trims surrounding whitespace and strips at most one leading and one
// trailing quote character. It does not touch the filesystem.
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if isQuote(path[0]) {
		path = path[1:]
	}
	if n := len(path); n > 0 && isQuote(path[n-1]) {
		path = path[:n-1]
	}
	return path
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}

// ValidateDirectory cleans path and returns its absolute, symlink-resolved
// form when it names an existing directory.
func ValidateDirectory(path string) (string, error) {
	return validateKind(path, ErrNotDirectory, func(info os.FileInfo) bool { return info.IsDir() })
}

// ValidateFile cleans path and returns its absolute, symlink-resolved form
// when it names an existing regular file.
func ValidateFile(path string) (string, error) {
	return validateKind(path, ErrNotFile, func(info os.FileInfo) bool { return info.Mode().IsRegular() })
}

func validateKind(path string, kindErr error, accept func(os.FileInfo) bool) (string, error) {
	cleaned := Clean(path)
	if cleaned == "" {
		return "", invalid(path, ErrEmptyPath)
	}
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", invalid(cleaned, err)
	}
	info, err := os.Stat(absolute)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", invalid(absolute, kindErr)
	case err != nil:
		return "", invalid(absolute, err)
	case !accept(info):
		return "", invalid(absolute, kindErr)
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", invalid(absolute, err)
	}
	return resolved, nil
}

// ValidatePort parses value as a decimal port in [MinPort, MaxPort].
func ValidatePort(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, invalid(trimmed, ErrInvalidPort)
	}
	return ValidatePortNumber(port)
}

// ValidatePortNumber checks that port lies in [MinPort, MaxPort].
func ValidatePortNumber(port int) (int, error) {
	if port < MinPort || port > MaxPort {
		return 0, invalid(strconv.Itoa(port), ErrInvalidPort)
	}
	return port, nil
}
