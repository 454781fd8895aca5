package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadLog returns the whole log file as text. A missing file yields an empty
// string and no error. Bytes that are not valid UTF-8 are replaced rather than
// rejected, and a leading BOM selects UTF-16 when present.
func ReadLog(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read log %s: %w", path, err)
	}
	return DecodeText(data), nil
}

// DecodeText decodes process or file output leniently.
func DecodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
