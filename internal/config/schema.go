package config

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"

	"assfontui/internal/pathutil"
)

// FieldKind classifies how a document key is decoded and validated.
type FieldKind int

const (
	// KindPath is an optional directory; invalid values fall back to the default.
	KindPath FieldKind = iota
	// KindOutputPath is a directory that may not exist yet; it is never discarded.
	KindOutputPath
	// KindPathList is an ordered list of subtitle files; invalid entries are dropped.
	KindPathList
	// KindEnum is a closed set of backend names.
	KindEnum
	// KindBool is a JSON boolean.
	KindBool
	// KindPort is an integer port in the accepted range.
	KindPort
)

func (k FieldKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindOutputPath:
		return "output-path"
	case KindPathList:
		return "path-list"
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	case KindPort:
		return "port"
	default:
		return "unknown"
	}
}

// Field describes one recognized document key.
type Field struct {
	Key  string
	Kind FieldKind
	set  func(*Document, any)
}

var schema = []Field{
	{Key: "input_paths", Kind: KindPathList, set: func(d *Document, v any) { d.InputPaths = v.([]string) }},
	{Key: "output_dir", Kind: KindOutputPath, set: func(d *Document, v any) { d.OutputDir = v.(string) }},
	{Key: "font_dir", Kind: KindPath, set: func(d *Document, v any) { d.FontDir = v.(string) }},
	{Key: "subset_backend", Kind: KindEnum, set: func(d *Document, v any) { d.SubsetBackend = v.(Backend) }},
	{Key: "bin_path", Kind: KindPath, set: func(d *Document, v any) { d.BinPath = v.(string) }},
	{Key: "source_han_ellipsis", Kind: KindBool, set: func(d *Document, v any) { d.SourceHanEllipsis = v.(bool) }},
	{Key: "debug", Kind: KindBool, set: func(d *Document, v any) { d.Debug = v.(bool) }},
	{Key: "server_port", Kind: KindPort, set: func(d *Document, v any) { d.ServerPort = v.(int) }},
}

// Schema returns the recognized document fields in serialization order.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// merge overlays the recognized keys of raw onto a default document. Keys
// whose value fails its kind's validator keep the default.
func merge(raw map[string]json.RawMessage) Document {
	doc := Default()
	for _, field := range schema {
		value, ok := raw[field.Key]
		if !ok {
			continue
		}
		if decoded, ok := field.Kind.decode(value); ok {
			field.set(&doc, decoded)
		}
	}
	return doc
}

func (k FieldKind) decode(raw json.RawMessage) (any, bool) {
	switch k {
	case KindPath:
		var s string
		if !decodeStrict(raw, &s) {
			return nil, false
		}
		resolved, err := pathutil.ValidateDirectory(s)
		if err != nil {
			return nil, false
		}
		return resolved, true
	case KindOutputPath:
		if isNull(raw) {
			return "", true
		}
		var s string
		if !decodeStrict(raw, &s) {
			return nil, false
		}
		return normalizeOutputDir(s), true
	case KindPathList:
		var items []json.RawMessage
		if !decodeStrict(raw, &items) {
			return nil, false
		}
		paths := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if !decodeStrict(item, &s) {
				continue
			}
			resolved, err := pathutil.ValidateFile(s)
			if err != nil {
				continue
			}
			paths = append(paths, resolved)
		}
		return paths, true
	case KindEnum:
		var s string
		if !decodeStrict(raw, &s) {
			return nil, false
		}
		backend := Backend(s)
		if !backend.Valid() {
			return nil, false
		}
		return backend, true
	case KindBool:
		var b bool
		if !decodeStrict(raw, &b) {
			return nil, false
		}
		return b, true
	case KindPort:
		var f float64
		if !decodeStrict(raw, &f) || f != math.Trunc(f) {
			return nil, false
		}
		if f < pathutil.MinPort || f > pathutil.MaxPort {
			return nil, false
		}
		port, err := pathutil.ValidatePortNumber(int(f))
		if err != nil {
			return nil, false
		}
		return port, true
	}
	return nil, false
}

// normalizeOutputDir keeps the output directory even when it does not exist
// yet; the engine run creates it. Existing directories are fully resolved.
func normalizeOutputDir(value string) string {
	cleaned := pathutil.Clean(value)
	if cleaned == "" {
		return ""
	}
	if resolved, err := pathutil.ValidateDirectory(cleaned); err == nil {
		return resolved
	}
	if absolute, err := filepath.Abs(cleaned); err == nil {
		return absolute
	}
	return cleaned
}

func decodeStrict(raw json.RawMessage, dst any) bool {
	if isNull(raw) {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
