// Package config owns the two configuration layers of the control panel.
//
// Document is the user-facing run configuration persisted as JSON. Loading
// treats the file as partially trusted input: every recognized key is decoded
// through a typed schema field with its own validator, unknown keys are
// dropped and anything invalid falls back to the default for that field.
//
// Environment carries process-wide locations and limits (config path, port
// sidecar, log file, engine binary, launcher attempts). It is read from an
// optional TOML file and passed explicitly to each component so tests can
// redirect every location per case.
package config
