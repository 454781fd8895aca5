package config

import "runtime"

const (
	DefaultPort            = 7888
	DefaultMaxPortAttempts = 20

	defaultConfigName   = "config.json"
	defaultPortFileName = "WebUI_Port.txt"
	defaultLogFileName  = "assfontsubset_gui.log"
	defaultEnvFileName  = "assfontui.toml"
	defaultEngineName   = "AssFontSubset.Console"
	defaultBindHost     = "127.0.0.1"
	defaultRelayBinary  = "cloudflared"
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
)

// Backend selects the subsetting implementation used by the engine.
type Backend string

const (
	BackendPyFontTools    Backend = "PyFontTools"
	BackendHarfBuzzSubset Backend = "HarfBuzzSubset"

	DefaultBackend = BackendPyFontTools
)

// Backends lists the accepted backend values in display order.
func Backends() []Backend {
	return []Backend{BackendPyFontTools, BackendHarfBuzzSubset}
}

// Valid reports whether b is a known backend.
func (b Backend) Valid() bool {
	for _, known := range Backends() {
		if b == known {
			return true
		}
	}
	return false
}

// Default returns the all-defaults configuration document.
func Default() Document {
	return Document{
		InputPaths:        []string{},
		OutputDir:         "",
		FontDir:           "",
		SubsetBackend:     DefaultBackend,
		BinPath:           "",
		SourceHanEllipsis: true,
		Debug:             false,
		ServerPort:        DefaultPort,
	}
}

// DefaultEnvironment returns an Environment whose locations are relative to
// workDir. Call Normalize to resolve them.
func DefaultEnvironment(workDir string) Environment {
	return Environment{
		WorkDir:         workDir,
		ConfigPath:      defaultConfigName,
		PortFile:        defaultPortFileName,
		LogFile:         defaultLogFileName,
		EngineBinary:    defaultEngineBinary(),
		BindHost:        defaultBindHost,
		DefaultPort:     DefaultPort,
		MaxPortAttempts: DefaultMaxPortAttempts,
		OpenBrowser:     true,
		RelayBinary:     defaultRelayBinary,
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
	}
}

func defaultEngineBinary() string {
	if runtime.GOOS == "windows" {
		return defaultEngineName + ".exe"
	}
	return defaultEngineName
}
