package api

import "assfontui/internal/config"

// ConfigFields is the transport form of a configuration document.
type ConfigFields struct {
	InputPaths        []string `json:"inputPaths"`
	OutputDir         string   `json:"outputDir"`
	FontDir           string   `json:"fontDir"`
	SubsetBackend     string   `json:"subsetBackend"`
	BinPath           string   `json:"binPath"`
	SourceHanEllipsis bool     `json:"sourceHanEllipsis"`
	Debug             bool     `json:"debug"`
	ServerPort        int      `json:"serverPort"`
}

// LoadResult is the outcome of LoadConfig. Error is empty on success.
type LoadResult struct {
	Config ConfigFields `json:"config"`
	Error  string       `json:"error,omitempty"`
}

// SaveRequest asks for the current form values to be written to Dir.
type SaveRequest struct {
	Dir      string       `json:"dir"`
	Filename string       `json:"filename"`
	Config   ConfigFields `json:"config"`
}

// RunRequest carries the options of one engine run.
type RunRequest struct {
	InputPaths        []string `json:"inputPaths"`
	OutputDir         string   `json:"outputDir"`
	FontDir           string   `json:"fontDir"`
	SubsetBackend     string   `json:"subsetBackend"`
	BinPath           string   `json:"binPath"`
	SourceHanEllipsis bool     `json:"sourceHanEllipsis"`
	Debug             bool     `json:"debug"`
}

// RunResult is the transport form of an engine report.
type RunResult struct {
	RunID     string `json:"runId"`
	Success   bool   `json:"success"`
	ExitCode  int    `json:"exitCode"`
	OutputDir string `json:"outputDir,omitempty"`
	Text      string `json:"text"`
}

// Defaults describes the initial form state.
type Defaults struct {
	Config   ConfigFields `json:"config"`
	Backends []string     `json:"backends"`
}

// FromDocument converts a document to its transport form.
func FromDocument(doc config.Document) ConfigFields {
	paths := doc.InputPaths
	if paths == nil {
		paths = []string{}
	}
	return ConfigFields{
		InputPaths:        append([]string{}, paths...),
		OutputDir:         doc.OutputDir,
		FontDir:           doc.FontDir,
		SubsetBackend:     string(doc.SubsetBackend),
		BinPath:           doc.BinPath,
		SourceHanEllipsis: doc.SourceHanEllipsis,
		Debug:             doc.Debug,
		ServerPort:        doc.ServerPort,
	}
}

// ToDocument converts form values back into a document. Values are copied
// as given; they are validated when the document is loaded again.
func (f ConfigFields) ToDocument() config.Document {
	paths := f.InputPaths
	if paths == nil {
		paths = []string{}
	}
	return config.Document{
		InputPaths:        append([]string{}, paths...),
		OutputDir:         f.OutputDir,
		FontDir:           f.FontDir,
		SubsetBackend:     config.Backend(f.SubsetBackend),
		BinPath:           f.BinPath,
		SourceHanEllipsis: f.SourceHanEllipsis,
		Debug:             f.Debug,
		ServerPort:        f.ServerPort,
	}
}
