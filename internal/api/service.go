package api

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"assfontui/internal/config"
	"assfontui/internal/engine"
	"assfontui/internal/logging"
	"assfontui/internal/pathutil"
	"assfontui/internal/portfile"
)

// User-visible texts.
const (
	MsgNoConfigSelected = "no configuration file selected"
	MsgNoLogContent     = "no log content yet"
	MsgPortInvalid      = "please enter a valid port number"
	MsgConfigSaved      = "configuration saved to: "
)

// Service implements the presentation operations.
type Service struct {
	env      *config.Environment
	store    *config.Store
	registry *portfile.Registry
	invoker  *engine.Invoker
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithStore overrides the configuration store.
func WithStore(store *config.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithRegistry overrides the port registry.
func WithRegistry(registry *portfile.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithInvoker overrides the engine invoker.
func WithInvoker(invoker *engine.Invoker) Option {
	return func(s *Service) { s.invoker = invoker }
}

// NewService wires the presentation operations to env.
func NewService(env *config.Environment, opts ...Option) *Service {
	s := &Service{env: env}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.store == nil {
		s.store = config.NewStore(*env)
	}
	if s.registry == nil {
		s.registry = portfile.New(env.PortFile, portfile.WithLogger(s.logger))
	}
	if s.invoker == nil {
		s.invoker = engine.New(env.EngineBinary,
			engine.WithLogger(s.logger),
			engine.WithTimeout(env.RunTimeout()),
		)
	}
	s.logger = logging.NewComponentLogger(s.logger, "api")
	return s
}

// Registry returns the port registry the service writes to.
func (s *Service) Registry() *portfile.Registry {
	return s.registry
}

// InitialPort is the port shown in a fresh form.
func (s *Service) InitialPort() int {
	return s.registry.ReadOr(s.env.DefaultPort)
}

// Defaults returns the initial form state.
func (s *Service) Defaults() Defaults {
	fields := FromDocument(config.Default())
	fields.ServerPort = s.InitialPort()
	backends := make([]string, 0, len(config.Backends()))
	for _, b := range config.Backends() {
		backends = append(backends, string(b))
	}
	return Defaults{Config: fields, Backends: backends}
}

// LoadConfig loads the document at path. A blank path means nothing was
// selected. On any failure the defaults are returned with an error text.
func (s *Service) LoadConfig(path string) LoadResult {
	defaults := FromDocument(config.Default())
	defaults.ServerPort = s.InitialPort()

	if pathutil.Clean(path) == "" {
		return LoadResult{Config: defaults, Error: MsgNoConfigSelected}
	}
	doc, err := s.store.Load(path)
	if err != nil {
		logging.ErrorWithContext(s.logger, "config load failed", "config_load_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the file is a JSON object"),
		)
		return LoadResult{Config: defaults, Error: fmt.Sprintf("failed to load configuration: %v", err)}
	}
	s.logger.Info("config loaded", logging.String("path", path), logging.Int("inputs", len(doc.InputPaths)))
	return LoadResult{Config: FromDocument(doc)}
}

// SaveConfig writes the form values and returns a status text.
func (s *Service) SaveConfig(req SaveRequest) string {
	target, err := s.store.Save(req.Dir, req.Filename, req.Config.ToDocument())
	if err != nil {
		logging.ErrorWithContext(s.logger, "config save failed", "config_save_failed",
			logging.String("dir", req.Dir),
			logging.String("filename", req.Filename),
			logging.Error(err),
		)
		return fmt.Sprintf("failed to save configuration: %v", err)
	}
	s.logger.Info("config saved", logging.String("path", target))
	return MsgConfigSaved + target
}

// Execute runs the engine and returns the full report.
func (s *Service) Execute(ctx context.Context, req RunRequest) RunResult {
	report := s.invoker.Run(ctx, engine.Request{
		InputPaths:        req.InputPaths,
		OutputDir:         req.OutputDir,
		FontDir:           req.FontDir,
		SubsetBackend:     config.Backend(strings.TrimSpace(req.SubsetBackend)),
		BinPath:           req.BinPath,
		SourceHanEllipsis: req.SourceHanEllipsis,
		Debug:             req.Debug,
	})
	return RunResult{
		RunID:     report.RunID,
		Success:   report.Success,
		ExitCode:  report.ExitCode,
		OutputDir: report.OutputDir,
		Text:      report.Text,
	}
}

// Run runs the engine and returns the report text.
func (s *Service) Run(ctx context.Context, req RunRequest) string {
	return s.Execute(ctx, req).Text
}

// SavePort validates value and stores it as the preferred port for the next
// launch.
func (s *Service) SavePort(value string) string {
	message, _ := s.StorePort(value)
	return message
}

// StorePort is SavePort that also reports whether the port was written.
func (s *Service) StorePort(value string) (string, bool) {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return MsgPortInvalid, false
	}
	if _, err := pathutil.ValidatePortNumber(port); err != nil {
		return fmt.Sprintf("port must be between %d and %d", pathutil.MinPort, pathutil.MaxPort), false
	}
	if !s.registry.Write(port) {
		return fmt.Sprintf("failed to save port %d; see the log for details", port), false
	}
	return fmt.Sprintf("port saved: %d (takes effect on next launch)", port), true
}

// ReadLog returns the log file content for display.
func (s *Service) ReadLog() string {
	text, err := logging.ReadLog(s.env.LogFile)
	if err != nil {
		s.logger.Warn("log read failed", logging.Error(err))
		return fmt.Sprintf("failed to read log: %v", err)
	}
	if text == "" {
		return MsgNoLogContent
	}
	return text
}
