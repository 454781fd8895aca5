package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"assfontui/internal/logging"
)

// NoInputsMessage is reported when no requested path is a usable subtitle.
const NoInputsMessage = "no valid ASS subtitle files were provided"

// Report is the classified outcome of one run.
type Report struct {
	RunID     string
	Success   bool
	ExitCode  int
	OutputDir string
	Command   []string
	Duration  time.Duration
	Text      string
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(i *Invoker) {
		if exec != nil {
			i.exec = exec
		}
	}
}

// WithLogger sets the logger used for run events.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) {
		i.logger = logging.NewComponentLogger(logger, "engine")
	}
}

// WithTimeout bounds each run. Zero waits indefinitely.
func WithTimeout(timeout time.Duration) Option {
	return func(i *Invoker) {
		i.timeout = timeout
	}
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(i *Invoker) {
		if fn != nil {
			i.newID = fn
		}
	}
}

// Invoker runs the subsetting engine.
type Invoker struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
	newID   func() string
}

// New constructs an Invoker for the engine at binary.
func New(binary string, opts ...Option) *Invoker {
	inv := &Invoker{
		binary: strings.TrimSpace(binary),
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(nil, "engine"),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Binary returns the engine executable path.
func (i *Invoker) Binary() string {
	return i.binary
}

// Run executes one request and always returns a report.
func (i *Invoker) Run(ctx context.Context, req Request) (report Report) {
	if ctx == nil {
		ctx = context.Background()
	}
	report.RunID = i.newID()
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, i.logger)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(logger, "engine run panicked", "engine_panic",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
			report.Success = false
			report.Text = fmt.Sprintf("Unexpected error while running the subsetting engine: %v", r)
		}
		report.Duration = time.Since(start)
	}()

	inputs := FilterInputs(req.InputPaths)
	if len(inputs) == 0 {
		logger.Warn("run rejected", logging.String("reason", NoInputsMessage), logging.Int("requested", len(req.InputPaths)))
		report.Text = NoInputsMessage
		return report
	}

	outputDir, err := ResolveOutputDir(req.OutputDir, inputs)
	if err != nil {
		logging.ErrorWithContext(logger, "output directory unavailable", "engine_output_dir_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "choose a writable output directory"),
		)
		report.Text = fmt.Sprintf("Failed to prepare the output directory: %v", err)
		return report
	}
	report.OutputDir = outputDir

	args := BuildArgs(req, inputs, outputDir)
	report.Command = append([]string{i.binary}, args...)
	commandLine := CommandLine(i.binary, args)
	logger.Info("engine run started",
		logging.Int("inputs", len(inputs)),
		logging.String("output_dir", outputDir),
		logging.String("backend", string(req.SubsetBackend)),
		logging.String("command", commandLine),
	)

	runCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	result, err := i.exec.Run(runCtx, i.binary, args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("engine timed out after %s: %w", i.timeout, err)
		}
		logging.ErrorWithContext(logger, "engine launch failed", "engine_launch_failed",
			logging.String("command", commandLine),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check engine_binary in the environment file"),
		)
		report.ExitCode = -1
		report.Text = formatLaunchFailure(commandLine, err)
		return report
	}

	report.ExitCode = result.ExitCode
	stdout := logging.DecodeText(result.Stdout)
	stderr := logging.DecodeText(result.Stderr)
	if result.ExitCode != 0 {
		logging.ErrorWithContext(logger, "engine run failed", "engine_run_failed",
			logging.Int("exit_code", result.ExitCode),
			logging.String("command", commandLine),
			logging.String("stderr", strings.TrimSpace(stderr)),
		)
		report.Text = formatFailure(result.ExitCode, commandLine, stderr)
		return report
	}

	report.Success = true
	report.Text = formatSuccess(stdout, stderr, req.Debug)
	logger.Info("engine run finished", logging.String("output_dir", outputDir))
	return report
}

func formatSuccess(stdout, stderr string, debugMode bool) string {
	var b strings.Builder
	b.WriteString("Subsetting finished successfully.\n\nOutput:\n")
	b.WriteString(strings.TrimRight(stdout, "\r\n"))
	if debugMode && strings.TrimSpace(stderr) != "" {
		b.WriteString("\n\nDebug output:\n")
		b.WriteString(strings.TrimRight(stderr, "\r\n"))
	}
	return b.String()
}

func formatFailure(exitCode int, commandLine, stderr string) string {
	return fmt.Sprintf("Subsetting failed (exit code %d).\n\nCommand:\n%s\n\nError output:\n%s",
		exitCode, commandLine, strings.TrimRight(stderr, "\r\n"))
}

func formatLaunchFailure(commandLine string, err error) string {
	return fmt.Sprintf("Failed to run the subsetting engine: %v\n\nCommand:\n%s", err, commandLine)
}
