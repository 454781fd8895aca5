package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"assfontui/internal/config"
	"assfontui/internal/logging"
	"assfontui/internal/pathutil"
	"assfontui/internal/portfile"
	"assfontui/internal/relay"
)

const (
	probeHost       = "127.0.0.1"
	shutdownTimeout = 5 * time.Second
)

// Outcome describes where the UI ended up being served.
type Outcome struct {
	// Port is the local port the server is bound to.
	Port int
	// Persisted reports whether Port was written to the port file.
	Persisted bool
	// Relay reports whether the UI is published through a relay.
	Relay bool
	// URL is the address shown to the user: the local URL, or the public
	// relay URL in relay mode.
	URL string
}

// Tunnel is a running relay.
type Tunnel interface {
	URL() string
	Stop(ctx context.Context) error
}

// RelayStarter publishes localURL and returns the running tunnel.
type RelayStarter func(ctx context.Context, localURL string) (Tunnel, error)

// CloudflaredRelay adapts a relay.Cloudflared to a RelayStarter.
func CloudflaredRelay(c relay.Cloudflared) RelayStarter {
	return func(ctx context.Context, localURL string) (Tunnel, error) {
		t, err := c.Start(ctx, localURL)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the launcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) { l.logger = logging.NewComponentLogger(logger, "launcher") }
}

// WithBrowser overrides how the browser is opened. A nil func disables it.
func WithBrowser(open func(url string) error) Option {
	return func(l *Launcher) { l.openBrowser = open }
}

// WithRelay overrides the relay used in fallback mode.
func WithRelay(start RelayStarter) Option {
	return func(l *Launcher) { l.relay = start }
}

// WithInterruptReset overrides the hook that restores default interrupt
// handling just before serving.
func WithInterruptReset(reset func()) Option {
	return func(l *Launcher) { l.resetInterrupt = reset }
}

// WithReadyHook registers fn to be called once the server is about to serve.
func WithReadyHook(fn func(Outcome)) Option {
	return func(l *Launcher) { l.onReady = fn }
}

// WithProbe overrides the port liveness probe.
func WithProbe(probe func(port int) bool) Option {
	return func(l *Launcher) {
		if probe != nil {
			l.probe = probe
		}
	}
}

// Launcher serves an http.Handler on the first free port.
type Launcher struct {
	host           string
	defaultPort    int
	maxAttempts    int
	registry       *portfile.Registry
	handler        http.Handler
	logger         *slog.Logger
	openBrowser    func(string) error
	relay          RelayStarter
	resetInterrupt func()
	onReady        func(Outcome)
	probe          func(int) bool
}

// New builds a Launcher for handler using the locations and limits in env.
func New(env *config.Environment, registry *portfile.Registry, handler http.Handler, opts ...Option) *Launcher {
	l := &Launcher{
		host:           env.BindHost,
		defaultPort:    env.DefaultPort,
		maxAttempts:    env.MaxPortAttempts,
		registry:       registry,
		handler:        handler,
		logger:         logging.NewComponentLogger(nil, "launcher"),
		relay:          CloudflaredRelay(relay.Cloudflared{Binary: env.RelayBinary}),
		resetInterrupt: func() { signal.Reset(os.Interrupt) },
		probe:          IsFree,
	}
	if env.OpenBrowser {
		l.openBrowser = OpenBrowser
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxAttempts <= 0 {
		l.maxAttempts = config.DefaultMaxPortAttempts
	}
	if l.host == "" {
		l.host = probeHost
	}
	return l
}

// IsFree reports whether port can be bound on the loopback interface right
// now. The probe socket is closed immediately; it is not a reservation.
func IsFree(port int) bool {
	ln, err := net.Listen("tcp", net.JoinHostPort(probeHost, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// PreferredPort returns the persisted port, or the default when none is
// stored.
func (l *Launcher) PreferredPort() int {
	if l.registry == nil {
		return l.defaultPort
	}
	return l.registry.ReadOr(l.defaultPort)
}

// Launch acquires a port and serves until ctx ends. It returns the outcome
// together with any serve error.
func (l *Launcher) Launch(ctx context.Context) (Outcome, error) {
	preferred := l.PreferredPort()
	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		candidate := preferred + attempt
		logger := l.logger.With(logging.Int("port", candidate), logging.Int("attempt", attempt+1))
		if candidate > pathutil.MaxPort || !l.probe(candidate) {
			logger.Info("port unavailable")
			continue
		}
		ln, err := net.Listen("tcp", net.JoinHostPort(l.host, strconv.Itoa(candidate)))
		if err != nil {
			logger.Info("port taken after probe", logging.Error(err))
			continue
		}
		return l.launchLocal(ctx, ln, candidate)
	}

	logging.WarnWithContext(l.logger, "no free local port", "port_exhausted",
		logging.Int("preferred", preferred),
		logging.Int("attempts", l.maxAttempts),
		logging.String(logging.FieldImpact, "serving through the public relay"),
	)
	return l.launchRelay(ctx)
}

func (l *Launcher) launchLocal(ctx context.Context, ln net.Listener, port int) (Outcome, error) {
	outcome := Outcome{Port: port, URL: fmt.Sprintf("http://%s:%d", probeHost, port)}
	if l.registry != nil {
		outcome.Persisted = l.registry.Write(port)
	}
	if l.openBrowser != nil {
		if err := l.openBrowser(outcome.URL); err != nil {
			logging.WarnWithContext(l.logger, "browser not opened", "browser_open_failed",
				logging.String("url", outcome.URL),
				logging.Error(err),
				logging.String(logging.FieldImpact, "open the URL manually"),
			)
		}
	}
	l.logger.Info("web UI listening", logging.String("url", outcome.URL))
	return outcome, l.serve(ctx, ln, outcome, nil)
}

func (l *Launcher) launchRelay(ctx context.Context) (Outcome, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(probeHost, "0"))
	if err != nil {
		return Outcome{}, fmt.Errorf("bind ephemeral port: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	localURL := fmt.Sprintf("http://%s:%d", probeHost, port)
	outcome := Outcome{Port: port, URL: localURL}

	var tunnel Tunnel
	if l.relay != nil {
		tunnel, err = l.relay(ctx, localURL)
	} else {
		err = errors.New("relay disabled")
	}
	if err != nil {
		logging.WarnWithContext(l.logger, "relay unavailable", "relay_start_failed",
			logging.String("local_url", localURL),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install cloudflared or free a port in the probe range"),
			logging.String(logging.FieldImpact, "web UI reachable only on the local ephemeral port"),
		)
	} else {
		outcome.Relay = true
		outcome.URL = tunnel.URL()
		l.logger.Info("web UI published through relay", logging.String("url", outcome.URL), logging.String("local_url", localURL))
	}
	return outcome, l.serve(ctx, ln, outcome, tunnel)
}

func (l *Launcher) serve(ctx context.Context, ln net.Listener, outcome Outcome, tunnel Tunnel) error {
	// No write timeout: engine runs hold the response open until they finish.
	srv := &http.Server{
		Handler:           l.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if l.resetInterrupt != nil {
		l.resetInterrupt()
	}
	if l.onReady != nil {
		l.onReady(outcome)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	var serveErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve web UI: %w", err)
		}
	}

	if tunnel != nil {
		if err := tunnel.Stop(context.Background()); err != nil {
			l.logger.Debug("relay stop", logging.Error(err))
		}
	}
	l.logger.Info("web UI stopped", logging.Int("port", outcome.Port))
	return serveErr
}
