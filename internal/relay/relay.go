// Package relay exposes a local URL publicly through a cloudflared quick
// tunnel. It is used when no local port in the probe range is free.
package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"assfontui/internal/logging"
)

const (
	defaultURLTimeout  = 25 * time.Second
	defaultStopTimeout = 6 * time.Second
	quickTunnelHost    = "trycloudflare.com"
)

// ErrNoPublicURL is returned when cloudflared did not announce a public URL.
var ErrNoPublicURL = errors.New("relay did not report a public URL")

// Cloudflared starts quick tunnels with the cloudflared binary.
type Cloudflared struct {
	Binary     string
	URLTimeout time.Duration
	Logger     *slog.Logger
}

// Tunnel is a running relay child process.
type Tunnel struct {
	url    string
	cmd    *exec.Cmd
	done   chan struct{}
	logger *slog.Logger
}

// URL returns the public address announced by the relay.
func (t *Tunnel) URL() string {
	return t.url
}

// Done is closed once the relay process has exited.
func (t *Tunnel) Done() <-chan struct{} {
	return t.done
}

// Start runs `cloudflared tunnel --url localURL` and waits until it prints a
// public URL. The process outlives ctx only until Stop is called or ctx ends.
func (c Cloudflared) Start(ctx context.Context, localURL string) (*Tunnel, error) {
	binary := strings.TrimSpace(c.Binary)
	if binary == "" {
		binary = "cloudflared"
	}
	logger := logging.NewComponentLogger(c.Logger, "relay")
	timeout := c.URLTimeout
	if timeout <= 0 {
		timeout = defaultURLTimeout
	}

	cmd := exec.Command(binary, "tunnel", "--url", localURL) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("relay stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("relay stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	tunnel := &Tunnel{cmd: cmd, done: make(chan struct{}), logger: logger}
	urlCh := make(chan string, 1)
	var once sync.Once
	announce := func(line string) {
		if u := FindPublicURL(line); u != "" {
			once.Do(func() { urlCh <- u })
		}
	}

	var wg sync.WaitGroup
	for _, r := range []io.Reader{stdout, stderr} {
		wg.Add(1)
		go func(r io.Reader) {
			defer wg.Done()
			scanLines(r, logger, announce)
		}(r)
	}
	go func() {
		wg.Wait()
		err := cmd.Wait()
		logger.Debug("relay exited", logging.Error(err))
		close(tunnel.done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case u := <-urlCh:
		tunnel.url = u
		go func() {
			select {
			case <-ctx.Done():
				_ = tunnel.Stop(context.Background())
			case <-tunnel.done:
			}
		}()
		return tunnel, nil
	case <-tunnel.done:
		return nil, fmt.Errorf("%w: process exited", ErrNoPublicURL)
	case <-timer.C:
		_ = tunnel.Stop(context.Background())
		return nil, fmt.Errorf("%w within %s", ErrNoPublicURL, timeout)
	case <-ctx.Done():
		_ = tunnel.Stop(context.Background())
		return nil, ctx.Err()
	}
}

// Stop interrupts the relay and kills it if it does not exit in time.
func (t *Tunnel) Stop(ctx context.Context) error {
	if t == nil || t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	select {
	case <-t.done:
		return nil
	default:
	}

	var err error
	if runtime.GOOS == "windows" {
		err = t.cmd.Process.Kill()
	} else {
		err = t.cmd.Process.Signal(os.Interrupt)
	}

	wait, cancel := context.WithTimeout(ctx, defaultStopTimeout)
	defer cancel()
	select {
	case <-t.done:
	case <-wait.Done():
		_ = t.cmd.Process.Kill()
		<-t.done
	}
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func scanLines(r io.Reader, logger *slog.Logger, onLine func(string)) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		logger.Debug("relay output", logging.String("line", line))
		onLine(line)
	}
}

// FindPublicURL extracts the quick tunnel URL from one line of cloudflared
// output, or returns "".
func FindPublicURL(line string) string {
	if !strings.Contains(line, quickTunnelHost) {
		return ""
	}
	for _, field := range strings.Fields(line) {
		field = strings.Trim(field, "[]()<>|\"'")
		if !strings.HasPrefix(field, "https://") && !strings.HasPrefix(field, "http://") {
			continue
		}
		if strings.Contains(field, quickTunnelHost) {
			return strings.TrimSuffix(field, "/")
		}
	}
	return ""
}
