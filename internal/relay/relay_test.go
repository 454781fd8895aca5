package relay_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"assfontui/internal/relay"
)

func TestFindPublicURL(t *testing.T) {
	cases := map[string]string{
		"2024-01-01T00:00:00Z INF |  https://tender-fox-abc.trycloudflare.com                                   |": "https://tender-fox-abc.trycloudflare.com",
		"Visit it at (it may take some time to be reachable): https://x-y.trycloudflare.com/":                      "https://x-y.trycloudflare.com",
		"INF Requesting new quick Tunnel on trycloudflare.com...":                                                  "",
		"INF Starting metrics server on 127.0.0.1:40000/metrics":                                                   "",
		"": "",
	}
	for line, want := range cases {
		if got := relay.FindPublicURL(line); got != want {
			t.Errorf("FindPublicURL(%q) = %q, want %q", line, got, want)
		}
	}
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "cloudflared")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestStartParsesURLAndStops(t *testing.T) {
	bin := writeStub(t, `echo "INF | https://quick-test.trycloudflare.com |" 1>&2; exec sleep 30`)

	tunnel, err := relay.Cloudflared{Binary: bin, URLTimeout: 5 * time.Second}.Start(context.Background(), "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tunnel.URL() != "https://quick-test.trycloudflare.com" {
		t.Fatalf("unexpected url %q", tunnel.URL())
	}
	if err := tunnel.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-tunnel.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("tunnel did not exit")
	}
}

func TestStartFailsWhenProcessExitsWithoutURL(t *testing.T) {
	bin := writeStub(t, `echo "failed to connect"; exit 1`)

	_, err := relay.Cloudflared{Binary: bin, URLTimeout: 5 * time.Second}.Start(context.Background(), "http://127.0.0.1:1")
	if !errors.Is(err, relay.ErrNoPublicURL) {
		t.Fatalf("expected ErrNoPublicURL, got %v", err)
	}
}

func TestStartTimesOut(t *testing.T) {
	bin := writeStub(t, `exec sleep 30`)

	_, err := relay.Cloudflared{Binary: bin, URLTimeout: 200 * time.Millisecond}.Start(context.Background(), "http://127.0.0.1:1")
	if !errors.Is(err, relay.ErrNoPublicURL) {
		t.Fatalf("expected ErrNoPublicURL, got %v", err)
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := relay.Cloudflared{Binary: filepath.Join(t.TempDir(), "nope")}.Start(context.Background(), "http://127.0.0.1:1")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
