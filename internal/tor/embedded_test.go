package tor

import (
	"errors"
	"testing"
	"time"
)

func TestNewEmbeddedTor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		opts     []EmbeddedTorOption
		expected time.Duration
	}{
		{name: "default timeout", expected: DefaultStartupTimeout},
		{name: "custom timeout", opts: []EmbeddedTorOption{WithStartupTimeout(5 * time.Minute)}, expected: 5 * time.Minute},
		{name: "zero keeps default", opts: []EmbeddedTorOption{WithStartupTimeout(0)}, expected: DefaultStartupTimeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			embedded := NewEmbeddedTor(tc.opts...)
			if embedded.startupTimeout != tc.expected {
				t.Errorf("startupTimeout = %v, want %v", embedded.startupTimeout, tc.expected)
			}
		})
	}
}

// TestEmbeddedTorNotStarted tests EmbeddedTor methods without starting Tor.
func TestEmbeddedTorNotStarted(t *testing.T) {
	t.Parallel()

	embedded := NewEmbeddedTor()

	if embedded.IsRunning() {
		t.Error("expected IsRunning to be false before start")
	}
	if embedded.SocksAddr() != "" || embedded.ControlAddr() != "" {
		t.Error("expected empty addresses before start")
	}
	if _, err := embedded.ProxyURL(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("ProxyURL() error = %v, want ErrNotRunning", err)
	}
	if err := embedded.Stop(); err != nil {
		t.Errorf("Stop() on unstarted instance error = %v", err)
	}
}

func TestSOCKSProxyURL(t *testing.T) {
	t.Parallel()

	got := SOCKSProxyURL("127.0.0.1:9050")
	if got != "socks5h://127.0.0.1:9050" {
		t.Errorf("SOCKSProxyURL() = %q", got)
	}
	addr, ok := SOCKSAddress(got)
	if !ok || addr != "127.0.0.1:9050" {
		t.Errorf("SOCKSAddress() = %q, %v", addr, ok)
	}
}
