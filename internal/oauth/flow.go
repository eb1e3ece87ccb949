package oauth

import (
	"context"
	"errors"
	"time"

	"github.com/invictusdhahri/moongate-mcp-server/pkg/logging"
)

// DefaultLoginTimeout bounds how long the flow waits for the callback.
const DefaultLoginTimeout = 5 * time.Minute

// Flow runs the interactive sign-in: start the local server, open the
// browser, wait for exactly one callback or the timeout.
type Flow struct {
	port      int
	signInURL string
	timeout   time.Duration

	// openBrowser is swapped out in tests.
	openBrowser func(url string) error
}

// FlowConfig configures the sign-in flow.
type FlowConfig struct {
	// Port for the local callback server. 0 means the default port.
	Port int

	// SignInURL is the hosted identity-exchange base URL.
	SignInURL string

	// Timeout bounds the wait for the callback. 0 means the default.
	Timeout time.Duration
}

// NewFlow creates a sign-in flow.
func NewFlow(cfg FlowConfig) *Flow {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}

	return &Flow{
		port:        cfg.Port,
		signInURL:   cfg.SignInURL,
		timeout:     timeout,
		openBrowser: OpenBrowser,
	}
}

// Login runs the flow to completion. It returns a validated callback
// result, ErrLoginTimeout when the deadline elapses first, or
// ErrCallbackIncomplete when the callback lacked required parameters.
func (f *Flow) Login(ctx context.Context) (*CallbackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	server := NewCallbackServer(f.port, f.signInURL)
	signinURL, err := server.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer server.Stop()

	logging.Info("OAuth", "waiting for sign-in at %s", signinURL)

	if err := f.openBrowser(signinURL); err != nil {
		// Non-fatal: the user can still navigate manually.
		logging.Warn("OAuth", "could not open browser, navigate to %s manually: %v", signinURL, err)
	}

	result, err := server.WaitForCallback(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLoginTimeout
		}
		return nil, err
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}
