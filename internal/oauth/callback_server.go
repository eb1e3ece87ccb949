package oauth

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultCallbackPort is the default port for the local sign-in server.
const DefaultCallbackPort = 8787

//go:embed templates/signin.html
var signinHTML string

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

// CallbackResult carries the credential parameters received from the
// identity exchange redirect.
type CallbackResult struct {
	// Token is the freshly minted bearer credential.
	Token string

	// PublicKey is the wallet address bound to the identity.
	PublicKey string

	// UserID identifies the upstream user.
	UserID string

	// Provider is the identity provider name from the redirect. Optional;
	// absent values are defaulted by the caller.
	Provider string
}

// missing returns the names of required parameters absent from the result.
// Provider is optional and not checked.
func (r *CallbackResult) missing() []string {
	var missing []string
	if r.Token == "" {
		missing = append(missing, "token")
	}
	if r.PublicKey == "" {
		missing = append(missing, "publicKey")
	}
	if r.UserID == "" {
		missing = append(missing, "userId")
	}
	return missing
}

// Validate checks that all required parameters are present.
func (r *CallbackResult) Validate() error {
	if m := r.missing(); len(m) > 0 {
		return fmt.Errorf("%w: %s", ErrCallbackIncomplete, strings.Join(m, ", "))
	}
	return nil
}

// CallbackServer is a temporary local HTTP server for the sign-in flow.
// It serves the sign-in page, waits for a single callback, then shuts down.
type CallbackServer struct {
	port        int
	signInURL   string
	server      *http.Server
	listener    net.Listener
	resultCh    chan *CallbackResult
	errorCh     chan error
	once        sync.Once
	serverURL   string
	redirectURI string
}

// NewCallbackServer creates a callback server on the specified port.
// Port 0 falls back to the default port. signInURL is the hosted identity
// exchange the local page hands off to.
func NewCallbackServer(port int, signInURL string) *CallbackServer {
	if port == 0 {
		port = DefaultCallbackPort
	}

	return &CallbackServer{
		port:      port,
		signInURL: strings.TrimRight(signInURL, "/"),
		resultCh:  make(chan *CallbackResult, 1),
		errorCh:   make(chan error, 1),
	}
}

// Start binds the listener and begins serving the sign-in page. The server
// stops automatically when the context is cancelled. Returns the local URL
// to open in the user's browser.
func (s *CallbackServer) Start(ctx context.Context) (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to start sign-in server on %s: %w", addr, err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.serverURL = fmt.Sprintf("http://localhost:%d", s.port)
	s.redirectURI = s.serverURL + "/callback"

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return s.serverURL, nil
}

// WaitForCallback blocks until a callback arrives, the server fails, or the
// context expires.
func (s *CallbackServer) WaitForCallback(ctx context.Context) (*CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleIndex serves the sign-in page.
func (s *CallbackServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl := template.Must(template.New("signin").Parse(signinHTML))
	data := map[string]string{
		"SignInURL":   s.signInURL,
		"RedirectURI": s.redirectURI,
	}
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleCallback accepts the redirect from the identity exchange. Only the
// first request resolves the flow; later ones get a 400.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// processCallback runs exactly once via sync.Once.
func (s *CallbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)

	query := r.URL.Query()
	result := &CallbackResult{
		Token:     query.Get("token"),
		PublicKey: query.Get("publicKey"),
		UserID:    query.Get("userId"),
		Provider:  query.Get("provider"),
	}

	var tmpl *template.Template
	var data interface{}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if missing := result.missing(); len(missing) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		tmpl = template.Must(template.New("error").Parse(callbackErrorHTML))
		data = map[string]string{
			"Missing": strings.Join(missing, ", "),
		}
	} else {
		tmpl = template.Must(template.New("success").Parse(callbackSuccessHTML))
		data = map[string]string{}
	}

	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	select {
	case s.resultCh <- result:
	default:
	}

	// Give the response time to flush before tearing down.
	go func() {
		time.Sleep(1 * time.Second)
		s.Stop()
	}()
}

// Stop gracefully shuts down the server. Safe to call more than once.
func (s *CallbackServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// RedirectURI returns the callback URL handed to the identity exchange.
func (s *CallbackServer) RedirectURI() string {
	return s.redirectURI
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'; script-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
}
