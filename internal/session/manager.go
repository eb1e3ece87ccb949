package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/invictusdhahri/moongate-mcp-server/internal/oauth"
	"github.com/invictusdhahri/moongate-mcp-server/internal/wallet"
	"github.com/invictusdhahri/moongate-mcp-server/pkg/logging"
)

const (
	// DefaultSessionTTL is the session lifetime from creation or refresh.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// DefaultRefreshThreshold is how close to expiry a token must be
	// before a refresh is attempted.
	DefaultRefreshThreshold = time.Hour
)

// AuthAPI is the slice of the wallet API the manager needs: credential
// validation and wallet address resolution. *wallet.Client satisfies it.
type AuthAPI interface {
	AuthCheck(ctx context.Context) (*wallet.AuthCheckResult, error)
	WalletAddress(ctx context.Context) (string, error)
}

// AuthAPIFactory builds an AuthAPI carrying the given bearer credential.
type AuthAPIFactory func(token string) AuthAPI

// LoginFlow runs the interactive browser sign-in. *oauth.Flow satisfies it.
type LoginFlow interface {
	Login(ctx context.Context) (*oauth.CallbackResult, error)
}

// ManagerConfig configures the session manager.
type ManagerConfig struct {
	// Store persists the session record. Required.
	Store *Store

	// Auth builds wallet API clients for auth checks. Required.
	Auth AuthAPIFactory

	// Flow runs the interactive sign-in. Required unless a static token
	// is configured.
	Flow LoginFlow

	// StaticToken is the operator-supplied credential. Optional; when set
	// it takes priority over every other acquisition path.
	StaticToken string

	// SessionTTL is the session lifetime. 0 means DefaultSessionTTL.
	SessionTTL time.Duration

	// RefreshThreshold is the refresh window. 0 means
	// DefaultRefreshThreshold.
	RefreshThreshold time.Duration
}

// Manager is the single authoritative owner of the current session. One
// instance is shared by every tool handler; all access to the session and
// its on-disk mirror goes through it.
type Manager struct {
	mu      sync.RWMutex
	current *Session

	store            *Store
	auth             AuthAPIFactory
	flow             LoginFlow
	staticToken      string
	sessionTTL       time.Duration
	refreshThreshold time.Duration

	// refreshGroup collapses concurrent refresh attempts into one
	// upstream call; all waiters share its outcome.
	refreshGroup singleflight.Group

	// now is swapped out in tests.
	now func() time.Time
}

// NewManager creates a session manager. No session exists until
// Initialize succeeds.
func NewManager(cfg ManagerConfig) *Manager {
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	refreshThreshold := cfg.RefreshThreshold
	if refreshThreshold <= 0 {
		refreshThreshold = DefaultRefreshThreshold
	}

	return &Manager{
		store:            cfg.Store,
		auth:             cfg.Auth,
		flow:             cfg.Flow,
		staticToken:      cfg.StaticToken,
		sessionTTL:       sessionTTL,
		refreshThreshold: refreshThreshold,
		now:              time.Now,
	}
}

// acquisition is one credential source. run returns (nil, nil) when the
// source is not applicable, a session on success, and an error on a hard
// failure that must stop the whole initialization.
type acquisition struct {
	name string
	run  func(ctx context.Context) (*Session, error)
}

// Initialize establishes the current session from the first applicable
// credential source, in strict priority order: static token, persisted
// record, interactive sign-in. It must complete before any tool dispatch.
func (m *Manager) Initialize(ctx context.Context) error {
	strategies := []acquisition{
		{name: "static-token", run: m.acquireStatic},
		{name: "persisted-session", run: m.acquirePersisted},
		{name: "interactive-signin", run: m.acquireInteractive},
	}

	for _, strategy := range strategies {
		sess, err := strategy.run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", strategy.name, err)
		}
		if sess == nil {
			logging.Debug("Session", "acquisition path %s not applicable", strategy.name)
			continue
		}

		m.mu.Lock()
		m.current = sess
		m.mu.Unlock()

		logging.Info("Session", "session established via %s (provider %s)", strategy.name, sess.AuthProvider)
		return nil
	}

	return ErrNotAuthenticated
}

// acquireStatic validates the operator-supplied token and, when needed,
// resolves the wallet address with a second call. Manual sessions are held
// in memory only; the store is never touched on this path.
func (m *Manager) acquireStatic(ctx context.Context) (*Session, error) {
	if m.staticToken == "" {
		return nil, nil
	}

	client := m.auth(m.staticToken)
	result, err := client.AuthCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManualToken, err)
	}

	publicKey := result.WalletAddress
	if publicKey == "" {
		publicKey, err = client.WalletAddress(ctx)
		if err != nil {
			// The session stays usable without a resolved address.
			logging.Warn("Session", "could not resolve wallet address for manual token: %v", err)
		}
	}

	return m.newSession(m.staticToken, publicKey, result.UserID, ProviderManual), nil
}

// acquirePersisted adopts the on-disk record when present and still valid,
// then runs the refresh check. Every failure on this path is non-fatal and
// falls through to the interactive flow.
func (m *Manager) acquirePersisted(ctx context.Context) (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		logging.Warn("Session", "ignoring unreadable session record: %v", err)
		return nil, nil
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Expired(m.now()) {
		logging.Info("Session", "persisted session expired at %s, sign-in required", sess.ExpiresAt.Format(time.RFC3339))
		return nil, nil
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	if err := m.refreshIfNeeded(ctx); err != nil {
		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		logging.Warn("Session", "persisted session could not be refreshed: %v", err)
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, nil
}

// acquireInteractive runs the browser sign-in flow and persists the
// resulting session. Failure or timeout here is fatal to initialization.
func (m *Manager) acquireInteractive(ctx context.Context) (*Session, error) {
	if m.flow == nil {
		return nil, fmt.Errorf("no interactive sign-in flow configured")
	}

	result, err := m.flow.Login(ctx)
	if err != nil {
		return nil, err
	}

	sess := m.newSession(result.Token, result.PublicKey, result.UserID, ParseProvider(result.Provider))
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Token returns the current bearer credential, refreshing it first when it
// is inside the refresh window.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if err := m.refreshIfNeeded(ctx); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return "", ErrNotAuthenticated
	}
	return m.current.Token, nil
}

// Current returns a copy of the current session, refreshing it first when
// needed.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	if err := m.refreshIfNeeded(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, ErrNotAuthenticated
	}

	sess := *m.current
	return &sess, nil
}

// Logout drops the in-memory session and deletes the persisted record.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	return m.store.Clear()
}

// refreshIfNeeded refreshes the current session when it is within the
// refresh threshold of expiry. Concurrent callers are collapsed into a
// single upstream call, and the session plus its on-disk mirror are
// mutated under one critical section.
//
// Manual sessions are validated once at startup and never refreshed.
func (m *Manager) refreshIfNeeded(ctx context.Context) error {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()

	if cur == nil || cur.AuthProvider == ProviderManual {
		return nil
	}
	if cur.TimeUntilExpiry(m.now()) >= m.refreshThreshold {
		return nil
	}

	_, err, _ := m.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, m.refresh(ctx)
	})
	return err
}

// refresh holds the session lock for the whole read-modify-write,
// including the upstream call and the disk write, so a concurrent refresh
// can never overwrite a fresher record with stale data.
func (m *Manager) refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.current
	if cur == nil || cur.AuthProvider == ProviderManual {
		return nil
	}
	// Another caller may have refreshed while we waited on the lock.
	if cur.TimeUntilExpiry(m.now()) >= m.refreshThreshold {
		return nil
	}

	result, err := m.auth(cur.Token).AuthCheck(ctx)
	if err != nil {
		if wallet.IsUnauthorized(err) {
			m.current = nil
			if clearErr := m.store.Clear(); clearErr != nil {
				logging.Warn("Session", "failed to delete session record: %v", clearErr)
			}
			logging.Info("Session", "refresh rejected upstream, session destroyed")
			return fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		// Transient failure: keep the session, surface the error.
		return fmt.Errorf("session refresh failed: %w", err)
	}

	now := m.now()
	refreshed := *cur
	refreshed.Token = result.Token
	refreshed.CreatedAt = now
	refreshed.ExpiresAt = now.Add(m.sessionTTL)
	if result.WalletAddress != "" {
		refreshed.PublicKey = result.WalletAddress
	}
	if result.UserID != "" {
		refreshed.UserID = result.UserID
	}

	m.current = &refreshed
	if err := m.store.Save(&refreshed); err != nil {
		return err
	}

	logging.Debug("Session", "session refreshed, new expiry %s", refreshed.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (m *Manager) newSession(token, publicKey, userID string, provider Provider) *Session {
	now := m.now()
	return &Session{
		Token:        token,
		PublicKey:    publicKey,
		UserID:       userID,
		AuthProvider: provider,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.sessionTTL),
	}
}
