package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/octabyte/bm-session/authclient"
	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/models"
	otellogger "github.com/octabyte/bm-session/otel/logger"
	"github.com/octabyte/bm-session/otel/metrics"
	"github.com/octabyte/bm-session/store"
	"github.com/octabyte/bm-session/utils/logger"
)

const defaultLogoutTimeout = 5 * time.Second

// AuthClient is the subset of authclient.Client the Manager drives.
type AuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

// cookieResetter is implemented by clients that keep per-session cookies.
type cookieResetter interface {
	ResetCookies() error
}

type Option func(*Manager)

// WithLogoutTimeout bounds the background logout notification.
func WithLogoutTimeout(d time.Duration) Option {
	return func(m *Manager) { m.logoutTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithListener(l Listener) Option {
	return func(m *Manager) { m.listeners = append(m.listeners, l) }
}

type Manager struct {
	client        AuthClient
	store         store.Store
	now           func() time.Time
	logoutTimeout time.Duration
	listeners     []Listener

	// opMu serializes mutations. It is held for the whole remote call.
	opMu        sync.Mutex
	initialized bool
	busy        atomic.Bool

	// mu guards the settled state read by Status and friends.
	mu      sync.RWMutex
	state   enums.SessionState
	current models.Session

	ready chan struct{}
	bg    sync.WaitGroup
}

func NewManager(client AuthClient, st store.Store, opts ...Option) *Manager {
	m := &Manager{
		client:        client,
		store:         st,
		now:           time.Now,
		logoutTimeout: defaultLogoutTimeout,
		state:         enums.SessionStateInitializing,
		ready:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize restores the cached session, if any, and settles the Manager.
// Every failure degrades to an unauthenticated Manager; the returned error is
// only ErrAlreadyInitialized.
func (m *Manager) Initialize(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.initialized {
		return ErrAlreadyInitialized
	}
	m.initialized = true
	defer close(m.ready)

	m.busy.Store(true)
	defer m.busy.Store(false)

	sess, ok := m.restore(ctx)
	if !ok {
		m.settle(enums.SessionStateUnauthenticated, models.Session{})
		otellogger.InfoCtx(ctx, "no session restored")
		return nil
	}

	m.settle(enums.SessionStateAuthenticated, sess)
	otellogger.InfoCtx(ctx, "session restored", logger.User(sess.User))
	m.emit(ctx, enums.SessionEventRestored, sess.User, "", 1)
	return nil
}

// restore loads the cached pair and re-validates it with the auth service.
// Anything short of a valid pair confirmed by the service clears the store.
func (m *Manager) restore(ctx context.Context) (models.Session, bool) {
	snap, err := m.store.Load(ctx)
	if err != nil {
		otellogger.WarnCtx(ctx, "discarding unreadable session store", zap.Error(err))
		m.clearStore(ctx)
		return models.Session{}, false
	}

	cached, ok, err := snap.Session()
	if err != nil {
		otellogger.DebugCtx(ctx, "discarding corrupt session record", zap.Error(err))
		m.clearStore(ctx)
		return models.Session{}, false
	}
	if !ok {
		return models.Session{}, false
	}

	user, err := m.client.Profile(ctx, cached.Token)
	if err == nil {
		err = checkUser(user)
	}
	if err != nil {
		otellogger.WarnCtx(ctx, "cached session rejected", logger.User(cached.User), zap.Error(err))
		m.clearStore(ctx)
		return models.Session{}, false
	}

	refreshed := models.Session{Token: cached.Token, User: *user}
	if err := m.store.Save(ctx, refreshed); err != nil {
		otellogger.ErrorCtx(ctx, "failed to persist refreshed user", err)
		m.clearStore(ctx)
		return models.Session{}, false
	}
	return refreshed, true
}

// Login authenticates with email and password. On any failure the previous
// session, in memory and in the store, is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	req := models.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return m.authenticate(ctx, enums.SessionEventLogin, func(ctx context.Context) (*models.AuthResponse, error) {
		return m.client.Login(ctx, req)
	})
}

// Register creates an account and signs the new user in. The auth service
// must answer with a token and a user; otherwise the caller stays signed out.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return m.authenticate(ctx, enums.SessionEventRegister, func(ctx context.Context) (*models.AuthResponse, error) {
		return m.client.Register(ctx, req)
	})
}

func (m *Manager) authenticate(ctx context.Context, event enums.SessionEvent, call func(context.Context) (*models.AuthResponse, error)) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}

	m.busy.Store(true)
	defer m.busy.Store(false)

	resp, err := call(ctx)
	if err != nil {
		otellogger.InfoCtx(ctx, "authentication failed", zap.String("event", string(event)), zap.Error(err))
		return err
	}

	sess, err := sessionFromResponse(resp)
	if err != nil {
		otellogger.WarnCtx(ctx, "unusable auth response", zap.String("event", string(event)), zap.Error(err))
		return err
	}

	prior := m.snapshot()
	if err := m.store.Save(ctx, sess); err != nil {
		m.rollbackStore(ctx, prior)
		return fmt.Errorf("session: persist session: %w", err)
	}

	m.settle(enums.SessionStateAuthenticated, sess)

	var delta int64 = 1
	if prior.Token != "" {
		delta = 0
	}
	otellogger.InfoCtx(ctx, "session established", zap.String("event", string(event)), logger.User(sess.User))
	m.emit(ctx, event, sess.User, "", delta)
	return nil
}

func sessionFromResponse(resp *models.AuthResponse) (models.Session, error) {
	if resp == nil || resp.AccessToken == "" {
		return models.Session{}, ErrMissingToken
	}
	if err := checkUser(resp.User); err != nil {
		return models.Session{}, err
	}
	return models.Session{Token: resp.AccessToken, User: *resp.User}, nil
}

func checkUser(user *models.User) error {
	if user == nil || user.ID == "" {
		return ErrMissingUser
	}
	if !user.Role.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, user.Role)
	}
	return nil
}

// rollbackStore puts the store back to the last settled pair after a failed
// write.
func (m *Manager) rollbackStore(ctx context.Context, prior models.Session) {
	var err error
	if !prior.IsZero() {
		err = m.store.Save(ctx, prior)
	} else {
		err = m.store.Clear(ctx)
	}
	if err != nil {
		otellogger.ErrorCtx(ctx, "failed to roll back session store", err)
	}
}

// Logout drops the session locally and notifies the auth service in the
// background. The in-memory session is always cleared; the returned error
// only reports a store that could not be cleared.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.busy.Store(true)
	defer m.busy.Store(false)

	prior := m.snapshot()
	if m.initialized {
		m.settle(enums.SessionStateUnauthenticated, models.Session{})
	}

	// Before Initialize the only session is the cached one. Its token is
	// still live on the service side.
	var cachedToken string
	if !m.initialized {
		cachedToken = m.cachedToken(ctx)
	}

	err := m.store.Clear(ctx)
	if err != nil {
		otellogger.ErrorCtx(ctx, "failed to clear session store on logout", err)
		err = fmt.Errorf("session: clear store: %w", err)
	}

	if prior.IsZero() {
		if cachedToken != "" {
			m.notifyLogout(ctx, cachedToken)
			otellogger.InfoCtx(ctx, "cached session logged out before initialize")
		}
		return err
	}

	m.notifyLogout(ctx, prior.Token)
	otellogger.InfoCtx(ctx, "logged out", logger.User(prior.User))
	m.emit(ctx, enums.SessionEventLogout, prior.User, "", -1)
	return err
}

// cachedToken returns the stored token even when the user record next to it
// is unusable.
func (m *Manager) cachedToken(ctx context.Context) string {
	snap, err := m.store.Load(ctx)
	if err != nil {
		otellogger.DebugCtx(ctx, "cached session unreadable on logout", zap.Error(err))
		return ""
	}
	return snap.Token
}

func (m *Manager) notifyLogout(ctx context.Context, token string) {
	if r, ok := m.client.(cookieResetter); ok {
		if err := r.ResetCookies(); err != nil {
			otellogger.WarnCtx(ctx, "failed to reset auth cookies", zap.Error(err))
		}
	}

	m.bg.Add(1)
	go func() {
		defer m.bg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.logoutTimeout)
		defer cancel()

		if err := m.client.Logout(ctx, token); err != nil {
			otellogger.DebugCtx(ctx, "remote logout failed", zap.Error(err))
		}
	}()
}

// Invalidate ends the session because the auth service rejected token. It is
// a no-op when token is no longer the current token, so a late 401 for an
// older session cannot end a newer one. It reports whether a session ended.
func (m *Manager) Invalidate(ctx context.Context, token, reason string) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	prior := m.snapshot()
	if prior.Token == "" || prior.Token != token {
		return false
	}

	m.busy.Store(true)
	defer m.busy.Store(false)

	m.settle(enums.SessionStateUnauthenticated, models.Session{})
	m.clearStore(ctx)

	otellogger.WarnCtx(ctx, "session invalidated", logger.User(prior.User), zap.String("reason", reason))
	m.emit(ctx, enums.SessionEventInvalidated, prior.User, reason, -1)
	return true
}

// Authorized runs fn with the current token. If fn reports that the auth
// service rejected the token, the session is invalidated before the error is
// returned.
func (m *Manager) Authorized(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	token := m.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	err := fn(ctx, token)
	if errors.Is(err, authclient.ErrUnauthorized) {
		m.Invalidate(ctx, token, "unauthorized")
	}
	return err
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		otellogger.ErrorCtx(ctx, "failed to clear session store", err)
	}
}

func (m *Manager) settle(state enums.SessionState, sess models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.current = sess
}

func (m *Manager) snapshot() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) emit(ctx context.Context, event enums.SessionEvent, user models.User, reason string, delta int64) {
	metrics.RecordSessionEvent(ctx, string(event), delta)

	e := Event{Type: event, UserID: user.ID, Role: user.Role, Reason: reason, At: m.now().UTC()}
	for _, l := range m.listeners {
		l(ctx, e)
	}
}

// Status returns the last settled state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Status{State: m.state, Busy: m.busy.Load()}
	if m.state == enums.SessionStateAuthenticated {
		user := m.current.User
		s.User = &user
	}
	return s
}

// CurrentUser returns the signed-in user.
func (m *Manager) CurrentUser() (models.User, bool) {
	s := m.Status()
	if !s.IsAuthenticated() {
		return models.User{}, false
	}
	return *s.User, true
}

func (m *Manager) IsAuthenticated() bool {
	return m.Status().IsAuthenticated()
}

// Token returns the current bearer token, or "" without a session.
func (m *Manager) Token() string {
	return m.snapshot().Token
}

// Busy reports whether a mutation is in flight.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// Ready is closed once Initialize has settled the Manager.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Wait blocks until Initialize completes or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for background logout notifications to finish.
func (m *Manager) Close() {
	m.bg.Wait()
}
