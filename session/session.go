// Package session owns the process-wide staff session: authentication state,
// current user and outlet, permission grants, and the persisted credential
// pair. One Session exists per process; it is constructed at startup and
// handed to the dashboard and CLI commands explicitly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/awnumar/memguard"

	"github.com/mealpoint/staffdesk/backend"
	"github.com/mealpoint/staffdesk/credstore"
)

// DefaultOpTimeout bounds each lifecycle operation. A hung backend settles
// the operation as failed instead of leaving the session loading forever.
const DefaultOpTimeout = 15 * time.Second

// Config carries the Session's dependencies.
type Config struct {
	// BackendURL is the base URL of the staff REST API.
	BackendURL string
	// Store persists the token/outlet pair across restarts.
	Store credstore.Store
	// HTTPClient optionally overrides the backend transport.
	HTTPClient *http.Client
	// Logger defaults to a JSON logger on stderr.
	Logger *slog.Logger
	// OpTimeout defaults to DefaultOpTimeout. Negative disables the bound.
	OpTimeout time.Duration
}

// Snapshot is an immutable view of session state, safe to consult on every
// request. Guards decide from a Snapshot and never mutate it.
type Snapshot struct {
	Loading       bool
	Authenticated bool
	User          *backend.User
	Outlet        *backend.Outlet
	Grants        []backend.PermissionGrant
	Err           string
}

// HasPermission reports whether the snapshot carries a granted entry for
// kind. Permissions only have effect while authenticated.
func (s Snapshot) HasPermission(kind Permission) bool {
	if !s.Authenticated {
		return false
	}
	return HasGrant(s.Grants, kind)
}

// Session is the single source of truth for authentication state. Lifecycle
// operations are serialized: a second caller blocks until the first settles,
// so a slow stale operation can never overwrite a later one.
type Session struct {
	store   credstore.Store
	client  *backend.Client
	logger  *slog.Logger
	timeout time.Duration

	op sync.Mutex // serializes lifecycle operations

	mu            sync.RWMutex // guards the fields below
	loading       bool
	authenticated bool
	user          *backend.User
	outlet        *backend.Outlet
	grants        []backend.PermissionGrant
	lastErr       string
	token         *memguard.Enclave
}

// New creates a Session in the loading state. Callers run Rehydrate once at
// startup to settle it.
func New(cfg Config) *Session {
	s := &Session{
		store:   cfg.Store,
		logger:  cfg.Logger,
		timeout: cfg.OpTimeout,
		loading: true,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	if s.timeout == 0 {
		s.timeout = DefaultOpTimeout
	}
	opts := []backend.Option{
		backend.WithLogger(s.logger),
		backend.WithExpiryHook(s.expire),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, backend.WithHTTPClient(cfg.HTTPClient))
	}
	s.client = backend.New(cfg.BackendURL, s, opts...)
	return s
}

// Backend returns the API client bound to this session. Feature handlers use
// it for page data; its bearer token always reflects current session state.
func (s *Session) Backend() *backend.Client {
	return s.client
}

// Token implements backend.TokenSource.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	enclave := s.token
	s.mu.RUnlock()
	if enclave == nil {
		return "", false
	}
	buf, err := enclave.Open()
	if err != nil {
		return "", false
	}
	defer buf.Destroy()
	return string(buf.Bytes()), true
}

// Snapshot returns the current state for guards and views.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Loading:       s.loading,
		Authenticated: s.authenticated,
		User:          s.user,
		Outlet:        s.outlet,
		Grants:        s.grants,
		Err:           s.lastErr,
	}
}

// HasPermission is a pure predicate over current state, safe on every render.
func (s *Session) HasPermission(kind Permission) bool {
	return s.Snapshot().HasPermission(kind)
}

func (s *Session) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Session) beginOp() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

// settleSignedOut resets to the unauthenticated default and wipes the token.
func (s *Session) settleSignedOut(errMsg string) {
	s.mu.Lock()
	s.loading = false
	s.authenticated = false
	s.user = nil
	s.outlet = nil
	s.grants = nil
	s.lastErr = errMsg
	s.token = nil
	s.mu.Unlock()
}

// clearPersisted removes the token/outlet pair, tolerating store errors:
// local state correctness never depends on a successful disk write.
func (s *Session) clearPersisted() {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("clearing persisted credentials", slog.String("error", err.Error()))
	}
}

// Rehydrate reconstructs the session from persisted credentials. It always
// settles: any failure clears persisted state and lands unauthenticated.
// Invoked once at process start.
func (s *Session) Rehydrate(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()
	s.beginOp()

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	creds, ok, err := s.store.Load()
	if err != nil {
		s.logger.Warn("persisted credentials unreadable, clearing", slog.String("error", err.Error()))
		s.clearPersisted()
		s.settleSignedOut("")
		return
	}
	if !ok {
		s.settleSignedOut("")
		return
	}

	s.mu.Lock()
	s.token = memguard.NewEnclave([]byte(creds.Token))
	s.mu.Unlock()

	id, err := s.client.Me(ctx)
	if err != nil || id.User == nil {
		if err != nil && !errors.Is(err, backend.ErrSessionExpired) {
			s.logger.Warn("rehydrate check failed", slog.String("error", err.Error()))
		}
		s.clearPersisted()
		s.settleSignedOut("")
		return
	}

	outlet := decodeOutlet(creds.Outlet, s.logger)
	if outlet == nil {
		outlet = id.User.Outlet
	}
	s.persistPair(creds.Token, outlet)

	s.mu.Lock()
	s.loading = false
	s.authenticated = true
	s.user = id.User
	s.outlet = outlet
	s.grants = id.User.Permissions()
	s.lastErr = ""
	s.mu.Unlock()
}

// SignIn validates the credentials locally, then authenticates against the
// backend and replaces the session wholesale on success. Failures both set
// the session error and return the error, so the caller can react inline.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	email, err := validateEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	s.op.Lock()
	defer s.op.Unlock()
	s.beginOp()

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	// Clear any previous account's persisted state before calling out, so a
	// failed attempt can never leak the prior session on this device.
	s.clearPersisted()
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()

	res, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		s.settleSignedOut(err.Error())
		return err
	}
	if res.Token == "" || res.User == nil {
		err := errors.New("sign-in response missing token or user")
		s.settleSignedOut(err.Error())
		return err
	}

	s.persistPair(res.Token, res.User.Outlet)

	s.mu.Lock()
	s.loading = false
	s.authenticated = true
	s.user = res.User
	s.outlet = res.User.Outlet
	s.grants = res.User.Permissions()
	s.lastErr = ""
	s.token = memguard.NewEnclave([]byte(res.Token))
	s.mu.Unlock()
	return nil
}

// SignUp registers a new staff account. No session is established; the user
// signs in separately once the account is approved.
func (s *Session) SignUp(ctx context.Context, req backend.SignUpRequest) (*backend.SignUpResult, error) {
	if normalize(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if normalize(req.OutletCode) == "" {
		return nil, &ValidationError{Field: "outletCode", Reason: "is required"}
	}
	req.Name = normalize(req.Name)
	req.Email = email

	s.op.Lock()
	defer s.op.Unlock()

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.SignUp(ctx, req)
}

// SignOut calls the backend best-effort, then unconditionally clears the
// persisted pair and resets to the unauthenticated default. Idempotent: a
// second call is a no-op with the same outcome.
func (s *Session) SignOut(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()
	s.beginOp()

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if _, ok := s.Token(); ok {
		if err := s.client.SignOut(ctx); err != nil {
			s.logger.Warn("backend sign-out failed, signing out locally", slog.String("error", err.Error()))
		}
	}
	s.clearPersisted()
	s.settleSignedOut("")
}

// RefreshPermissions re-fetches the identity and updates only the user and
// grant fields, picking up mid-session permission changes. It is a no-op
// when unauthenticated and never returns an error: a failed refresh must not
// block navigation.
func (s *Session) RefreshPermissions(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.RLock()
	authenticated := s.authenticated
	s.mu.RUnlock()
	if !authenticated {
		return
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.client.Me(ctx)
	if err != nil || id.User == nil {
		if err != nil {
			s.logger.Warn("permission refresh failed", slog.String("error", err.Error()))
		}
		return
	}

	s.mu.Lock()
	// The expiry hook may have reset the session while Me was in flight.
	if s.authenticated {
		s.user = id.User
		s.grants = id.User.Permissions()
		if id.User.Outlet != nil {
			s.outlet = id.User.Outlet
		}
	}
	s.mu.Unlock()

	if id.User.Outlet != nil {
		if token, ok := s.Token(); ok {
			s.persistPair(token, id.User.Outlet)
		}
	}
}

// expire is the backend client's 401 hook. It runs at most once per token
// and may fire while a lifecycle operation is mid-flight, so it touches
// state directly rather than taking the op lock.
func (s *Session) expire() {
	s.logger.Info("session expired, clearing local state")
	s.clearPersisted()
	s.settleSignedOut("")
}

// persistPair writes the token and outlet snapshot as one pair. Persistence
// failures are logged; in-memory state remains authoritative.
func (s *Session) persistPair(token string, outlet *backend.Outlet) {
	var snapshot json.RawMessage
	if outlet != nil {
		buf, err := json.Marshal(outlet)
		if err != nil {
			s.logger.Error("encoding outlet snapshot", slog.String("error", err.Error()))
		} else {
			snapshot = buf
		}
	}
	if err := s.store.Save(credstore.Credentials{Token: token, Outlet: snapshot}); err != nil {
		s.logger.Error("persisting credentials", slog.String("error", err.Error()))
	}
}

func decodeOutlet(raw json.RawMessage, logger *slog.Logger) *backend.Outlet {
	if len(raw) == 0 {
		return nil
	}
	var o backend.Outlet
	if err := json.Unmarshal(raw, &o); err != nil {
		logger.Warn("persisted outlet snapshot unreadable", slog.String("error", err.Error()))
		return nil
	}
	return &o
}
