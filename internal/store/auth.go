package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// persistTimeout bounds a single persistence call.
const persistTimeout = 5 * time.Second

// AuthBackend is the subset of the API the auth store calls.
type AuthBackend interface {
	Login(ctx context.Context, cr model.Credentials) (model.AuthResponse, error)
	Register(ctx context.Context, r model.Registration) (model.AuthResponse, error)
}

// ProfileBackend reads and updates the signed-in user's profile.
type ProfileBackend interface {
	Profile(ctx context.Context) (model.UserProfile, error)
	UpdateProfile(ctx context.Context, p model.ProfileUpdate) (model.UserProfile, error)
}

// Persister stores the session subset across process restarts.
type Persister interface {
	Load(ctx context.Context) (model.Session, error)
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

// ExpiryFunc reports whether a persisted token is already expired.
type ExpiryFunc func(token string, now time.Time) bool

// Result is what auth actions return instead of an error.
type Result struct {
	Success bool
	Error   string
}

// AuthOption customizes an Auth store.
type AuthOption func(*Auth)

// WithPersister makes the store persist its session subset.
func WithPersister(p Persister) AuthOption { return func(a *Auth) { a.persist = p } }

// WithExpiry drops restored sessions whose token is expired.
func WithExpiry(f ExpiryFunc) AuthOption { return func(a *Auth) { a.expired = f } }

// WithAuthLogger sets the logger.
func WithAuthLogger(l *zap.Logger) AuthOption { return func(a *Auth) { a.log = l } }

// Auth caches the session and keeps it in sync with the backend.
type Auth struct {
	auth    AuthBackend
	users   ProfileBackend
	persist Persister
	expired ExpiryFunc
	log     *zap.Logger

	mu    sync.RWMutex
	state AuthState
	subs  hub[AuthState]

	// one writer at a time; dirty asks it to write the current session again
	pmu     sync.Mutex
	writing bool
	dirty   bool
}

// NewAuth constructs an anonymous auth store.
func NewAuth(auth AuthBackend, users ProfileBackend, opts ...AuthOption) *Auth {
	a := &Auth{auth: auth, users: users, log: zap.NewNop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// State returns a snapshot.
func (a *Auth) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Token returns the held bearer token or "".
func (a *Auth) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Token
}

// IsAuthenticated reports whether a session is held.
func (a *Auth) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.IsAuthenticated
}

// IsAdmin reports whether the cached user has the ADMIN role; false without a user.
func (a *Auth) IsAdmin() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return isAdmin(a.state)
}

// Subscribe delivers a snapshot after every change until ctx is done.
func (a *Auth) Subscribe(ctx context.Context) <-chan AuthState { return a.subs.subscribe(ctx) }

// apply runs a transition and reports the new state. When the persisted
// subset changed it is written through the persister.
func (a *Auth) apply(f func(AuthState) AuthState) AuthState {
	a.mu.Lock()
	before := a.state.Session
	a.state = f(a.state)
	after := a.state
	a.mu.Unlock()

	if sessionChanged(before, after.Session) {
		a.save()
	}
	a.subs.publish(after)
	return after
}

func sessionChanged(a, b model.Session) bool {
	return a.Token != b.Token || a.IsAuthenticated != b.IsAuthenticated || a.User != b.User
}

// save writes the current session. A change that lands while another
// goroutine is writing is picked up by that writer once its write returns,
// so the last write always reflects the latest in-memory session.
func (a *Auth) save() {
	if a.persist == nil {
		return
	}
	a.pmu.Lock()
	a.dirty = true
	if a.writing {
		a.pmu.Unlock()
		return
	}
	a.writing = true
	for a.dirty {
		a.dirty = false
		a.pmu.Unlock()
		a.write()
		a.pmu.Lock()
	}
	a.writing = false
	a.pmu.Unlock()
}

func (a *Auth) write() {
	a.mu.RLock()
	s := a.state.Session
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	var err error
	if s.IsAuthenticated {
		err = a.persist.Save(ctx, s)
	} else {
		err = a.persist.Clear(ctx)
	}
	if err != nil {
		a.log.Warn("persist session", zap.Error(err))
	}
}

// Restore loads the persisted session. A missing record or an expired
// token leaves the store anonymous.
func (a *Auth) Restore(ctx context.Context) error {
	if a.persist == nil {
		return nil
	}
	sess, err := a.persist.Load(ctx)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sess.Token != "" && a.expired != nil && a.expired(sess.Token, time.Now()) {
		a.log.Info("persisted session expired")
		a.apply(loggedOut)
		return a.persist.Clear(ctx)
	}
	a.mu.Lock()
	a.state = restored(sess)
	st := a.state
	a.mu.Unlock()
	a.subs.publish(st)
	return nil
}

// Login authenticates with credentials.
func (a *Auth) Login(ctx context.Context, cr model.Credentials) Result {
	a.apply(authStarted)
	resp, err := a.auth.Login(ctx, cr)
	return a.finishAuth(resp, err, "Login failed")
}

// Register creates an account; success signs it in like Login.
func (a *Auth) Register(ctx context.Context, r model.Registration) Result {
	a.apply(authStarted)
	resp, err := a.auth.Register(ctx, r)
	return a.finishAuth(resp, err, "Registration failed")
}

func (a *Auth) finishAuth(resp model.AuthResponse, err error, fallback string) Result {
	if err != nil {
		msg := errs.Message(err, fallback)
		a.apply(func(s AuthState) AuthState { return authFailed(s, msg) })
		return Result{Error: msg}
	}
	st := a.apply(func(s AuthState) AuthState { return authSucceeded(s, resp.User, resp.Token) })
	if st.Status != StatusAuthenticated {
		return Result{Error: st.Error}
	}
	return Result{Success: true}
}

// Logout clears the session. Safe to call in any state, any number of times.
func (a *Auth) Logout() {
	a.apply(loggedOut)
}

// UpdateProfile sends p and replaces the cached user with the server's copy.
func (a *Auth) UpdateProfile(ctx context.Context, p model.ProfileUpdate) Result {
	if a.Token() == "" {
		msg := errs.ErrNotAuthenticated.Error()
		a.apply(func(s AuthState) AuthState { return requestFailed(s, msg) })
		return Result{Error: msg}
	}
	a.apply(requestStarted)
	u, err := a.users.UpdateProfile(ctx, p)
	if err != nil {
		msg := errs.Message(err, "Update failed")
		a.apply(func(s AuthState) AuthState { return requestFailed(s, msg) })
		return Result{Error: msg}
	}
	a.apply(func(s AuthState) AuthState { return profileReplaced(s, &u) })
	return Result{Success: true}
}

// FetchProfile refreshes the cached user. Without a token it does nothing.
// Failures are logged only; an invalid session is handled by the 401 policy.
func (a *Auth) FetchProfile(ctx context.Context) {
	if a.Token() == "" {
		return
	}
	u, err := a.users.Profile(ctx)
	if err != nil {
		a.log.Warn("fetch profile", zap.Error(err))
		return
	}
	a.apply(func(s AuthState) AuthState {
		if !s.IsAuthenticated {
			return s
		}
		s.User = &u
		return s
	})
}

// Reset returns the store to its initial in-memory state without touching storage.
func (a *Auth) Reset() {
	a.mu.Lock()
	a.state = AuthState{}
	a.mu.Unlock()
	a.subs.publish(AuthState{})
}
