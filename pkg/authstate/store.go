package authstate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/authgate/pkg/profile"
)

// Store is the single authoritative, asynchronously-updated view of
// authentication and profile state. It subscribes to provider auth events
// and reconciles the local snapshot against every one of them.
//
// Construct one Store per application lifetime, call Init once at startup,
// and Close at shutdown to drop the provider subscription.
type Store struct {
	provider IdentityProvider
	profiles profile.Store
	usage    profile.UsageStore
	cfg      Config
	log      *slog.Logger

	mu          sync.RWMutex
	state       State
	creds       credentials
	subscribers map[int]func(State)
	nextSub     int
	unsubscribe func()
}

// credentials caches the last sign-in form input so the UI can rebind it;
// cleared on sign-out.
type credentials struct {
	email    string
	password string
}

// New creates a Store. Provider and profile store are required; a nil usage
// store is tolerated and reads as "no counter".
func New(provider IdentityProvider, profiles profile.Store, usage profile.UsageStore, opts ...Option) *Store {
	if provider == nil {
		panic("authstate: identity provider is required")
	}
	if profiles == nil {
		panic("authstate: profile store is required")
	}

	s := &Store{
		provider:    provider,
		profiles:    profiles,
		usage:       usage,
		cfg:         DefaultConfig(),
		log:         slog.Default(),
		subscribers: make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Init queries the provider for an existing session (restored from a prior
// context or a completed OAuth redirect), reconciles against the result,
// and registers the provider event subscription for the store's lifetime.
//
// Init fails soft: a provider error is recorded as an error Status and
// treated as "no session"; it is never returned to the caller.
func (s *Store) Init(ctx context.Context) {
	sess, err := s.provider.CurrentSession(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to restore session", "error", err)
		s.setStatus(StatusError, err.Error())
		sess = nil
	}

	s.reconcile(ctx, sess)

	unsub := s.provider.Subscribe(func(kind EventKind, eventSession *Session) {
		s.onProviderEvent(kind, eventSession)
	})

	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()
}

// onProviderEvent applies one reconcile per provider event. Every kind,
// including ones this package does not know about, triggers the same
// procedure against the event's session payload; sign-out reconciles
// against nil.
func (s *Store) onProviderEvent(kind EventKind, sess *Session) {
	ctx := context.Background()

	email := "no session"
	if sess != nil {
		email = sess.Email
	}
	s.log.DebugContext(ctx, "auth state changed", "event", string(kind), "subject", email)

	if kind == EventSignedOut {
		sess = nil
	}
	s.reconcile(ctx, sess)
}

// reconcile is the core procedure run on init and on every provider event.
// An absent session clears everything and terminates; a present session is
// installed with loading set, then profile resolution runs to completion.
func (s *Store) reconcile(ctx context.Context, sess *Session) {
	if sess == nil {
		s.swap(func(st State) State {
			st.Session = nil
			st.Profile = nil
			st.IsLoading = false
			return st
		})
		return
	}

	s.swap(func(st State) State {
		st.Session = sess
		st.IsLoading = true
		return st
	})

	s.resolveProfile(ctx, sess.UserID, sess.Email)
}

// SignIn delegates the credential check to the provider. Success is
// observed later through the event subscription, not this call; a provider
// error becomes an error Status and is never propagated.
func (s *Store) SignIn(ctx context.Context, email, password string) {
	s.mu.Lock()
	s.creds = credentials{email: email, password: password}
	s.mu.Unlock()

	s.ClearStatus()

	if err := s.provider.SignInWithPassword(ctx, email, password); err != nil {
		s.log.ErrorContext(ctx, "sign-in failed", "error", err)
		s.setStatus(StatusError, err.Error())
	}
}

// SignInWithOAuth initiates a redirect-based flow and returns the
// authorization URL to send the user agent to. Completion is observed
// asynchronously via Init or the event subscription once the browser
// returns. A provider error becomes an error Status and an empty URL.
func (s *Store) SignInWithOAuth(ctx context.Context, provider, redirectTo string) string {
	url, err := s.provider.SignInWithOAuth(ctx, provider, redirectTo)
	if err != nil {
		s.log.ErrorContext(ctx, "oauth sign-in failed", "provider", provider, "error", err)
		s.setStatus(StatusError, err.Error())
		return ""
	}
	return url
}

// SignUp registers a new account with the provider. On success it sets an
// informational Status prompting the user to confirm their email; on
// provider error it sets an error Status.
func (s *Store) SignUp(ctx context.Context, email, password string) {
	s.ClearStatus()

	if err := s.provider.SignUp(ctx, email, password, s.cfg.SignUpRedirectTo); err != nil {
		s.log.ErrorContext(ctx, "sign-up failed", "error", err)
		s.setStatus(StatusError, err.Error())
		return
	}

	s.setStatus(StatusInfo, "Please check your email to confirm your account")
}

// SignOut requests provider sign-out, then unconditionally clears the local
// session, profile, and cached credential input regardless of whether the
// provider call succeeded, so the UI never stays "logged in" after a
// user-initiated sign-out. Provider errors are logged, not returned.
func (s *Store) SignOut(ctx context.Context) {
	if err := s.provider.SignOut(ctx); err != nil {
		s.log.ErrorContext(ctx, "provider sign-out failed", "error", err)
	}

	s.mu.Lock()
	s.creds = credentials{}
	s.mu.Unlock()

	s.swap(func(st State) State {
		st.Session = nil
		st.Profile = nil
		st.IsLoading = false
		return st
	})
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Credentials returns the cached sign-in form input.
func (s *Store) Credentials() (email, password string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.email, s.creds.password
}

// ClearStatus drops the current user-facing status message.
func (s *Store) ClearStatus() {
	s.swap(func(st State) State {
		st.Status = nil
		return st
	})
}

// OnChange registers fn to be called with every new snapshot. The returned
// function removes the subscription. Every consuming component observes the
// same state through this mechanism; there is no per-consumer copy.
func (s *Store) OnChange(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close drops the provider subscription. The store remains readable.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// swap atomically replaces the state composite and notifies subscribers
// with the new snapshot outside the lock.
func (s *Store) swap(mut func(State) State) {
	s.mu.Lock()
	next := mut(s.state)
	s.state = next

	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) setStatus(kind StatusKind, message string) {
	s.swap(func(st State) State {
		st.Status = &Status{Kind: kind, Message: message}
		return st
	})
}
