package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authgate/pkg/authstate"
)

// LocalConfig holds settings for the in-process identity provider.
type LocalConfig struct {
	SessionTTL time.Duration `env:"IDENTITY_SESSION_TTL" envDefault:"24h"`
	StateTTL   time.Duration `env:"IDENTITY_OAUTH_STATE_TTL" envDefault:"10m"`
	BcryptCost int           `env:"IDENTITY_BCRYPT_COST" envDefault:"10"`
}

// DefaultLocalConfig returns default provider settings.
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		SessionTTL: 24 * time.Hour,
		StateTTL:   10 * time.Minute,
		BcryptCost: bcrypt.DefaultCost,
	}
}

type account struct {
	id        uuid.UUID
	email     string
	hash      []byte
	confirmed bool
}

type oauthState struct {
	provider   string
	redirectTo string
	expiresAt  time.Time
}

// LocalProvider is an in-process authstate.IdentityProvider: bcrypt-checked
// password accounts, OAuth completion through pluggable adapters, and
// subscriber notification on every session change. It backs tests and
// single-node deployments that do not use a hosted identity service.
type LocalProvider struct {
	cfg      LocalConfig
	adapters map[string]OAuthAdapter

	mu       sync.RWMutex
	accounts map[string]*account // keyed by normalized email
	current  *authstate.Session
	states   map[string]oauthState
	handlers map[int]authstate.EventHandler
	nextSub  int
}

// NewLocalProvider creates an empty local provider with the given OAuth adapters.
func NewLocalProvider(cfg LocalConfig, adapters ...OAuthAdapter) *LocalProvider {
	byID := make(map[string]OAuthAdapter, len(adapters))
	for _, a := range adapters {
		byID[a.ProviderID()] = a
	}

	return &LocalProvider{
		cfg:      cfg,
		adapters: byID,
		accounts: make(map[string]*account),
		states:   make(map[string]oauthState),
		handlers: make(map[int]authstate.EventHandler),
	}
}

// CurrentSession returns the active session, or nil when none exists.
func (p *LocalProvider) CurrentSession(ctx context.Context) (*authstate.Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current != nil && time.Now().After(p.current.ExpiresAt) {
		return nil, nil
	}
	return p.current, nil
}

// SignInWithPassword checks the credentials and, on success, establishes a
// session and notifies subscribers with a signed_in event.
func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) error {
	p.mu.Lock()

	acc, ok := p.accounts[normalizeEmail(email)]
	if !ok {
		p.mu.Unlock()
		// Same error as a wrong password so callers cannot probe for accounts.
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		p.mu.Unlock()
		return ErrInvalidCredentials
	}
	if !acc.confirmed {
		p.mu.Unlock()
		return ErrEmailNotConfirmed
	}

	sess, err := p.establishLocked(acc)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	handlers := p.handlersLocked()
	p.mu.Unlock()

	notify(handlers, authstate.EventSignedIn, sess)
	return nil
}

// SignInWithOAuth stores a CSRF state token and returns the provider's
// authorization URL. The flow completes in CompleteOAuth after the browser
// returns with a code.
func (p *LocalProvider) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	adapter, ok := p.adapters[provider]
	if !ok {
		return "", ErrUnknownOAuthProvider
	}

	state, err := generateToken()
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.states[state] = oauthState{
		provider:   provider,
		redirectTo: redirectTo,
		expiresAt:  time.Now().Add(p.cfg.StateTTL),
	}
	p.mu.Unlock()

	return adapter.AuthURL(state)
}

// CompleteOAuth consumes the state token, resolves the subject profile from
// the provider, creates the account on first sign-in, and establishes a
// session. Returns the post-login redirect target recorded with the state.
func (p *LocalProvider) CompleteOAuth(ctx context.Context, code, state string) (string, error) {
	p.mu.Lock()
	st, ok := p.states[state]
	delete(p.states, state) // single use
	p.mu.Unlock()

	if !ok || time.Now().After(st.expiresAt) {
		return "", ErrInvalidState
	}

	adapter := p.adapters[st.provider]
	prof, err := adapter.ResolveProfile(ctx, code)
	if err != nil {
		return "", err
	}
	if !prof.EmailVerified {
		return "", ErrUnverifiedEmail
	}

	p.mu.Lock()
	key := normalizeEmail(prof.Email)
	acc, ok := p.accounts[key]
	if !ok {
		acc = &account{id: uuid.New(), email: prof.Email, confirmed: true}
		p.accounts[key] = acc
	}
	acc.confirmed = true

	sess, err := p.establishLocked(acc)
	if err != nil {
		p.mu.Unlock()
		return "", err
	}
	handlers := p.handlersLocked()
	p.mu.Unlock()

	notify(handlers, authstate.EventSignedIn, sess)
	return st.redirectTo, nil
}

// SignUp registers an unconfirmed account. The account cannot sign in until
// ConfirmEmail is called, mirroring the email confirmation round-trip.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, redirectTo string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := normalizeEmail(email)
	if _, exists := p.accounts[key]; exists {
		return ErrEmailAlreadyExists
	}

	p.accounts[key] = &account{id: uuid.New(), email: email, hash: hash}
	return nil
}

// ConfirmEmail marks the account as confirmed, as the emailed link would.
func (p *LocalProvider) ConfirmEmail(email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[normalizeEmail(email)]
	if !ok {
		return ErrUserNotFound
	}
	acc.confirmed = true
	return nil
}

// SignOut invalidates the current session and notifies subscribers.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	handlers := p.handlersLocked()
	p.mu.Unlock()

	notify(handlers, authstate.EventSignedOut, nil)
	return nil
}

// Subscribe registers a handler for session change events.
func (p *LocalProvider) Subscribe(handler authstate.EventHandler) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

func (p *LocalProvider) establishLocked(acc *account) (*authstate.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sess := &authstate.Session{
		UserID:      acc.id,
		Email:       acc.email,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(p.cfg.SessionTTL),
	}
	p.current = sess
	return sess, nil
}

func (p *LocalProvider) handlersLocked() []authstate.EventHandler {
	out := make([]authstate.EventHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		out = append(out, h)
	}
	return out
}

func notify(handlers []authstate.EventHandler, kind authstate.EventKind, sess *authstate.Session) {
	for _, h := range handlers {
		h(kind, sess)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateToken creates a cryptographically secure opaque token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(errors.New("identity: token generation failed"), err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

var _ authstate.IdentityProvider = (*LocalProvider)(nil)
