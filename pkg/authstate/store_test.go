package authstate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/authstate"
	"github.com/dmitrymomot/authgate/pkg/profile"
)

// stubProvider is a controllable IdentityProvider for error injection.
type stubProvider struct {
	mu       sync.Mutex
	session  *authstate.Session
	initErr  error
	signIn   error
	signUp   error
	signOut  error
	oauthURL string
	oauthErr error
	handlers []authstate.EventHandler

	signOutCalls int
}

func (p *stubProvider) CurrentSession(ctx context.Context) (*authstate.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, p.initErr
}

func (p *stubProvider) SignInWithPassword(ctx context.Context, email, password string) error {
	return p.signIn
}

func (p *stubProvider) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return p.oauthURL, p.oauthErr
}

func (p *stubProvider) SignUp(ctx context.Context, email, password, redirectTo string) error {
	return p.signUp
}

func (p *stubProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.signOutCalls++
	p.mu.Unlock()
	return p.signOut
}

func (p *stubProvider) Subscribe(handler authstate.EventHandler) func() {
	p.mu.Lock()
	p.handlers = append(p.handlers, handler)
	p.mu.Unlock()
	return func() {}
}

func (p *stubProvider) emit(kind authstate.EventKind, sess *authstate.Session) {
	p.mu.Lock()
	handlers := append([]authstate.EventHandler(nil), p.handlers...)
	p.mu.Unlock()
	for _, h := range handlers {
		h(kind, sess)
	}
}

func testSession() *authstate.Session {
	return &authstate.Session{
		UserID:      uuid.New(),
		Email:       "jane@example.com",
		AccessToken: "opaque-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func seededStore(t *testing.T, sess *authstate.Session) (*authstate.Store, *stubProvider, *profile.MemoryStore) {
	t.Helper()

	provider := &stubProvider{session: sess}
	profiles := profile.NewMemoryStore()
	if sess != nil {
		profiles.Put(profile.Record{UserID: sess.UserID, Name: "Jane", Plan: profile.PlanPro})
	}

	store := authstate.New(provider, profiles, profiles,
		authstate.WithRetryBackoff(time.Millisecond),
	)
	t.Cleanup(store.Close)

	return store, provider, profiles
}

func TestStore_Init(t *testing.T) {
	t.Parallel()

	t.Run("restores existing session and resolves profile", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, _, profiles := seededStore(t, sess)
		_, err := profiles.IncrementUsage(context.Background(), sess.UserID, profile.CurrentYearMonth(), 7)
		require.NoError(t, err)

		store.Init(context.Background())

		st := store.State()
		assert.True(t, st.IsAuthenticated())
		assert.False(t, st.IsLoading)
		require.NotNil(t, st.Profile)
		assert.Equal(t, sess.UserID, st.Profile.UserID)
		assert.Equal(t, "Jane", st.Profile.Name)
		assert.Equal(t, profile.PlanPro, st.Profile.Plan)
		assert.Equal(t, "jane@example.com", st.Profile.Email)
		assert.EqualValues(t, 7, st.Profile.TasksCreated)
		assert.False(t, st.Profile.Degraded())
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()

		store, _, _ := seededStore(t, nil)
		store.Init(context.Background())

		st := store.State()
		assert.False(t, st.IsAuthenticated())
		assert.Nil(t, st.Profile)
		assert.False(t, st.IsLoading)
		assert.Nil(t, st.Status)
	})

	t.Run("provider error fails soft", func(t *testing.T) {
		t.Parallel()

		store, provider, _ := seededStore(t, testSession())
		provider.initErr = errors.New("provider unreachable")

		store.Init(context.Background())

		st := store.State()
		assert.False(t, st.IsAuthenticated())
		assert.Nil(t, st.Profile)
		assert.False(t, st.IsLoading)
		require.NotNil(t, st.Status)
		assert.Equal(t, authstate.StatusError, st.Status.Kind)
		assert.Contains(t, st.Status.Message, "provider unreachable")
	})
}

func TestStore_ProviderEvents(t *testing.T) {
	t.Parallel()

	t.Run("signed_in establishes state", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, provider, _ := seededStore(t, nil)
		store.Init(context.Background())

		provider.emit(authstate.EventSignedIn, sess)

		st := store.State()
		assert.True(t, st.IsAuthenticated())
		require.NotNil(t, st.Profile)
		assert.Equal(t, sess.UserID, st.Profile.UserID)
	})

	t.Run("signed_out clears even with a session payload", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, provider, _ := seededStore(t, sess)
		store.Init(context.Background())
		require.True(t, store.State().IsAuthenticated())

		provider.emit(authstate.EventSignedOut, sess)

		st := store.State()
		assert.False(t, st.IsAuthenticated())
		assert.Nil(t, st.Profile)
		assert.False(t, st.IsLoading)
	})

	t.Run("unknown event kinds refresh uniformly", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, provider, profiles := seededStore(t, nil)
		profiles.Put(profile.Record{UserID: sess.UserID, Name: "Jane", Plan: profile.PlanFree})
		store.Init(context.Background())

		provider.emit(authstate.EventKind("mfa_challenge_verified"), sess)
		assert.True(t, store.State().IsAuthenticated())

		provider.emit(authstate.EventKind("mystery"), nil)
		assert.False(t, store.State().IsAuthenticated())
	})

	t.Run("reconciling the same session twice is idempotent", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, provider, _ := seededStore(t, nil)
		store.Init(context.Background())

		provider.emit(authstate.EventSignedIn, sess)
		first := store.State()

		provider.emit(authstate.EventTokenRefreshed, sess)
		second := store.State()

		assert.Equal(t, first.Session, second.Session)
		assert.Equal(t, first.Profile, second.Profile)
		assert.Equal(t, first.IsLoading, second.IsLoading)
	})
}

func TestStore_SignIn(t *testing.T) {
	t.Parallel()

	t.Run("provider error becomes an error status", func(t *testing.T) {
		t.Parallel()

		store, provider, _ := seededStore(t, nil)
		store.Init(context.Background())
		provider.signIn = errors.New("invalid credentials")

		store.SignIn(context.Background(), "jane@example.com", "nope")

		st := store.State()
		require.NotNil(t, st.Status)
		assert.Equal(t, authstate.StatusError, st.Status.Kind)
		assert.Equal(t, "invalid credentials", st.Status.Message)
		assert.False(t, st.IsAuthenticated())
	})

	t.Run("success is observed via the event, not the call", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, provider, _ := seededStore(t, nil)
		store.Init(context.Background())

		store.SignIn(context.Background(), sess.Email, "correct horse")
		assert.False(t, store.State().IsAuthenticated(), "sign-in call alone must not mutate auth state")

		provider.emit(authstate.EventSignedIn, sess)
		assert.True(t, store.State().IsAuthenticated())
	})

	t.Run("caches credential input", func(t *testing.T) {
		t.Parallel()

		store, _, _ := seededStore(t, nil)
		store.Init(context.Background())

		store.SignIn(context.Background(), "jane@example.com", "hunter22")
		email, password := store.Credentials()
		assert.Equal(t, "jane@example.com", email)
		assert.Equal(t, "hunter22", password)
	})
}

func TestStore_SignUp(t *testing.T) {
	t.Parallel()

	t.Run("success sets informational status", func(t *testing.T) {
		t.Parallel()

		store, _, _ := seededStore(t, nil)
		store.Init(context.Background())

		store.SignUp(context.Background(), "new@example.com", "hunter22hunter22")

		st := store.State()
		require.NotNil(t, st.Status)
		assert.Equal(t, authstate.StatusInfo, st.Status.Kind)
		assert.Contains(t, st.Status.Message, "check your email")
	})

	t.Run("provider error sets error status", func(t *testing.T) {
		t.Parallel()

		store, provider, _ := seededStore(t, nil)
		store.Init(context.Background())
		provider.signUp = errors.New("email already exists")

		store.SignUp(context.Background(), "new@example.com", "hunter22hunter22")

		st := store.State()
		require.NotNil(t, st.Status)
		assert.Equal(t, authstate.StatusError, st.Status.Kind)
	})
}

func TestStore_SignOut(t *testing.T) {
	t.Parallel()

	t.Run("clears state unconditionally when provider fails", func(t *testing.T) {
		t.Parallel()

		sess := testSession()
		store, provider, _ := seededStore(t, sess)
		store.Init(context.Background())
		require.True(t, store.State().IsAuthenticated())

		provider.signOut = errors.New("network down")
		store.SignIn(context.Background(), sess.Email, "pw")
		store.SignOut(context.Background())

		st := store.State()
		assert.False(t, st.IsAuthenticated())
		assert.Nil(t, st.Profile)
		assert.False(t, st.IsLoading)
		assert.Equal(t, 1, provider.signOutCalls)

		email, password := store.Credentials()
		assert.Empty(t, email)
		assert.Empty(t, password)
	})
}

func TestStore_SignInWithOAuth(t *testing.T) {
	t.Parallel()

	t.Run("returns authorization URL", func(t *testing.T) {
		t.Parallel()

		store, provider, _ := seededStore(t, nil)
		provider.oauthURL = "https://accounts.example.com/authorize?state=x"
		store.Init(context.Background())

		url := store.SignInWithOAuth(context.Background(), "google", "/dashboard")
		assert.Equal(t, provider.oauthURL, url)
		assert.Nil(t, store.State().Status)
	})

	t.Run("provider error sets error status and empty URL", func(t *testing.T) {
		t.Parallel()

		store, provider, _ := seededStore(t, nil)
		provider.oauthErr = errors.New("unknown provider")
		store.Init(context.Background())

		url := store.SignInWithOAuth(context.Background(), "myspace", "/dashboard")
		assert.Empty(t, url)
		require.NotNil(t, store.State().Status)
		assert.Equal(t, authstate.StatusError, store.State().Status.Kind)
	})
}

func TestStore_OnChange(t *testing.T) {
	t.Parallel()

	sess := testSession()
	store, provider, _ := seededStore(t, nil)
	store.Init(context.Background())

	var mu sync.Mutex
	var snapshots []authstate.State
	stop := store.OnChange(func(st authstate.State) {
		mu.Lock()
		snapshots = append(snapshots, st)
		mu.Unlock()
	})

	provider.emit(authstate.EventSignedIn, sess)

	mu.Lock()
	count := len(snapshots)
	last := snapshots[count-1]
	mu.Unlock()

	// One snapshot for the loading transition, one for the resolved profile.
	require.GreaterOrEqual(t, count, 2)
	assert.True(t, last.IsAuthenticated())
	assert.False(t, last.IsLoading)

	stop()
	provider.emit(authstate.EventSignedOut, nil)

	mu.Lock()
	assert.Equal(t, count, len(snapshots), "unsubscribed observer must not be notified")
	mu.Unlock()
}
