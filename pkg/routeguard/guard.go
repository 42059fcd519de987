package routeguard

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/authgate/pkg/authstate"
	"github.com/dmitrymomot/authgate/pkg/statemachine"
)

// Gate phases. The gate is Waiting while auth state is loading and the wait
// bound has not expired; it is Settled once a render/redirect decision is
// safe to act on. Settled is re-entered as Waiting whenever loading starts
// again; this is not a one-shot gate.
const (
	StateWaiting statemachine.State = "waiting"
	StateSettled statemachine.State = "settled"
)

const (
	eventLoaded  statemachine.Event = "loaded"
	eventTimeout statemachine.Event = "timeout"
	eventReload  statemachine.Event = "reload"
)

// Guard decides, for the current path and auth snapshot, whether to render
// the requested content, redirect, or show a wait state. It observes the
// Store and never writes auth state back.
type Guard struct {
	store *authstate.Store
	cfg   Config
	log   *slog.Logger

	machine     *statemachine.Machine
	placeholder http.Handler

	mu          sync.Mutex
	timer       *time.Timer
	unsubscribe func()
}

// New creates a Guard observing the store. The guard starts in Waiting and
// settles as soon as the current snapshot is not loading, so constructing
// it after Init on an already-settled store yields immediate decisions.
func New(store *authstate.Store, opts ...Option) *Guard {
	if store == nil {
		panic("routeguard: auth store is required")
	}

	g := &Guard{
		store:   store,
		cfg:     DefaultConfig(),
		log:     slog.Default(),
		machine: statemachine.New(StateWaiting),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.placeholder == nil {
		g.placeholder = http.HandlerFunc(defaultPlaceholder)
	}

	g.machine.AddTransition(StateWaiting, StateSettled, eventLoaded, nil, nil)
	g.machine.AddTransition(StateWaiting, StateSettled, eventTimeout, nil, nil)
	g.machine.AddTransition(StateSettled, StateWaiting, eventReload, nil, nil)

	g.unsubscribe = store.OnChange(g.observe)
	g.observe(store.State())

	return g
}

// Decide computes the gate's verdict for the path against the current
// snapshot. A redirect decision does not change gate state; it is re-derived
// from the next computed path.
func (g *Guard) Decide(path string) Decision {
	st := g.store.State()

	// A settled gate evaluates with the wait budget spent, so a timer-forced
	// settle proceeds even though the snapshot still reports loading.
	elapsed := time.Duration(0)
	if g.machine.Current() == StateSettled {
		elapsed = g.cfg.WaitTimeout
	}

	return Evaluate(g.cfg, st, path, elapsed)
}

// Close stops the wait timer and drops the store subscription.
func (g *Guard) Close() {
	g.mu.Lock()
	g.stopTimerLocked()
	unsub := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// observe reacts to every auth snapshot replacement: loading re-enters
// Waiting and arms the wait timer; settled loading fires the transition to
// Settled and releases the timer.
func (g *Guard) observe(st authstate.State) {
	ctx := context.Background()

	g.mu.Lock()
	defer g.mu.Unlock()

	if st.IsLoading {
		if g.machine.Current() == StateSettled {
			_ = g.machine.Fire(ctx, eventReload)
		}
		g.armTimerLocked()
		return
	}

	if g.machine.Current() == StateWaiting {
		_ = g.machine.Fire(ctx, eventLoaded)
	}
	g.stopTimerLocked()
}

// armTimerLocked starts the wait timer if it is not already running.
// Standard scoped-timer discipline: acquired on entering Waiting, released
// on every exit path (settle, re-observe, Close, expiry).
func (g *Guard) armTimerLocked() {
	if g.timer != nil {
		return
	}
	g.timer = time.AfterFunc(g.cfg.WaitTimeout, g.onTimeout)
}

func (g *Guard) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// onTimeout forces the gate out of Waiting after the wait bound so a
// provider that never responds cannot wedge the gate forever.
func (g *Guard) onTimeout() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.timer = nil
	if g.machine.Current() != StateWaiting {
		return
	}

	g.log.Warn("auth loading timed out, proceeding with current state",
		"timeout", g.cfg.WaitTimeout)
	_ = g.machine.Fire(context.Background(), eventTimeout)
}

// Phase returns the gate's current phase (Waiting or Settled).
func (g *Guard) Phase() statemachine.State {
	return g.machine.Current()
}
