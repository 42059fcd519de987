package routeguard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authgate/pkg/authstate"
)

// Middleware enforces the gate's decision per request. Redirects use
// 303 See Other to mirror history-replacing client navigation; an unsettled
// gate serves the wait placeholder so protected content never flashes
// before the redirect decision is made. Rendered requests carry the auth
// snapshot in the request context.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch d := g.Decide(r.URL.Path); d.Kind {
		case DecisionRedirect:
			http.Redirect(w, r, d.Path, http.StatusSeeOther)
		case DecisionWait:
			g.placeholder.ServeHTTP(w, r)
		default:
			ctx := authstate.WithState(r.Context(), g.store.State())
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

// Routes returns a chi router with the guard applied to every path and the
// application handler mounted at the root.
func (g *Guard) Routes(app http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(g.Middleware)
	r.Handle("/*", app)
	return r
}

// defaultPlaceholder is the wait indicator served while the gate has not
// settled. Retry-After hints pollers to come back shortly.
func defaultPlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>Loading</title><p>Loading&hellip;</p>"))
}
