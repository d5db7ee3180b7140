package http

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/profile"
	"golang.org/x/time/rate"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const profileKey contextKey = "profile"

// requestLogger logs every incoming request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		next.ServeHTTP(w, r)
	})
}

// authMiddleware resolves a bearer token into the owning profile and puts it
// on the request context. Requests without a valid token pass through
// unauthenticated; requireAuth decides whether that is acceptable.
func (s *Server) authMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				p, err := s.Profiles.GetByAPIToken(r.Context(), token)
				if err == nil {
					ctx := context.WithValue(r.Context(), profileKey, p)
					r = r.WithContext(ctx)
				} else if err != profile.ErrNotFound {
					log.Error("Failed to resolve API token", "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth rejects unauthenticated requests with a 401.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if profileFromContext(r) == nil {
			respondDetail(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// profileFromContext is a helper to safely retrieve the authenticated
// profile from the request context.
func profileFromContext(r *http.Request) *profile.Profile {
	p, ok := r.Context().Value(profileKey).(*profile.Profile)
	if !ok {
		return nil
	}
	return p
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// throttle is the per-profile quota bucket for score submissions. It is a
// distinct, stricter scope than general API traffic.
type throttle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newThrottle(perMinute, burst int) *throttle {
	if perMinute <= 0 {
		perMinute = 12
	}
	if burst <= 0 {
		burst = 1
	}
	return &throttle{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (t *throttle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.limiters[key]
	if !ok {
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = l
	}
	return l
}

func (t *throttle) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if p := profileFromContext(r); p != nil {
			key = p.ID
		}
		if !t.limiter(key).Allow() {
			respondDetail(w, http.StatusTooManyRequests, "Request was throttled.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
