package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"linguaspeak/internal/models"
	"linguaspeak/internal/security"
	"linguaspeak/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
	log         *zap.Logger
}

// NewMiddleware creates a new middleware instance. limiter may be nil.
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter, log *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
		log:         log,
	}
}

// RequireAuth is middleware that requires a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, m.log, http.StatusUnauthorized, ErrAccessTokenRequired, "", nil)
			return
		}

		user, err := m.authService.Authenticate(r.Context(), token)
		switch {
		case errors.Is(err, security.ErrInvalidToken):
			respondWithError(w, m.log, http.StatusForbidden, ErrInvalidToken, "", nil)
			return
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, m.log, http.StatusNotFound, ErrUserNotFound, "", nil)
			return
		case err != nil:
			respondWithError(w, m.log, http.StatusInternalServerError, ErrInternalServerError, "authentication failed", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next(w, r)
			return
		}
		if ok, wait := m.limiter.Allow(security.GetClientIP(r)); !ok {
			seconds := int(math.Ceil(wait.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
			respondWithError(w, m.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
