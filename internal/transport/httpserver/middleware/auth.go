package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"band-manager-go/internal/config"
	"band-manager-go/internal/domain/identity"
	"band-manager-go/pkg/logger"
)

// Authenticator verifies credentials and yields the caller's principal.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (identity.Principal, error)
}

type BasicAuth struct {
	auth     Authenticator
	log      logger.Logger
	skipAuth bool
	mock     identity.Principal
}

type contextKey int

const principalKey contextKey = iota

func NewBasicAuth(cfg config.AuthConfig, auth Authenticator, log logger.Logger) *BasicAuth {
	return &BasicAuth{
		auth:     auth,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mock: identity.Principal{
			UserID: strings.TrimSpace(cfg.MockUserID),
			Email:  strings.TrimSpace(cfg.MockUserEmail),
			Roles:  cfg.MockRoles,
		},
	}
}

func (a *BasicAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mock.UserID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			ctx := WithPrincipal(r.Context(), a.mock)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		email, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w)
			return
		}

		principal, err := a.auth.Authenticate(r.Context(), email, password)
		if err != nil {
			a.log.Debug("auth: authentication failed", "email", email)
			unauthorized(w)
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="band-manager"`)
	writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
}

func WithPrincipal(ctx context.Context, principal identity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	value := ctx.Value(principalKey)
	principal, ok := value.(identity.Principal)
	if !ok || principal.UserID == "" {
		return identity.Principal{}, false
	}
	return principal, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
