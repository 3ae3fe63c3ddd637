package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
	"github.com/jrsteele09/go-identity-provider/identity"
	"github.com/jrsteele09/go-identity-provider/provider"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyIdentity stores the authenticated identity
	ContextKeyIdentity ContextKey = "identity"
)

// RefreshHeader is set on responses whose token verified but is due for a
// proactive refresh.
const RefreshHeader = "X-Token-Refresh"

// RequireAuth is middleware that authenticates a Bearer token through the
// verification pipeline and injects the resulting identity into the
// request context. A refresh-needed outcome still authenticates; it is
// surfaced to the client via the RefreshHeader.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, `{"error":"unauthorized","error_description":"Missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}

			var credential credentials.Credential
			if claims.IsOpaqueShape(token) {
				credential = credentials.BearerToken{Raw: token}
			} else {
				credential = credentials.AccessToken{Raw: token}
			}

			outcome, err := s.authProvider.Authenticate(r.Context(), &provider.Request{
				TenantID:   s.tenantID(r),
				Credential: credential,
				Scratch:    provider.NewScratch(),
			})
			if err != nil {
				log.Warn().Err(err).Msg("bearer token authentication failed")
				http.Error(w, `{"error":"unauthorized","error_description":"Invalid token"}`, http.StatusUnauthorized)
				return
			}

			if outcome.RefreshNeeded {
				w.Header().Set(RefreshHeader, "due")
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, outcome.Identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole is middleware that checks the authenticated identity carries
// a role. Must be chained after RequireAuth.
func (s *Server) RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			securityIdentity := IdentityFromContext(r.Context())
			if securityIdentity == nil || !securityIdentity.HasRole(role) {
				http.Error(w, `{"error":"forbidden","error_description":"Missing required role: `+role+`"}`, http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
}

// IdentityFromContext returns the identity injected by RequireAuth, or
// nil.
func IdentityFromContext(ctx context.Context) *identity.SecurityIdentity {
	securityIdentity, _ := ctx.Value(ContextKeyIdentity).(*identity.SecurityIdentity)
	return securityIdentity
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
