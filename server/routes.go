package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-identity-provider/identity"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /healthz", s.HealthHandler())
	s.RegisterRouteFunc("GET /whoami", ChainMiddleware(s.WhoAmIHandler(), append(s.APIMiddleware(), s.RequireAuth())...))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// WhoAmIHandler echoes the authenticated identity.
func (s *Server) WhoAmIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		securityIdentity := IdentityFromContext(r.Context())
		if securityIdentity == nil {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"principal": securityIdentity.Principal(),
			"roles":     securityIdentity.Roles(),
			"tenant":    securityIdentity.Attribute(identity.AttributeTenantID),
		})
	}
}
