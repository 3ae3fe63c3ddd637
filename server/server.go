// Package server exposes a minimal resource server protected by the
// bearer-token authentication pipeline.
package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-provider/internal/config"
	"github.com/jrsteele09/go-identity-provider/provider"
)

type Server struct {
	env             string // Environment (e.g., "development", "production")
	mux             *http.ServeMux
	routes          []string
	config          config.Config
	authProvider    *provider.Provider
	defaultTenantID string
}

func New(cfg config.Config, authProvider *provider.Provider) (*Server, error) {
	if authProvider == nil {
		return nil, errors.New("[server.New] auth provider is required")
	}

	s := &Server{
		mux:             http.NewServeMux(),
		config:          cfg,
		authProvider:    authProvider,
		defaultTenantID: cfg.GetTenantID(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered route")
	}
}

// tenantID picks the tenant for a request: an explicit X-Tenant-ID header
// wins, otherwise the configured default.
func (s *Server) tenantID(r *http.Request) string {
	if tenantID := r.Header.Get("X-Tenant-ID"); tenantID != "" {
		return tenantID
	}
	return s.defaultTenantID
}
