package provider

import (
	"github.com/google/uuid"

	"github.com/jrsteele09/go-identity-provider/verifier"
)

// Scratch is the per-attempt mutable state threaded through one
// authentication attempt. It is created when the attempt starts, discarded
// when it ends, and never shared across attempts or tenants.
type Scratch struct {
	// AttemptID correlates log events for one attempt.
	AttemptID string

	// CodeFlowAccessToken is the raw access token obtained alongside an
	// ID token during the authorization code flow. Populated by the
	// transport layer before authentication starts.
	CodeFlowAccessToken string

	// CodeFlowResult is the verification result of CodeFlowAccessToken,
	// stashed by the orchestrator for role resolution.
	CodeFlowResult *verifier.Result

	// RefreshGrantResponse marks tokens produced by a just-completed
	// refresh grant; such tokens are never immediately re-flagged for
	// refresh.
	RefreshGrantResponse bool

	// NewAuthentication marks tokens minted during this very
	// authentication attempt; same refresh suppression applies.
	NewAuthentication bool

	results map[string]*verifier.Result
}

// NewScratch creates the scratch state for one authentication attempt.
func NewScratch() *Scratch {
	return &Scratch{
		AttemptID: uuid.New().String(),
		results:   make(map[string]*verifier.Result),
	}
}

// result returns the memoized verification result for a raw token string.
func (s *Scratch) result(token string) (*verifier.Result, bool) {
	r, ok := s.results[token]
	return r, ok
}

// storeResult memoizes a verification result so the same raw token string
// is never verified twice within one attempt.
func (s *Scratch) storeResult(token string, result *verifier.Result) {
	if s.results == nil {
		s.results = make(map[string]*verifier.Result)
	}
	s.results[token] = result
}
