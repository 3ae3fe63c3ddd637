// Package verifier defines the boundary to the token-verifying client and
// the dispatcher that decides how a verification call may be executed.
package verifier

import (
	"context"

	"github.com/jrsteele09/go-identity-provider/claims"
)

// Result is the outcome of one token-verification call.
//
// LocalClaims is populated when the token was verified as a structured
// token (signature check, or the client's unsigned-decode fallback).
// Introspection is populated only when a remote introspection request was
// made. An opaque token yields absent claims with a present introspection;
// a structured token yields present claims.
type Result struct {
	LocalClaims   claims.Claims
	Introspection claims.Claims
}

// Client performs the actual cryptographic and remote verification work.
// Implementations may block on network I/O in VerifyToken and UserInfo;
// the Dispatcher is responsible for keeping such calls off non-blocking
// execution contexts.
type Client interface {
	// VerifyToken verifies a single token, remotely introspecting it when
	// it cannot be verified locally.
	VerifyToken(ctx context.Context, token string) (*Result, error)

	// UserInfo fetches the userinfo claims for the subject of an access
	// token.
	UserInfo(ctx context.Context, accessToken string) (claims.Claims, error)

	// ValidateWithoutServer verifies a structured token against the
	// tenant's configured public key, with no remote calls.
	ValidateWithoutServer(token string) (claims.Claims, error)
}
