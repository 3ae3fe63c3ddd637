// Package credentials defines the bearer credential kinds accepted by the
// authentication pipeline. The kind of credential drives several branch
// points during verification, so it is modelled as a closed union rather
// than string tags scattered through the code.
package credentials

// Credential is a raw bearer credential extracted from an incoming request.
// Implementations are immutable value types; the pipeline never mutates a
// credential after it has been received.
type Credential interface {
	// Token returns the raw token string as it arrived on the wire.
	Token() string

	credential()
}

// IDToken is an OIDC ID token obtained through an authorization code flow.
type IDToken struct {
	Raw string
}

// AccessToken is an OAuth2 access token presented as a bearer credential.
// Opaque marks tokens known ahead of verification to have no locally
// decodable structure.
type AccessToken struct {
	Raw    string
	Opaque bool
}

// BearerToken is an opaque bearer token of unknown provenance.
type BearerToken struct {
	Raw string
}

func (c IDToken) Token() string     { return c.Raw }
func (c AccessToken) Token() string { return c.Raw }
func (c BearerToken) Token() string { return c.Raw }

func (IDToken) credential()     {}
func (AccessToken) credential() {}
func (BearerToken) credential() {}

// OpaqueEligible reports whether a credential kind is allowed to fall back
// to a degraded, introspection-only identity when no structured claims can
// be recovered from the token. Only opaque access tokens and plain bearer
// tokens qualify; an ID token (or a structured access token) without
// decodable claims is a hard failure.
func OpaqueEligible(c Credential) bool {
	switch cred := c.(type) {
	case IDToken:
		return false
	case AccessToken:
		return cred.Opaque
	case BearerToken:
		return true
	default:
		return false
	}
}
