// Package tenants holds the per-tenant verification configuration borrowed
// by the authentication pipeline for the duration of one attempt.
package tenants

import (
	"time"

	"github.com/jrsteele09/go-identity-provider/verifier"
)

// RoleSource selects which verified artifact supplies authorization roles.
type RoleSource string

const (
	// RoleSourceDefault takes roles from the primary token's claims.
	RoleSourceDefault RoleSource = ""
	// RoleSourceUserInfo takes roles from the userinfo response.
	RoleSourceUserInfo RoleSource = "userinfo"
	// RoleSourceAccessToken takes roles from the code-flow access token.
	RoleSourceAccessToken RoleSource = "accesstoken"
)

// Config is a tenant's verification configuration. It is shared read-only
// across concurrent authentication attempts and must not be mutated after
// registration.
type Config struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"` // OAuth2 issuer URL (e.g., "https://tenant-a.auth.example.com")

	// PublicKey is a PEM-encoded verification key. When set, tokens are
	// verified locally and no server-assisted features apply.
	PublicKey string `json:"public_key,omitempty"`

	// VerifyAccessToken requires the code-flow access token accompanying
	// an ID token to be verified as well.
	VerifyAccessToken bool `json:"verify_access_token"`

	// RolesSource picks the roles artifact; see RoleSource values.
	RolesSource RoleSource `json:"roles_source,omitempty"`

	// UserInfoRequired fetches userinfo claims during authentication.
	UserInfoRequired bool `json:"user_info_required"`

	// RequiredTokenType, when set, must match the primary token's typ
	// claim.
	RequiredTokenType string `json:"required_token_type,omitempty"`

	// RefreshExpired enables proactive refresh signalling for tokens
	// close to expiry.
	RefreshExpired bool `json:"refresh_expired"`

	// RefreshTokenTimeSkew is the explicit margin before expiry at which
	// a token is treated as due for refresh. Zero means unset.
	RefreshTokenTimeSkew time.Duration `json:"refresh_token_time_skew,omitempty"`

	// AutoRefreshInterval is the fallback margin used when no explicit
	// skew is configured. Zero means unset.
	AutoRefreshInterval time.Duration `json:"auto_refresh_interval,omitempty"`
}

// LocalVerificationConfigured reports whether the tenant verifies tokens
// with a local public key only.
func (c Config) LocalVerificationConfigured() bool {
	return c.PublicKey != ""
}

// RefreshSkew returns the margin used by refresh-due detection: the
// explicit skew when configured, otherwise the auto-refresh interval. The
// second return value is false when neither is configured.
func (c Config) RefreshSkew() (time.Duration, bool) {
	if c.RefreshTokenTimeSkew > 0 {
		return c.RefreshTokenTimeSkew, true
	}
	if c.AutoRefreshInterval > 0 {
		return c.AutoRefreshInterval, true
	}
	return 0, false
}

// Context pairs a tenant's configuration with the verifying client bound
// to that tenant's endpoints and keys.
type Context struct {
	Config Config
	Client verifier.Client
}
