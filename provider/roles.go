package provider

import (
	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
	"github.com/jrsteele09/go-identity-provider/tenants"
)

// resolveRolesSource picks the claims artifact that supplies authorization
// roles, per tenant configuration. Pure: identical inputs yield identical
// output.
//
// The accesstoken source only applies to ID-token credentials; the roles
// then come from the stashed code-flow access token's verified claims,
// falling back to an unsigned decode of the raw access token when the
// verified claims are absent (opaque access token, or a JWKS key id not
// resolved yet with introspection having succeeded). Every other
// combination returns the primary claims unchanged.
func resolveRolesSource(cfg tenants.Config, credential credentials.Credential, scratch *Scratch,
	primaryClaims, userInfo claims.Claims) claims.Claims {
	switch cfg.RolesSource {
	case tenants.RoleSourceUserInfo:
		return userInfo
	case tenants.RoleSourceAccessToken:
		if _, ok := credential.(credentials.IDToken); !ok {
			return primaryClaims
		}
		if scratch.CodeFlowResult != nil && scratch.CodeFlowResult.LocalClaims != nil {
			return scratch.CodeFlowResult.LocalClaims
		}
		return claims.DecodeUnsigned(scratch.CodeFlowAccessToken)
	default:
		return primaryClaims
	}
}
