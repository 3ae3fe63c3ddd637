package provider

import (
	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/tenants"
)

// dueForRefresh decides whether a successfully verified token should
// produce a refresh-needed outcome. Pure and deterministic: the clock is
// the explicit nowSeconds input.
//
// A token is due only when the tenant enables refresh of expiring tokens,
// a skew (explicit or the auto-refresh interval) is configured, the token
// was neither produced by a just-completed refresh grant nor minted during
// this attempt, and now + skew passes the token's expiry.
func dueForRefresh(tokenClaims claims.Claims, scratch *Scratch, cfg tenants.Config, nowSeconds int64) bool {
	if tokenClaims == nil || !cfg.RefreshExpired {
		return false
	}
	skew, ok := cfg.RefreshSkew()
	if !ok {
		return false
	}
	if scratch.RefreshGrantResponse || scratch.NewAuthentication {
		return false
	}
	expiry, ok := tokenClaims.Expiry()
	if !ok {
		return false
	}
	return nowSeconds+int64(skew.Seconds()) > expiry
}
