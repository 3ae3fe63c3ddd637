package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/tenants"
)

func refreshConfig() tenants.Config {
	return tenants.Config{
		RefreshExpired:       true,
		RefreshTokenTimeSkew: 300 * time.Second,
	}
}

func expiringClaims(expiry int64) claims.Claims {
	return claims.Claims{"exp": float64(expiry)}
}

func TestDueForRefresh(t *testing.T) {
	// now + skew (1000 + 300) passes expiry 1100.
	require.True(t, dueForRefresh(expiringClaims(1100), NewScratch(), refreshConfig(), 1000))
}

func TestDueForRefreshExactBoundary(t *testing.T) {
	// now + skew == expiry is not yet due; the check is strictly greater.
	require.False(t, dueForRefresh(expiringClaims(1300), NewScratch(), refreshConfig(), 1000))
}

func TestNotDueWithoutClaims(t *testing.T) {
	require.False(t, dueForRefresh(nil, NewScratch(), refreshConfig(), 1000))
}

func TestNotDueWhenRefreshDisabled(t *testing.T) {
	cfg := refreshConfig()
	cfg.RefreshExpired = false
	require.False(t, dueForRefresh(expiringClaims(1100), NewScratch(), cfg, 1000))
}

func TestNotDueWithoutSkewOrInterval(t *testing.T) {
	cfg := tenants.Config{RefreshExpired: true}
	require.False(t, dueForRefresh(expiringClaims(0), NewScratch(), cfg, 1000))
}

func TestAutoRefreshIntervalUsedAsFallbackSkew(t *testing.T) {
	cfg := tenants.Config{
		RefreshExpired:      true,
		AutoRefreshInterval: 300 * time.Second,
	}
	require.True(t, dueForRefresh(expiringClaims(1100), NewScratch(), cfg, 1000))
}

func TestNotDueForRefreshGrantResponse(t *testing.T) {
	scratch := NewScratch()
	scratch.RefreshGrantResponse = true
	require.False(t, dueForRefresh(expiringClaims(0), scratch, refreshConfig(), 1000))
}

func TestNotDueForNewAuthentication(t *testing.T) {
	scratch := NewScratch()
	scratch.NewAuthentication = true
	require.False(t, dueForRefresh(expiringClaims(0), scratch, refreshConfig(), 1000))
}

func TestNotDueWithoutExpiryClaim(t *testing.T) {
	require.False(t, dueForRefresh(claims.Claims{"sub": "x"}, NewScratch(), refreshConfig(), 1000))
}
