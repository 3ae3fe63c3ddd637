package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
	"github.com/jrsteele09/go-identity-provider/identity"
)

func TestFromIntrospection(t *testing.T) {
	credential := credentials.BearerToken{Raw: "opaque-token"}
	introspection := claims.Claims{"active": true, "username": "alice", "scope": "read write"}

	securityIdentity := identity.FromIntrospection(credential, introspection, nil, "tenant-1", true)
	require.Equal(t, "alice", securityIdentity.Principal())
	require.Equal(t, []string{"read", "write"}, securityIdentity.Roles())
	require.Equal(t, credential, securityIdentity.Credential())
	require.Equal(t, "tenant-1", securityIdentity.Attribute(identity.AttributeTenantID))
	require.Equal(t, true, securityIdentity.Attribute(identity.AttributeBlockingExecution))
}

func TestFromIntrospectionWithoutUsernameOrScope(t *testing.T) {
	credential := credentials.BearerToken{Raw: "opaque-token"}

	securityIdentity := identity.FromIntrospection(credential, claims.Claims{"active": true}, nil, "tenant-1", false)
	require.Empty(t, securityIdentity.Principal())
	require.Empty(t, securityIdentity.Roles())
	require.Equal(t, credential, securityIdentity.Credential())
	require.Equal(t, "tenant-1", securityIdentity.Attribute(identity.AttributeTenantID))
	require.Equal(t, false, securityIdentity.Attribute(identity.AttributeBlockingExecution))
}

func TestFromIntrospectionMergesUserInfoRoles(t *testing.T) {
	credential := credentials.BearerToken{Raw: "opaque-token"}
	introspection := claims.Claims{"active": true, "scope": "read"}
	userInfo := claims.Claims{"roles": []any{"auditor"}}

	securityIdentity := identity.FromIntrospection(credential, introspection, userInfo, "tenant-1", true)
	require.Equal(t, []string{"auditor", "read"}, securityIdentity.Roles())
	require.Equal(t, userInfo, securityIdentity.UserInfo())
}

func TestFromClaimsAttachesPipelineAttributes(t *testing.T) {
	credential := credentials.IDToken{Raw: "a.b.c"}
	tokenClaims := claims.Claims{"preferred_username": "john", "roles": []any{"admin"}}

	securityIdentity, err := identity.FromClaims(identity.DefaultMapper{}, credential, tokenClaims, tokenClaims, nil, "tenant-1", true)
	require.NoError(t, err)
	require.Equal(t, "john", securityIdentity.Principal())
	require.True(t, securityIdentity.HasRole("admin"))
	require.Equal(t, "tenant-1", securityIdentity.Attribute(identity.AttributeTenantID))
	require.Equal(t, true, securityIdentity.Attribute(identity.AttributeBlockingExecution))
}

func TestDefaultMapperPrincipalFallsBackToSub(t *testing.T) {
	securityIdentity, err := identity.DefaultMapper{}.MapIdentity(credentials.IDToken{Raw: "a.b.c"},
		claims.Claims{"sub": "user-42"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "user-42", securityIdentity.Principal())
}

func TestDefaultMapperFailsWithoutPrincipalClaim(t *testing.T) {
	_, err := identity.DefaultMapper{}.MapIdentity(credentials.IDToken{Raw: "a.b.c"},
		claims.Claims{"email": "a@b.c"}, nil, nil)
	require.ErrorIs(t, err, identity.ErrNoPrincipalClaim)
}

func TestFromClaimsPropagatesMapperFailure(t *testing.T) {
	_, err := identity.FromClaims(identity.DefaultMapper{}, credentials.IDToken{Raw: "a.b.c"},
		claims.Claims{}, nil, nil, "tenant-1", false)
	require.ErrorIs(t, err, identity.ErrNoPrincipalClaim)
}

func TestRolesFromClaims(t *testing.T) {
	require.Equal(t, []string{"a"}, identity.RolesFromClaims(claims.Claims{"roles": []any{"a"}}))
	require.Equal(t, []string{"g"}, identity.RolesFromClaims(claims.Claims{"groups": []any{"g"}}))
	require.Equal(t, []string{"read", "write"}, identity.RolesFromClaims(claims.Claims{"scope": "read write"}))
	require.Nil(t, identity.RolesFromClaims(nil))
	require.Empty(t, identity.RolesFromClaims(claims.Claims{"sub": "x"}))
}

func TestSplitScope(t *testing.T) {
	require.Equal(t, []string{"read", "write"}, identity.SplitScope("read write"))
	require.Equal(t, []string{"read"}, identity.SplitScope(" read "))
	require.Equal(t, []string{"read", "write"}, identity.SplitScope("read  write"))
	require.Nil(t, identity.SplitScope(""))
}

func TestBuilderDeduplicatesRoles(t *testing.T) {
	securityIdentity := identity.NewBuilder().
		Principal("p").
		AddRole("a").
		AddRole("a").
		AddRoles([]string{"b", ""}).
		Build()
	require.Equal(t, []string{"a", "b"}, securityIdentity.Roles())
	require.False(t, securityIdentity.HasRole(""))
}
