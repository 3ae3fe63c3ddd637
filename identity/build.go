package identity

import (
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
)

// FromClaims builds the identity for a token with verified structured
// claims. Claims policy is delegated to the mapper; the pipeline
// attributes are attached afterwards. Mapping failures propagate
// unchanged.
func FromClaims(mapper Mapper, credential credentials.Credential, tokenClaims, rolesClaims, userInfo claims.Claims,
	tenantID string, executedUnderBlocking bool) (*SecurityIdentity, error) {
	securityIdentity, err := mapper.MapIdentity(credential, tokenClaims, rolesClaims, userInfo)
	if err != nil {
		return nil, errors.Wrap(err, "[FromClaims] mapping claims to identity")
	}
	securityIdentity.attributes[AttributeTenantID] = tenantID
	securityIdentity.attributes[AttributeBlockingExecution] = executedUnderBlocking
	return securityIdentity, nil
}

// FromIntrospection builds the degraded identity for an opaque bearer
// token: principal from the introspection username when present, roles
// from the introspection scope plus any userinfo-derived roles. The
// credential, tenant-id and blocking attributes are always attached.
func FromIntrospection(credential credentials.Credential, introspection, userInfo claims.Claims,
	tenantID string, executedUnderBlocking bool) *SecurityIdentity {
	builder := NewBuilder().
		Credential(credential).
		UserInfo(userInfo).
		Attribute(AttributeTenantID, tenantID).
		Attribute(AttributeBlockingExecution, executedUnderBlocking)

	if username := introspection.String("username"); username != "" {
		builder.Principal(username)
	}
	builder.AddRoles(SplitScope(introspection.String("scope")))
	if userInfo != nil {
		builder.AddRoles(RolesFromClaims(userInfo))
	}
	return builder.Build()
}
