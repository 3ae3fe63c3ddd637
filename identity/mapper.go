package identity

import (
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
)

var ErrNoPrincipalClaim = errors.New("token claims contain no principal claim")

// Mapper converts verified claims into an identity. Implementations own
// the claims-to-identity policy (principal selection, role extraction,
// userinfo merging); the pipeline treats them as opaque.
type Mapper interface {
	MapIdentity(credential credentials.Credential, tokenClaims, rolesClaims, userInfo claims.Claims) (*SecurityIdentity, error)
}

// DefaultMapper is the standard OIDC claims-to-identity policy: principal
// from preferred_username falling back to sub, roles extracted from the
// resolved roles artifact.
type DefaultMapper struct{}

var _ Mapper = DefaultMapper{}

func (DefaultMapper) MapIdentity(credential credentials.Credential, tokenClaims, rolesClaims, userInfo claims.Claims) (*SecurityIdentity, error) {
	principal := tokenClaims.String("preferred_username")
	if principal == "" {
		principal = tokenClaims.String("sub")
	}
	if principal == "" {
		return nil, errors.Wrap(ErrNoPrincipalClaim, "[DefaultMapper.MapIdentity]")
	}

	return NewBuilder().
		Principal(principal).
		Credential(credential).
		AddRoles(RolesFromClaims(rolesClaims)).
		UserInfo(userInfo).
		Build(), nil
}
