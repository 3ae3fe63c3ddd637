// Package identity assembles the authenticated identity produced by the
// verification pipeline.
package identity

import (
	"sort"
	"strings"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
)

// Attribute keys always present on identities built by this pipeline.
const (
	AttributeTenantID          = "tenant-id"
	AttributeBlockingExecution = "blocking-execution"
)

// SecurityIdentity is the outcome of a successful authentication attempt.
// Built once, immutable thereafter; safe to share across goroutines.
type SecurityIdentity struct {
	principal  string
	credential credentials.Credential
	roles      map[string]struct{}
	attributes map[string]any
	userInfo   claims.Claims
}

// Principal returns the principal name, or "" when unset (degraded opaque
// identities without a username).
func (si *SecurityIdentity) Principal() string { return si.principal }

// Credential returns the credential the identity was authenticated with.
func (si *SecurityIdentity) Credential() credentials.Credential { return si.credential }

// HasRole reports whether the identity carries the given role.
func (si *SecurityIdentity) HasRole(role string) bool {
	_, ok := si.roles[role]
	return ok
}

// Roles returns the identity's roles, sorted.
func (si *SecurityIdentity) Roles() []string {
	out := make([]string, 0, len(si.roles))
	for role := range si.roles {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

// Attribute returns a named attribute, or nil.
func (si *SecurityIdentity) Attribute(key string) any { return si.attributes[key] }

// UserInfo returns the userinfo claims fetched during authentication, or
// nil.
func (si *SecurityIdentity) UserInfo() claims.Claims { return si.userInfo }

// Builder accumulates identity state; Build produces the immutable result.
type Builder struct {
	identity SecurityIdentity
}

func NewBuilder() *Builder {
	return &Builder{
		identity: SecurityIdentity{
			roles:      make(map[string]struct{}),
			attributes: make(map[string]any),
		},
	}
}

func (b *Builder) Principal(name string) *Builder {
	b.identity.principal = name
	return b
}

func (b *Builder) Credential(c credentials.Credential) *Builder {
	b.identity.credential = c
	return b
}

func (b *Builder) AddRole(role string) *Builder {
	if role != "" {
		b.identity.roles[role] = struct{}{}
	}
	return b
}

func (b *Builder) AddRoles(roles []string) *Builder {
	for _, role := range roles {
		b.AddRole(role)
	}
	return b
}

func (b *Builder) Attribute(key string, value any) *Builder {
	b.identity.attributes[key] = value
	return b
}

func (b *Builder) UserInfo(info claims.Claims) *Builder {
	b.identity.userInfo = info
	return b
}

func (b *Builder) Build() *SecurityIdentity {
	built := b.identity
	return &built
}

// RolesFromClaims extracts role strings from a claims-like JSON artifact:
// the "roles" claim, then "groups", then a space-split "scope" string.
func RolesFromClaims(c claims.Claims) []string {
	if c == nil {
		return nil
	}
	if roles := c.StringSlice("roles"); len(roles) > 0 {
		return roles
	}
	if groups := c.StringSlice("groups"); len(groups) > 0 {
		return groups
	}
	return SplitScope(c.String("scope"))
}

// SplitScope splits a scope string on single spaces, trimming each entry.
func SplitScope(scope string) []string {
	if scope == "" {
		return nil
	}
	parts := strings.Split(scope, " ")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}
