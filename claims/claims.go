// Package claims holds the structured-claims representation shared by the
// verification pipeline, together with the structural token helpers that
// decide how a raw token can be interpreted.
package claims

import (
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-identity-provider/internal/utils"
)

// Claims is the decoded JSON body of a structured token, or the claims
// returned by a userinfo endpoint. A nil Claims means "absent".
type Claims map[string]any

// String returns the named claim as a string, or "" when it is missing or
// not a string.
func (c Claims) String(key string) string {
	if c == nil {
		return ""
	}
	s, _ := c[key].(string)
	return s
}

// Expiry returns the exp claim in unix seconds. The second return value is
// false when the claim is missing or not numeric.
func (c Claims) Expiry() (int64, bool) {
	if c == nil {
		return 0, false
	}
	switch v := c["exp"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// StringSlice returns the named claim as a slice of strings, tolerating
// both []string and []any JSON decodings.
func (c Claims) StringSlice(key string) []string {
	if c == nil {
		return nil
	}
	switch v := c[key].(type) {
	case []string:
		return v
	case []any:
		return utils.ToStringSlice(v)
	}
	return nil
}

// IsOpaqueShape reports whether a raw token lacks the three-segment shape
// of a structured (JWT-like) token. Opaque tokens can only be verified by
// asking the issuing server.
func IsOpaqueShape(raw string) bool {
	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return true
	}
	for _, s := range segments {
		if s == "" {
			return true
		}
	}
	return false
}

// DecodeUnsigned performs a best-effort structural decode of a token body
// without any signature check. It returns nil when the token cannot be
// interpreted as a structured token. Callers must never treat the result
// as verified.
func DecodeUnsigned(raw string) Claims {
	token, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil
	}
	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil
	}
	return Claims(mapClaims)
}

// ValidateTokenType enforces a tenant's required primary-token-type rule.
// An empty requirement accepts any token.
func ValidateTokenType(required string, c Claims) error {
	if required == "" {
		return nil
	}
	if typ := c.String("typ"); typ != required {
		return errors.Errorf("[ValidateTokenType] token type %q does not match required type %q", typ, required)
	}
	return nil
}
