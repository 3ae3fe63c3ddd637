package claims_test

import (
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-provider/claims"
)

func signedTestToken(t *testing.T, tokenClaims jwtlib.MapClaims) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, tokenClaims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestIsOpaqueShape(t *testing.T) {
	// Anything without three non-empty dot-separated segments is opaque.
	require.True(t, claims.IsOpaqueShape("af52c1e9b6d8470c"))
	require.True(t, claims.IsOpaqueShape("one.two"))
	require.True(t, claims.IsOpaqueShape("one.two.three.four"))
	require.True(t, claims.IsOpaqueShape("one..three"))
	require.True(t, claims.IsOpaqueShape(".two.three"))

	require.False(t, claims.IsOpaqueShape("header.payload.sig"))
	require.False(t, claims.IsOpaqueShape("eyJh.eyJz.c2lnbmF0dXJl"))
}

func TestDecodeUnsigned(t *testing.T) {
	token := signedTestToken(t, jwtlib.MapClaims{"sub": "john", "roles": []string{"admin"}})

	decoded := claims.DecodeUnsigned(token)
	require.NotNil(t, decoded)
	require.Equal(t, "john", decoded.String("sub"))
	require.Equal(t, []string{"admin"}, decoded.StringSlice("roles"))
}

func TestDecodeUnsignedGarbageYieldsNil(t *testing.T) {
	require.Nil(t, claims.DecodeUnsigned("aaa.bbb.ccc"))
	require.Nil(t, claims.DecodeUnsigned("not a token"))
	require.Nil(t, claims.DecodeUnsigned(""))
}

func TestValidateTokenType(t *testing.T) {
	require.NoError(t, claims.ValidateTokenType("", claims.Claims{"typ": "anything"}))
	require.NoError(t, claims.ValidateTokenType("Bearer", claims.Claims{"typ": "Bearer"}))

	err := claims.ValidateTokenType("Bearer", claims.Claims{"typ": "Refresh"})
	require.Error(t, err)
	require.ErrorContains(t, err, "does not match required type")

	err = claims.ValidateTokenType("Bearer", claims.Claims{})
	require.Error(t, err)
}

func TestExpiry(t *testing.T) {
	expiry, ok := claims.Claims{"exp": float64(1234)}.Expiry()
	require.True(t, ok)
	require.Equal(t, int64(1234), expiry)

	_, ok = claims.Claims{"exp": "not-a-number"}.Expiry()
	require.False(t, ok)

	_, ok = claims.Claims{}.Expiry()
	require.False(t, ok)

	_, ok = claims.Claims(nil).Expiry()
	require.False(t, ok)
}

func TestStringSlice(t *testing.T) {
	c := claims.Claims{
		"strings": []string{"a", "b"},
		"anys":    []any{"a", 1, "b"},
		"scalar":  "a",
	}
	require.Equal(t, []string{"a", "b"}, c.StringSlice("strings"))
	require.Equal(t, []string{"a", "b"}, c.StringSlice("anys"))
	require.Nil(t, c.StringSlice("scalar"))
	require.Nil(t, c.StringSlice("missing"))
}
