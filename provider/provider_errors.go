package provider

import "github.com/pkg/errors"

var (
	// ErrTokenUninterpretable is returned when a token yields no
	// structured claims and the credential kind is not eligible for the
	// introspection-only fallback.
	ErrTokenUninterpretable = errors.New("token cannot be interpreted")
)
