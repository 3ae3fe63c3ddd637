package provider

import "github.com/jrsteele09/go-identity-provider/identity"

// Outcome is the terminal result of a successful authentication attempt.
//
// RefreshNeeded marks the third outcome class: the token verified and the
// identity is fully valid, but the token is close enough to expiry that
// the caller should trigger a refresh flow. Plain failures are reported
// through the error return of Authenticate instead.
type Outcome struct {
	Identity      *identity.SecurityIdentity
	RefreshNeeded bool
}
