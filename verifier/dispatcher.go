package verifier

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-provider/claims"
)

// BlockingChecker reports whether the current execution context already
// permits blocking calls. Injected rather than queried globally so tests
// can substitute either answer.
type BlockingChecker func() bool

// Executor accepts work that is allowed to block. Submission is
// fire-and-forget; results travel back over channels owned by the caller.
type Executor interface {
	Submit(task func()) error
}

// Dispatcher routes verification and userinfo calls to the client,
// offloading to the blocking executor whenever a call requires remote I/O
// and the ambient context disallows blocking.
type Dispatcher struct {
	blockingAllowed BlockingChecker
	executor        Executor
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(blockingAllowed BlockingChecker, executor Executor) (*Dispatcher, error) {
	if blockingAllowed == nil {
		return nil, errors.New("[NewDispatcher] blocking checker is required")
	}
	if executor == nil {
		return nil, errors.New("[NewDispatcher] executor is required")
	}
	return &Dispatcher{
		blockingAllowed: blockingAllowed,
		executor:        executor,
	}, nil
}

// Verify verifies one token via the client. An opaque-shaped token forces
// remote introspection, a blocking operation, so the call is offloaded
// unless blocking is already allowed. A structured token is dispatched
// inline; the client decides internally whether any remote call (e.g. an
// unresolved JWKS key id) is needed.
//
// Client errors surface unchanged; the Dispatcher adds no semantics of its
// own.
func (d *Dispatcher) Verify(ctx context.Context, client Client, token string) (*Result, error) {
	if claims.IsOpaqueShape(token) {
		log.Debug().Msg("dispatcher: opaque token, remote introspection required")
		return dispatch(ctx, d, func() (*Result, error) {
			return client.VerifyToken(ctx, token)
		})
	}
	return client.VerifyToken(ctx, token)
}

// UserInfo fetches userinfo claims via the client. Userinfo retrieval is
// always a remote call, so it is offloaded whenever blocking is not
// allowed.
func (d *Dispatcher) UserInfo(ctx context.Context, client Client, accessToken string) (claims.Claims, error) {
	return dispatch(ctx, d, func() (claims.Claims, error) {
		return client.UserInfo(ctx, accessToken)
	})
}

// dispatch runs a blocking call inline when the ambient context allows it,
// otherwise submits it to the executor and waits for the result, honouring
// cancellation.
func dispatch[T any](ctx context.Context, d *Dispatcher, call func() (T, error)) (T, error) {
	if d.blockingAllowed() {
		return call()
	}

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	if err := d.executor.Submit(func() {
		v, err := call()
		done <- outcome{value: v, err: err}
	}); err != nil {
		var zero T
		return zero, errors.Wrap(err, "[Dispatcher dispatch] submitting blocking call")
	}

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case out := <-done:
		return out.value, out.err
	}
}
