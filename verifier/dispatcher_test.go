package verifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/verifier"
	"github.com/jrsteele09/go-identity-provider/verifier/verifierfakes"
)

const (
	opaqueToken     = "9f3acb21d4e85f01"
	structuredToken = "eyJhbGciOiJub25lIn0.eyJzdWIiOiJqb2huIn0.c2ln"
)

// recordingExecutor runs tasks synchronously and counts submissions.
type recordingExecutor struct {
	lock      sync.Mutex
	submitted int
	err       error
}

func (e *recordingExecutor) Submit(task func()) error {
	e.lock.Lock()
	e.submitted++
	err := e.err
	e.lock.Unlock()
	if err != nil {
		return err
	}
	task()
	return nil
}

func (e *recordingExecutor) submissions() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.submitted
}

func TestOpaqueTokenOffloadedWhenBlockingDisallowed(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	client.SetResult(opaqueToken, &verifier.Result{Introspection: claims.Claims{"active": true}})
	ex := &recordingExecutor{}

	d, err := verifier.NewDispatcher(func() bool { return false }, ex)
	require.NoError(t, err)

	result, err := d.Verify(context.Background(), client, opaqueToken)
	require.NoError(t, err)
	require.NotNil(t, result.Introspection)
	require.Equal(t, 1, ex.submissions())
}

func TestOpaqueTokenInlineWhenBlockingAllowed(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	client.SetResult(opaqueToken, &verifier.Result{Introspection: claims.Claims{"active": true}})
	ex := &recordingExecutor{}

	d, err := verifier.NewDispatcher(func() bool { return true }, ex)
	require.NoError(t, err)

	_, err = d.Verify(context.Background(), client, opaqueToken)
	require.NoError(t, err)
	require.Zero(t, ex.submissions())
}

func TestStructuredTokenSkipsCapabilityCheck(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	client.SetResult(structuredToken, &verifier.Result{LocalClaims: claims.Claims{"sub": "john"}})
	ex := &recordingExecutor{}

	// Even with blocking disallowed, a structured token dispatches
	// directly; the client decides whether remote calls are needed.
	d, err := verifier.NewDispatcher(func() bool { return false }, ex)
	require.NoError(t, err)

	result, err := d.Verify(context.Background(), client, structuredToken)
	require.NoError(t, err)
	require.Equal(t, "john", result.LocalClaims.String("sub"))
	require.Zero(t, ex.submissions())
}

func TestUserInfoAlwaysSubjectToCapabilityCheck(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	client.SetUserInfo(claims.Claims{"email": "a@b.c"}, nil)
	ex := &recordingExecutor{}

	d, err := verifier.NewDispatcher(func() bool { return false }, ex)
	require.NoError(t, err)

	info, err := d.UserInfo(context.Background(), client, structuredToken)
	require.NoError(t, err)
	require.Equal(t, "a@b.c", info.String("email"))
	require.Equal(t, 1, ex.submissions())
}

func TestClientErrorSurfacesUnchanged(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	wantErr := errors.New("transport failure")
	client.SetVerifyError(opaqueToken, wantErr)

	d, err := verifier.NewDispatcher(func() bool { return true }, &recordingExecutor{})
	require.NoError(t, err)

	_, err = d.Verify(context.Background(), client, opaqueToken)
	require.ErrorIs(t, err, wantErr)
}

func TestSubmitErrorSurfaces(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	ex := &recordingExecutor{err: errors.New("queue full")}

	d, err := verifier.NewDispatcher(func() bool { return false }, ex)
	require.NoError(t, err)

	_, err = d.Verify(context.Background(), client, opaqueToken)
	require.Error(t, err)
	require.ErrorContains(t, err, "queue full")
}

func TestCancelledContextFailsAttempt(t *testing.T) {
	client := verifierfakes.NewFakeClient()
	client.SetResult(opaqueToken, &verifier.Result{Introspection: claims.Claims{"active": true}})

	release := make(chan struct{})
	slowExecutor := executorFunc(func(task func()) error {
		go func() {
			<-release
			task()
		}()
		return nil
	})
	t.Cleanup(func() { close(release) })

	d, err := verifier.NewDispatcher(func() bool { return false }, slowExecutor)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Verify(ctx, client, opaqueToken)
	require.ErrorIs(t, err, context.Canceled)
}

type executorFunc func(task func()) error

func (f executorFunc) Submit(task func()) error { return f(task) }
