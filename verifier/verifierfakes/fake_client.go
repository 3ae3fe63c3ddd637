package verifierfakes

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/verifier"
)

var _ verifier.Client = (*FakeClient)(nil)

// FakeClient is a programmable verifier.Client that records every call it
// receives.
type FakeClient struct {
	lock sync.Mutex

	results      map[string]*verifier.Result
	verifyErrs   map[string]error
	userInfo     claims.Claims
	userInfoErr  error
	localClaims  claims.Claims
	localErr     error
	verifiedLog  []string
	userInfoLog  []string
	localCallLog []string
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		results:    make(map[string]*verifier.Result),
		verifyErrs: make(map[string]error),
	}
}

// SetResult programmes the result returned by VerifyToken for a raw token.
func (c *FakeClient) SetResult(token string, result *verifier.Result) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.results[token] = result
}

// SetVerifyError programmes VerifyToken to fail for a raw token.
func (c *FakeClient) SetVerifyError(token string, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.verifyErrs[token] = err
}

// SetUserInfo programmes the UserInfo response.
func (c *FakeClient) SetUserInfo(info claims.Claims, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.userInfo = info
	c.userInfoErr = err
}

// SetLocalValidation programmes the ValidateWithoutServer response.
func (c *FakeClient) SetLocalValidation(localClaims claims.Claims, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.localClaims = localClaims
	c.localErr = err
}

func (c *FakeClient) VerifyToken(_ context.Context, token string) (*verifier.Result, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.verifiedLog = append(c.verifiedLog, token)
	if err, ok := c.verifyErrs[token]; ok {
		return nil, err
	}
	result, ok := c.results[token]
	if !ok {
		return nil, errors.New("no result programmed for token")
	}
	return result, nil
}

func (c *FakeClient) UserInfo(_ context.Context, accessToken string) (claims.Claims, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.userInfoLog = append(c.userInfoLog, accessToken)
	return c.userInfo, c.userInfoErr
}

func (c *FakeClient) ValidateWithoutServer(token string) (claims.Claims, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.localCallLog = append(c.localCallLog, token)
	return c.localClaims, c.localErr
}

// VerifiedTokens returns the raw tokens passed to VerifyToken, in call
// order.
func (c *FakeClient) VerifiedTokens() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]string(nil), c.verifiedLog...)
}

// UserInfoCalls returns the number of UserInfo calls received.
func (c *FakeClient) UserInfoCalls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.userInfoLog)
}

// LocalValidationCalls returns the number of ValidateWithoutServer calls.
func (c *FakeClient) LocalValidationCalls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.localCallLog)
}
