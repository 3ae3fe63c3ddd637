// Package provider implements the bearer-token authentication pipeline:
// given a credential and the resolved tenant configuration it decides how
// to verify the token, orchestrates verification and optional userinfo
// retrieval, resolves the roles artifact, detects tokens due for proactive
// refresh and assembles the final authenticated identity.
package provider

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/credentials"
	"github.com/jrsteele09/go-identity-provider/identity"
	"github.com/jrsteele09/go-identity-provider/tenants"
	"github.com/jrsteele09/go-identity-provider/verifier"
)

// Request is one authentication attempt.
type Request struct {
	TenantID   string
	Credential credentials.Credential
	Scratch    *Scratch
}

// Provider orchestrates one authentication attempt end to end.
type Provider struct {
	resolver        tenants.Resolver
	dispatcher      *verifier.Dispatcher
	blockingAllowed verifier.BlockingChecker
	mapper          identity.Mapper
	nowTime         func() time.Time // nowTime function (injectable for testing)
}

// Option modifies the Provider instance.
type Option func(*Provider)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(p *Provider) {
		p.nowTime = nowFunc
	}
}

// WithMapper replaces the default claims-to-identity mapper.
func WithMapper(mapper identity.Mapper) Option {
	return func(p *Provider) {
		p.mapper = mapper
	}
}

// New creates a Provider. The blocking checker and executor govern how
// remote introspection and userinfo calls are executed when the ambient
// context disallows blocking.
func New(resolver tenants.Resolver, blockingAllowed verifier.BlockingChecker, executor verifier.Executor, options ...Option) (*Provider, error) {
	if resolver == nil {
		return nil, errors.New("[provider.New] tenant resolver is required")
	}
	dispatcher, err := verifier.NewDispatcher(blockingAllowed, executor)
	if err != nil {
		return nil, errors.Wrap(err, "[provider.New] creating dispatcher")
	}

	p := &Provider{
		resolver:        resolver,
		dispatcher:      dispatcher,
		blockingAllowed: blockingAllowed,
		mapper:          identity.DefaultMapper{},
		nowTime:         time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// Authenticate runs one authentication attempt. It returns an Outcome on
// success (with RefreshNeeded set when the verified token is due for
// proactive refresh) or an error describing exactly which step failed.
func (p *Provider) Authenticate(ctx context.Context, request *Request) (*Outcome, error) {
	if request == nil || request.Credential == nil {
		return nil, errors.New("[Provider.Authenticate] credential is required")
	}
	scratch := request.Scratch
	if scratch == nil {
		scratch = NewScratch()
	}

	tenantContext, err := p.resolver.Resolve(ctx, request.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.Authenticate] resolving tenant context")
	}

	if tenantContext.Config.LocalVerificationConfigured() {
		return p.authenticateLocal(request.Credential, tenantContext)
	}
	return p.authenticateWithServer(ctx, request.Credential, tenantContext, scratch)
}

// authenticateLocal verifies the token against the tenant's public key
// with no remote calls at all. Local-only validation is deliberately
// simplified: no userinfo, no introspection and no refresh signalling
// apply on this path.
func (p *Provider) authenticateLocal(credential credentials.Credential, tenantContext *tenants.Context) (*Outcome, error) {
	tokenClaims, err := tenantContext.Client.ValidateWithoutServer(credential.Token())
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.authenticateLocal] offline token validation")
	}
	securityIdentity, err := identity.FromClaims(p.mapper, credential, tokenClaims, tokenClaims, nil,
		tenantContext.Config.ID, p.blockingAllowed())
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.authenticateLocal] building identity")
	}
	return &Outcome{Identity: securityIdentity}, nil
}

func (p *Provider) authenticateWithServer(ctx context.Context, credential credentials.Credential,
	tenantContext *tenants.Context, scratch *Scratch) (*Outcome, error) {
	cfg := tenantContext.Config

	// The code-flow access token is verified and stashed before the
	// primary token: role resolution with the accesstoken source needs
	// it, and the primary token's own claims are not guaranteed to carry
	// the roles.
	codeFlowResult, err := p.verifyCodeFlowAccessToken(ctx, credential, tenantContext, scratch)
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.authenticateWithServer] code-flow access token verification")
	}
	if codeFlowResult != nil {
		scratch.CodeFlowResult = codeFlowResult
	}

	var userInfo claims.Claims
	if cfg.UserInfoRequired {
		userInfo, err = p.dispatcher.UserInfo(ctx, tenantContext.Client, userInfoToken(credential, scratch))
		if err != nil {
			return nil, errors.Wrap(err, "[Provider.authenticateWithServer] fetching userinfo")
		}
	}

	primaryResult, err := p.verifyOnce(ctx, tenantContext, scratch, credential.Token())
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.authenticateWithServer] primary token verification")
	}

	// The token has been verified, as a structured or an opaque token,
	// possibly through an introspection request. Structured claims may
	// still be absent not only for an opaque token but also when no JWK
	// with a matching key id was available yet and the fallback
	// introspection succeeded; an unsigned decode recovers them then.
	tokenClaims := primaryResult.LocalClaims
	if tokenClaims == nil {
		tokenClaims = claims.DecodeUnsigned(credential.Token())
	}

	executedUnderBlocking := p.blockingAllowed()

	if tokenClaims == nil {
		if !credentials.OpaqueEligible(credential) {
			return nil, errors.Wrap(ErrTokenUninterpretable, "[Provider.authenticateWithServer]")
		}
		log.Debug().Str("attempt", scratch.AttemptID).Str("tenant", cfg.ID).
			Msg("opaque bearer token, building identity from introspection")
		securityIdentity := identity.FromIntrospection(credential, primaryResult.Introspection, userInfo,
			cfg.ID, executedUnderBlocking)
		return &Outcome{Identity: securityIdentity}, nil
	}

	if err := claims.ValidateTokenType(cfg.RequiredTokenType, tokenClaims); err != nil {
		return nil, errors.Wrap(err, "[Provider.authenticateWithServer] primary token type")
	}

	rolesClaims := resolveRolesSource(cfg, credential, scratch, tokenClaims, userInfo)
	securityIdentity, err := identity.FromClaims(p.mapper, credential, tokenClaims, rolesClaims, userInfo,
		cfg.ID, executedUnderBlocking)
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.authenticateWithServer] building identity")
	}

	outcome := &Outcome{Identity: securityIdentity}
	if dueForRefresh(tokenClaims, scratch, cfg, p.nowTime().Unix()) {
		log.Debug().Str("attempt", scratch.AttemptID).Str("tenant", cfg.ID).
			Msg("verified token due for proactive refresh")
		outcome.RefreshNeeded = true
	}
	return outcome, nil
}

// verifyCodeFlowAccessToken verifies the stashed code-flow access token
// when the credential is an ID token and the tenant either requires access
// token verification or sources roles from the access token. Any other
// combination yields no result without a call.
func (p *Provider) verifyCodeFlowAccessToken(ctx context.Context, credential credentials.Credential,
	tenantContext *tenants.Context, scratch *Scratch) (*verifier.Result, error) {
	if _, ok := credential.(credentials.IDToken); !ok {
		return nil, nil
	}
	cfg := tenantContext.Config
	if !cfg.VerifyAccessToken && cfg.RolesSource != tenants.RoleSourceAccessToken {
		return nil, nil
	}
	return p.verifyOnce(ctx, tenantContext, scratch, scratch.CodeFlowAccessToken)
}

// verifyOnce dispatches a verification call unless the same raw token
// string was already verified within this attempt.
func (p *Provider) verifyOnce(ctx context.Context, tenantContext *tenants.Context, scratch *Scratch,
	token string) (*verifier.Result, error) {
	if result, ok := scratch.result(token); ok {
		return result, nil
	}
	result, err := p.dispatcher.Verify(ctx, tenantContext.Client, token)
	if err != nil {
		return nil, err
	}
	scratch.storeResult(token, result)
	return result, nil
}

// userInfoToken picks the access token presented to the userinfo endpoint:
// the code-flow access token for an ID-token credential, the credential's
// own token otherwise.
func userInfoToken(credential credentials.Credential, scratch *Scratch) string {
	if _, ok := credential.(credentials.IDToken); ok {
		return scratch.CodeFlowAccessToken
	}
	return credential.Token()
}
