// Package oidcclient implements the verifying client against a live OIDC
// authorization server: JWKS-backed signature verification for structured
// tokens, RFC 7662 introspection for opaque ones, and userinfo retrieval.
package oidcclient

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-identity-provider/claims"
	"github.com/jrsteele09/go-identity-provider/verifier"
)

// Config configures a client for one tenant.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string

	// IntrospectionURL overrides the introspection endpoint advertised by
	// discovery. Required when the server's discovery document does not
	// publish one.
	IntrospectionURL string

	// PublicKey is a PEM-encoded RSA key enabling ValidateWithoutServer.
	PublicKey string
}

// Client talks to one tenant's authorization server.
type Client struct {
	cfg              Config
	provider         *oidc.Provider
	idVerifier       *oidc.IDTokenVerifier
	httpClient       *http.Client
	introspectionURL string
	publicKey        *rsa.PublicKey
}

var _ verifier.Client = (*Client)(nil)

// Option modifies the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for introspection calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New discovers the tenant's authorization server and prepares the
// verification machinery.
func New(ctx context.Context, cfg Config, options ...Option) (*Client, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("[oidcclient.New] issuer is required")
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[oidcclient.New] OIDC discovery")
	}

	c := &Client{
		cfg:      cfg,
		provider: oidcProvider,
		idVerifier: oidcProvider.Verifier(&oidc.Config{
			ClientID:          cfg.ClientID,
			SkipClientIDCheck: cfg.ClientID == "",
		}),
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		introspectionURL: cfg.IntrospectionURL,
	}

	if c.introspectionURL == "" {
		var discovered struct {
			IntrospectionEndpoint string `json:"introspection_endpoint"`
		}
		if err := oidcProvider.Claims(&discovered); err == nil {
			c.introspectionURL = discovered.IntrospectionEndpoint
		}
	}

	if cfg.PublicKey != "" {
		key, err := jwtlib.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKey))
		if err != nil {
			return nil, errors.Wrap(err, "[oidcclient.New] parsing tenant public key")
		}
		c.publicKey = key
	}

	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// VerifyToken verifies one token. A structured token is checked against
// the server's JWKS; when that fails because no matching key is available
// yet, introspection is tried as a fallback. An opaque-shaped token goes
// straight to introspection.
func (c *Client) VerifyToken(ctx context.Context, token string) (*verifier.Result, error) {
	if claims.IsOpaqueShape(token) {
		return c.introspect(ctx, token)
	}

	idToken, err := c.idVerifier.Verify(ctx, token)
	if err != nil {
		if c.introspectionURL == "" {
			return nil, errors.Wrap(err, "[Client.VerifyToken] signature verification")
		}
		log.Debug().Err(err).Msg("oidcclient: local verification failed, falling back to introspection")
		return c.introspect(ctx, token)
	}

	var body claims.Claims
	if err := idToken.Claims(&body); err != nil {
		return nil, errors.Wrap(err, "[Client.VerifyToken] decoding verified claims")
	}
	return &verifier.Result{LocalClaims: body}, nil
}

// UserInfo fetches the userinfo claims for an access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (claims.Claims, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	info, err := c.provider.UserInfo(ctx, tokenSource)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UserInfo] userinfo request")
	}
	var body claims.Claims
	if err := info.Claims(&body); err != nil {
		return nil, errors.Wrap(err, "[Client.UserInfo] decoding userinfo claims")
	}
	return body, nil
}

// ValidateWithoutServer verifies a structured token against the tenant's
// configured public key. No remote calls are made.
func (c *Client) ValidateWithoutServer(token string) (claims.Claims, error) {
	if c.publicKey == nil {
		return nil, errors.New("[Client.ValidateWithoutServer] no public key configured")
	}
	parsed, err := jwtlib.ParseWithClaims(token, jwtlib.MapClaims{}, func(*jwtlib.Token) (any, error) {
		return c.publicKey, nil
	}, jwtlib.WithValidMethods([]string{"RS256", "RS384", "RS512"}))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.ValidateWithoutServer] token validation")
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[Client.ValidateWithoutServer] error extracting claims from token")
	}
	return claims.Claims(mapClaims), nil
}

// introspect posts the token to the introspection endpoint using the
// tenant's client credentials. An inactive token is a verification
// failure.
func (c *Client) introspect(ctx context.Context, token string) (*verifier.Result, error) {
	if c.introspectionURL == "" {
		return nil, errors.New("[Client.introspect] no introspection endpoint configured")
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", "access_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectionURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.introspect] building request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.introspect] introspection request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("[Client.introspect] introspection endpoint returned %d", resp.StatusCode)
	}

	var introspection claims.Claims
	if err := json.NewDecoder(resp.Body).Decode(&introspection); err != nil {
		return nil, errors.Wrap(err, "[Client.introspect] decoding introspection response")
	}

	if active, _ := introspection["active"].(bool); !active {
		return nil, errors.New("[Client.introspect] token is not active")
	}
	return &verifier.Result{Introspection: introspection}, nil
}
