package config

type Oidc struct{}

var _ OidcConfig = Oidc{}

func (Oidc) GetTenantID() string {
	return GetEnv("TENANT_ID", "default")
}

func (Oidc) GetIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (Oidc) GetClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (Oidc) GetClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (Oidc) GetIntrospectionURL() string {
	return GetEnv("OIDC_INTROSPECTION_URL", "")
}

func (Oidc) GetPublicKey() string {
	return GetEnv("OIDC_PUBLIC_KEY", "")
}
