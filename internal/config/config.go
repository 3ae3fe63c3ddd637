package config

type Config interface {
	EnvConfig
	OidcConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type OidcConfig interface {
	GetTenantID() string
	GetIssuer() string
	GetClientID() string
	GetClientSecret() string
	GetIntrospectionURL() string
	GetPublicKey() string
}

type mainConfig struct {
	EnvVars
	Oidc
}

func New() Config {
	return mainConfig{}
}
