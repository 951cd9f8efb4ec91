package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/orchestra-io/orchestra/internal/middleware"
	"github.com/orchestra-io/orchestra/internal/oauth"
)

type AuthOptions struct {
	JwtSecret             string
	RequireAuthentication bool
	AllowAnonymousRead    bool
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration

	OAuthProvider     string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthScopes       []string
}

func NewAuthOptions() *AuthOptions {
	return &AuthOptions{
		RequireAuthentication: true,
		AccessTokenTTL:        30 * time.Minute,
		RefreshTokenTTL:       7 * 24 * time.Hour,
		OAuthProvider:         oauth.ProviderGitHub,
	}
}

func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.JwtSecret, "jwt-secret", o.JwtSecret, "HS256 secret used to sign and verify tokens")
	fs.BoolVar(&o.RequireAuthentication, "require-authentication", o.RequireAuthentication, "reject workshop requests without a valid token")
	fs.BoolVar(&o.AllowAnonymousRead, "allow-anonymous-read", o.AllowAnonymousRead, "allow read requests without a token")
	fs.DurationVar(&o.AccessTokenTTL, "access-token-ttl", o.AccessTokenTTL, "lifetime of issued access tokens")
	fs.DurationVar(&o.RefreshTokenTTL, "refresh-token-ttl", o.RefreshTokenTTL, "lifetime of refresh tokens")

	fs.StringVar(&o.OAuthProvider, "oauth-provider", o.OAuthProvider, "sign-in provider: github, google or custom")
	fs.StringVar(&o.OAuthClientID, "oauth-client-id", o.OAuthClientID, "OAuth client ID, empty disables sign-in")
	fs.StringVar(&o.OAuthClientSecret, "oauth-client-secret", o.OAuthClientSecret, "OAuth client secret")
	fs.StringVar(&o.OAuthRedirectURL, "oauth-redirect-url", o.OAuthRedirectURL, "URL the provider redirects to after sign-in")
	fs.StringVar(&o.OAuthAuthURL, "oauth-auth-url", o.OAuthAuthURL, "authorization endpoint, defaults to the provider's")
	fs.StringVar(&o.OAuthTokenURL, "oauth-token-url", o.OAuthTokenURL, "token endpoint, defaults to the provider's")
	fs.StringVar(&o.OAuthUserInfoURL, "oauth-userinfo-url", o.OAuthUserInfoURL, "userinfo endpoint, defaults to the provider's")
	fs.StringSliceVar(&o.OAuthScopes, "oauth-scopes", o.OAuthScopes, "scopes requested from the provider, defaults to the provider's")
}

func (o *AuthOptions) Validate() error {
	if o.RequireAuthentication && o.JwtSecret == "" {
		return fmt.Errorf("--jwt-secret is required when --require-authentication is set")
	}

	if o.AccessTokenTTL <= 0 || o.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	if err := o.OAuthConfig().Validate(); err != nil {
		return fmt.Errorf("--oauth-*: %w", err)
	}

	if o.OAuthClientID != "" && o.JwtSecret == "" {
		return fmt.Errorf("--jwt-secret is required when OAuth sign-in is enabled")
	}

	return nil
}

func (o *AuthOptions) AuthConfig() middleware.AuthConfig {
	return middleware.AuthConfig{
		JwtSecret:             o.JwtSecret,
		RequireAuthentication: o.RequireAuthentication,
		AllowAnonymousRead:    o.AllowAnonymousRead,
		AccessTokenTTL:        o.AccessTokenTTL,
		RefreshTokenTTL:       o.RefreshTokenTTL,
	}
}

// OAuthConfig returns the sign-in provider with endpoints resolved.
func (o *AuthOptions) OAuthConfig() oauth.Config {
	return oauth.Config{
		Provider:     o.OAuthProvider,
		ClientID:     o.OAuthClientID,
		ClientSecret: o.OAuthClientSecret,
		RedirectURL:  o.OAuthRedirectURL,
		AuthURL:      o.OAuthAuthURL,
		TokenURL:     o.OAuthTokenURL,
		UserInfoURL:  o.OAuthUserInfoURL,
		Scopes:       o.OAuthScopes,
	}.Resolve()
}
