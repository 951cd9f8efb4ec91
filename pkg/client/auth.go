package client

import (
	"context"
	"net/http"
)

type Identity struct {
	Username  string   `json:"username"`
	UserID    string   `json:"user_id,omitempty"`
	Scopes    []string `json:"scopes"`
	Anonymous bool     `json:"anonymous,omitempty"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SignIn is the result of a completed provider sign-in.
type SignIn struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Email     string `json:"email,omitempty"`
		Name      string `json:"name,omitempty"`
		AvatarURL string `json:"avatar_url,omitempty"`
	} `json:"user"`
}

// AuthConfig describes how a user signs in to the server.
type AuthConfig struct {
	Enabled               bool   `json:"enabled"`
	Provider              string `json:"provider,omitempty"`
	AuthURL               string `json:"auth_url,omitempty"`
	RedirectURI           string `json:"redirect_uri,omitempty"`
	RequireAuthentication bool   `json:"require_authentication"`
	AllowAnonymousRead    bool   `json:"allow_anonymous_read"`
}

// AuthService handles communication with the token endpoints
type AuthService struct {
	*resourceService
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{
		resourceService: newResourceService(client, "/api/v1/auth"),
	}
}

// Me returns the identity the server derives from the client token.
func (s *AuthService) Me(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := s.call(ctx, http.MethodGet, "/me", nil, nil, &id, http.StatusOK); err != nil {
		return nil, err
	}

	return &id, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var tok Token
	if err := s.call(ctx, http.MethodPost, "/refresh", nil, body, &tok, http.StatusOK); err != nil {
		return nil, err
	}

	return &tok, nil
}

// Config returns the server's sign-in settings.
func (s *AuthService) Config(ctx context.Context) (*AuthConfig, error) {
	var cfg AuthConfig
	if err := s.call(ctx, http.MethodGet, "/auth-config", nil, nil, &cfg, http.StatusOK); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SignIn completes a provider sign-in with the authorization code the
// provider redirected back with.
func (s *AuthService) SignIn(ctx context.Context, code, state string) (*SignIn, error) {
	body := map[string]string{"code": code, "state": state}

	var out SignIn
	if err := s.call(ctx, http.MethodPost, "/oauth/callback", nil, body, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}
