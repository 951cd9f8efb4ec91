// Package oauth signs users in through an external OAuth2 provider: it
// exchanges an authorization code for a provider token and reads the user
// behind it. Issuing API tokens is left to the caller.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
	ProviderCustom = "custom"
)

// Config describes the provider. Empty endpoints and scopes are filled from
// the provider preset by Resolve.
type Config struct {
	Provider     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}

type preset struct {
	endpoint    oauth2.Endpoint
	userInfoURL string
	scopes      []string
}

var presets = map[string]preset{
	ProviderGitHub: {
		endpoint:    endpoints.GitHub,
		userInfoURL: "https://api.github.com/user",
		scopes:      []string{"user:email"},
	},
	ProviderGoogle: {
		endpoint:    endpoints.Google,
		userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
		scopes:      []string{"openid", "email", "profile"},
	},
}

// Enabled reports whether sign-in is configured at all.
func (c Config) Enabled() bool {
	return c.ClientID != ""
}

func (c Config) Resolve() Config {
	p, ok := presets[c.Provider]
	if !ok {
		return c
	}

	if c.AuthURL == "" {
		c.AuthURL = p.endpoint.AuthURL
	}

	if c.TokenURL == "" {
		c.TokenURL = p.endpoint.TokenURL
	}

	if c.UserInfoURL == "" {
		c.UserInfoURL = p.userInfoURL
	}

	if len(c.Scopes) == 0 {
		c.Scopes = p.scopes
	}

	return c
}

// Validate checks a resolved Config. A disabled Config is always valid.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}

	switch c.Provider {
	case ProviderGitHub, ProviderGoogle, ProviderCustom:
	default:
		return fmt.Errorf("unknown provider %q, expected one of %s, %s, %s", c.Provider, ProviderGitHub, ProviderGoogle, ProviderCustom)
	}

	var missing []string

	for _, field := range []struct{ name, value string }{
		{"client secret", c.ClientSecret},
		{"redirect url", c.RedirectURL},
		{"auth url", c.AuthURL},
		{"token url", c.TokenURL},
		{"userinfo url", c.UserInfoURL},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("provider %s needs %s", c.Provider, strings.Join(missing, ", "))
	}

	return nil
}

// UserInfo is the identity the provider reports for the signed-in user.
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Client talks to one provider.
type Client struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// New returns a Client for a resolved Config. A nil httpClient uses
// http.DefaultClient.
func New(c Config, httpClient *http.Client) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       c.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  c.AuthURL,
				TokenURL: c.TokenURL,
			},
		},
		userInfoURL: c.UserInfoURL,
		httpClient:  httpClient,
	}
}

// AuthCodeURL is the provider page a browser is sent to for sign-in.
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// SignIn exchanges code for a provider token and fetches the user behind it.
func (c *Client) SignIn(ctx context.Context, code string) (*UserInfo, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("user info request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw := map[string]any{}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info")
	}

	return parseUserInfo(raw)
}

// parseUserInfo reads the GitHub and OpenID Connect userinfo shapes.
func parseUserInfo(raw map[string]any) (*UserInfo, error) {
	info := &UserInfo{
		ID:        first(raw, "id", "sub"),
		Username:  first(raw, "login", "preferred_username", "email"),
		Email:     first(raw, "email"),
		Name:      first(raw, "name"),
		AvatarURL: first(raw, "avatar_url", "picture"),
	}

	if info.Username == "" {
		return nil, errors.New("user info carries neither a login nor an email")
	}

	if info.ID == "" {
		info.ID = info.Username
	}

	return info, nil
}

func first(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}

	return ""
}
