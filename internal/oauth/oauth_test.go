package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves a token endpoint accepting "good-code" and a userinfo
// endpoint answering with user for the token it issued.
func fakeProvider(t *testing.T, user map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))

			return
		}

		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		Provider:     ProviderCustom,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5173/callback",
		AuthURL:      srv.URL + "/authorize",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/user",
		Scopes:       []string{"user:email"},
	}
}

func TestSignInGitHubShape(t *testing.T) {
	srv := fakeProvider(t, map[string]any{
		"id":         42,
		"login":      "octocat",
		"email":      "octocat@example.org",
		"name":       "The Octocat",
		"avatar_url": "https://avatars.example.org/42",
	})

	info, err := New(testConfig(srv), srv.Client()).SignIn(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, &UserInfo{
		ID:        "42",
		Username:  "octocat",
		Email:     "octocat@example.org",
		Name:      "The Octocat",
		AvatarURL: "https://avatars.example.org/42",
	}, info)
}

func TestSignInOpenIDShape(t *testing.T) {
	srv := fakeProvider(t, map[string]any{
		"sub":     "1098",
		"email":   "ada@example.org",
		"name":    "Ada",
		"picture": "https://pics.example.org/ada",
	})

	info, err := New(testConfig(srv), nil).SignIn(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "1098", info.ID)
	assert.Equal(t, "ada@example.org", info.Username)
	assert.Equal(t, "https://pics.example.org/ada", info.AvatarURL)
}

func TestSignInFailures(t *testing.T) {
	srv := fakeProvider(t, map[string]any{"id": 7})
	c := New(testConfig(srv), nil)

	_, err := c.SignIn(context.Background(), "bad-code")
	assert.ErrorContains(t, err, "failed to exchange authorization code")

	// the user has no login or email
	_, err = c.SignIn(context.Background(), "good-code")
	assert.ErrorContains(t, err, "neither a login nor an email")

	cfg := testConfig(srv)
	cfg.UserInfoURL = srv.URL + "/missing"
	_, err = New(cfg, nil).SignIn(context.Background(), "good-code")
	assert.ErrorContains(t, err, "returned 404")
}

func TestAuthCodeURL(t *testing.T) {
	srv := fakeProvider(t, nil)

	u, err := url.Parse(New(testConfig(srv), nil).AuthCodeURL("xyz"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:5173/callback", u.Query().Get("redirect_uri"))
	assert.Equal(t, "user:email", u.Query().Get("scope"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
}

func TestResolveAndValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.False(t, Config{}.Enabled())

	github := Config{
		Provider:     ProviderGitHub,
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "https://app.example.org/callback",
	}.Resolve()
	assert.Equal(t, "https://github.com/login/oauth/authorize", github.AuthURL)
	assert.Equal(t, "https://api.github.com/user", github.UserInfoURL)
	assert.Equal(t, []string{"user:email"}, github.Scopes)
	assert.NoError(t, github.Validate())

	google := Config{Provider: ProviderGoogle, ClientID: "id"}.Resolve()
	assert.Equal(t, []string{"openid", "email", "profile"}, google.Scopes)
	assert.ErrorContains(t, google.Validate(), "client secret, redirect url")

	custom := Config{Provider: ProviderCustom, ClientID: "id", ClientSecret: "s", RedirectURL: "r"}.Resolve()
	assert.ErrorContains(t, custom.Validate(), "auth url, token url, userinfo url")

	assert.ErrorContains(t, Config{Provider: "gitlab", ClientID: "id"}.Validate(), "unknown provider")
}
