package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchestra-io/orchestra/internal/middleware"
	"github.com/orchestra-io/orchestra/internal/oauth"
)

func testConfig() middleware.AuthConfig {
	return middleware.AuthConfig{
		JwtSecret:             "test-secret",
		RequireAuthentication: true,
		AccessTokenTTL:        30 * time.Minute,
		RefreshTokenTTL:       7 * 24 * time.Hour,
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterAuthRoutes(r.Group("/api/v1"), nil, &Dependencies{AuthConfig: testConfig()})

	return r
}

func issue(t *testing.T, tokenType string, claims middleware.Claims) string {
	t.Helper()

	token, _, err := middleware.IssueToken(testConfig(), claims, tokenType, time.Now())
	require.NoError(t, err)

	return token
}

func TestRefresh(t *testing.T) {
	r := setupRouter()

	refresh := issue(t, middleware.TokenTypeRefresh, middleware.Claims{
		UserID:           "42",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "octocat"},
	})

	body, _ := json.Marshal(RefreshRequest{RefreshToken: refresh})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(1800), resp.ExpiresIn)

	claims, err := middleware.ParseToken(testConfig(), resp.AccessToken, middleware.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "octocat", claims.Subject)
	assert.Equal(t, "42", claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r := setupRouter()

	access := issue(t, middleware.TokenTypeAccess, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "octocat"},
	})

	body, _ := json.Marshal(RefreshRequest{RefreshToken: access})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRequiresBody(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	r := setupRouter()

	access := issue(t, middleware.TokenTypeAccess, middleware.Claims{
		UserID:           "42",
		Scopes:           []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "octocat"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var identity middleware.Identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &identity))
	assert.Equal(t, "octocat", identity.Username)
	assert.Equal(t, "42", identity.UserID)
	assert.Equal(t, []string{"user"}, identity.Scopes)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// fakeProvider is an OAuth2 provider accepting the code "good-code".
func fakeProvider(t *testing.T) oauth.Config {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")

		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))

			return
		}

		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "login": "octocat", "email": "octocat@example.org", "name": "The Octocat"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return oauth.Config{
		Provider:     oauth.ProviderCustom,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5173/callback",
		AuthURL:      srv.URL + "/authorize",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/user",
		Scopes:       []string{"user:email"},
	}
}

func setupOAuthRouter(provider oauth.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterAuthRoutes(r.Group("/api/v1"), nil, &Dependencies{AuthConfig: testConfig(), OAuth: provider})

	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestOAuthCallback(t *testing.T) {
	r := setupOAuthRouter(fakeProvider(t))

	w := postJSON(r, "/api/v1/auth/oauth/callback", `{"code": "good-code", "state": "xyz"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SignInResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(1800), resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "octocat", resp.User.Username)
	assert.Equal(t, "42", resp.User.ID)

	access, err := middleware.ParseToken(testConfig(), resp.AccessToken, middleware.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "octocat", access.Subject)
	assert.Equal(t, "42", access.UserID)
	assert.Equal(t, "octocat@example.org", access.Email)
	assert.Equal(t, []string{"user"}, access.Scopes)

	_, err = middleware.ParseToken(testConfig(), resp.RefreshToken, middleware.TokenTypeRefresh)
	require.NoError(t, err)

	// the refresh token keeps the scopes granted at sign-in
	w = postJSON(r, "/api/v1/auth/refresh", `{"refresh_token": "`+resp.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))

	claims, err := middleware.ParseToken(testConfig(), refreshed.AccessToken, middleware.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, claims.Scopes)
}

func TestOAuthCallbackFailures(t *testing.T) {
	r := setupOAuthRouter(fakeProvider(t))

	w := postJSON(r, "/api/v1/auth/oauth/callback", `{"code": "bad-code"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "OAuth authentication failed")

	w = postJSON(r, "/api/v1/auth/oauth/callback", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// sign-in is off without a provider
	w = postJSON(setupRouter(), "/api/v1/auth/oauth/callback", `{"code": "good-code"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthConfigEndpoint(t *testing.T) {
	provider := fakeProvider(t)

	w := httptest.NewRecorder()
	setupOAuthRouter(provider).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/auth-config", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Enabled)
	assert.True(t, resp.RequireAuthentication)
	assert.Equal(t, oauth.ProviderCustom, resp.Provider)
	assert.Equal(t, "http://localhost:5173/callback", resp.RedirectURI)
	assert.True(t, strings.HasPrefix(resp.AuthURL, provider.AuthURL+"?"), resp.AuthURL)
	assert.Contains(t, resp.AuthURL, "client_id=client-id")

	w = httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/auth-config", nil))
	require.Equal(t, http.StatusOK, w.Code)

	resp = AuthConfigResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Enabled)
	assert.Empty(t, resp.AuthURL)
}
