package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"k8s.io/klog/v2"

	"github.com/orchestra-io/orchestra/internal/middleware"
	"github.com/orchestra-io/orchestra/internal/oauth"
	"github.com/orchestra-io/orchestra/internal/utils/request"
)

// Dependencies defines the dependencies for auth handlers
type Dependencies struct {
	AuthConfig middleware.AuthConfig
	// OAuth is the sign-in provider; sign-in is off when it is not enabled.
	OAuth oauth.Config
	// HTTPClient reaches the provider, nil uses http.DefaultClient.
	HTTPClient *http.Client
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type OAuthCallbackRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state"`
}

// SignInResponse is returned once the provider vouched for the user.
type SignInResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	User         *oauth.UserInfo `json:"user"`
}

// AuthConfigResponse tells a browser client how to sign in.
type AuthConfigResponse struct {
	Enabled               bool   `json:"enabled"`
	Provider              string `json:"provider,omitempty"`
	AuthURL               string `json:"auth_url,omitempty"`
	RedirectURI           string `json:"redirect_uri,omitempty"`
	RequireAuthentication bool   `json:"require_authentication"`
	AllowAnonymousRead    bool   `json:"allow_anonymous_read"`
}

// defaultScopes are granted to every user signed in through the provider.
var defaultScopes = []string{"user"}

// RegisterAuthRoutes registers authentication-related routes
func RegisterAuthRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	authGroup := group.Group("/auth")
	authGroup.Use(middlewares...)

	authGroup.POST("/refresh", handleRefresh(deps))
	authGroup.GET("/auth-config", handleAuthConfig(deps))

	if deps.OAuth.Enabled() {
		authGroup.POST("/oauth/callback", handleOAuthCallback(deps, oauth.New(deps.OAuth, deps.HTTPClient)))
	} else {
		authGroup.POST("/oauth/callback", func(c *gin.Context) {
			request.AbortWithError(c, http.StatusNotFound, "not_found", "OAuth sign-in is not configured")
		})
	}

	authGroup.GET("/me", middleware.Auth(middleware.Dependencies{
		Config: deps.AuthConfig,
	}), handleMe)
}

func handleMe(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		request.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	c.JSON(http.StatusOK, identity)
}

// handleRefresh exchanges a refresh token for a new access token carrying the
// identity and scopes recorded in the refresh token.
func handleRefresh(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			request.AbortWithError(c, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}

		claims, err := middleware.ParseToken(deps.AuthConfig, req.RefreshToken, middleware.TokenTypeRefresh)
		if err != nil {
			request.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "Invalid refresh token")
			return
		}

		accessToken, ttl, err := middleware.IssueToken(deps.AuthConfig, middleware.Claims{
			UserID:           claims.UserID,
			Email:            claims.Email,
			Scopes:           claims.Scopes,
			RegisteredClaims: jwt.RegisteredClaims{Subject: claims.Subject},
		}, middleware.TokenTypeAccess, time.Now())
		if err != nil {
			klog.Errorf("Failed to issue access token for %s: %v", claims.Subject, err)
			request.AbortWithError(c, http.StatusInternalServerError, "internal", "failed to issue access token")

			return
		}

		c.JSON(http.StatusOK, &TokenResponse{
			AccessToken: accessToken,
			TokenType:   "bearer",
			ExpiresIn:   int64(ttl.Seconds()),
		})
	}
}

func handleAuthConfig(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := AuthConfigResponse{
			Enabled:               deps.OAuth.Enabled(),
			RequireAuthentication: deps.AuthConfig.RequireAuthentication,
			AllowAnonymousRead:    deps.AuthConfig.AllowAnonymousRead,
		}

		if resp.Enabled {
			resp.Provider = deps.OAuth.Provider
			resp.AuthURL = oauth.New(deps.OAuth, nil).AuthCodeURL("")
			resp.RedirectURI = deps.OAuth.RedirectURL
		}

		c.JSON(http.StatusOK, resp)
	}
}

// handleOAuthCallback finishes a provider sign-in and issues an access and a
// refresh token for the user.
func handleOAuthCallback(deps *Dependencies, provider *oauth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OAuthCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			request.AbortWithError(c, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}

		user, err := provider.SignIn(c.Request.Context(), req.Code)
		if err != nil {
			klog.Warningf("OAuth sign-in through %s failed: %v", deps.OAuth.Provider, err)
			request.AbortWithError(c, http.StatusBadRequest, "invalid_input", "OAuth authentication failed: "+err.Error())

			return
		}

		claims := middleware.Claims{
			UserID:           user.ID,
			Email:            user.Email,
			Scopes:           defaultScopes,
			RegisteredClaims: jwt.RegisteredClaims{Subject: user.Username},
		}
		now := time.Now()

		accessToken, ttl, err := middleware.IssueToken(deps.AuthConfig, claims, middleware.TokenTypeAccess, now)
		if err != nil {
			klog.Errorf("Failed to issue access token for %s: %v", user.Username, err)
			request.AbortWithError(c, http.StatusInternalServerError, "internal", "failed to issue access token")

			return
		}

		refreshToken, _, err := middleware.IssueToken(deps.AuthConfig, claims, middleware.TokenTypeRefresh, now)
		if err != nil {
			klog.Errorf("Failed to issue refresh token for %s: %v", user.Username, err)
			request.AbortWithError(c, http.StatusInternalServerError, "internal", "failed to issue refresh token")

			return
		}

		klog.InfoS("User signed in", "user", user.Username, "provider", deps.OAuth.Provider)

		c.JSON(http.StatusOK, &SignInResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "bearer",
			ExpiresIn:    int64(ttl.Seconds()),
			User:         user,
		})
	}
}
