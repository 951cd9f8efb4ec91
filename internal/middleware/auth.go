package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/orchestra-io/orchestra/internal/utils/request"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	identityKey = "identity"
)

type Dependencies struct {
	Config AuthConfig
}

// AuthConfig holds the configuration for JWT authentication
type AuthConfig struct {
	JwtSecret string
	// RequireAuthentication disables all checks when false.
	RequireAuthentication bool
	// AllowAnonymousRead lets requests without credentials through for safe methods.
	AllowAnonymousRead bool
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// Claims represents the JWT claims structure. Subject carries the username.
type Claims struct {
	UserID string   `json:"user_id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
	Type   string   `json:"type"`
	jwt.RegisteredClaims
}

// Identity is the caller as seen by handlers.
type Identity struct {
	Username  string   `json:"username"`
	UserID    string   `json:"user_id,omitempty"`
	Scopes    []string `json:"scopes"`
	Anonymous bool     `json:"anonymous,omitempty"`
}

var (
	errMissingHeader = errors.New("authorization header is required")
	errInvalidToken  = errors.New("could not validate credentials")
	errExpiredToken  = errors.New("token has expired")
	errTokenType     = errors.New("invalid token type")
)

var anonymous = Identity{Username: "anonymous", Scopes: []string{}, Anonymous: true}

func Auth(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !deps.Config.RequireAuthentication {
			c.Set(identityKey, anonymous)
			c.Next()

			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if deps.Config.AllowAnonymousRead && isReadOnly(c.Request.Method) {
				c.Set(identityKey, anonymous)
				c.Next()

				return
			}

			unauthorized(c, errMissingHeader)

			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, errors.New("invalid Authorization header format"))
			return
		}

		claims, err := ParseToken(deps.Config, strings.TrimPrefix(authHeader, "Bearer "), TokenTypeAccess)
		if err != nil {
			unauthorized(c, err)
			return
		}

		c.Set(identityKey, Identity{
			Username: claims.Subject,
			UserID:   claims.UserID,
			Scopes:   claims.Scopes,
		})

		c.Next()
	}
}

// ParseToken validates tokenString and checks that it is of tokenType.
func ParseToken(config AuthConfig, tokenString, tokenType string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is required")
	}

	if config.JwtSecret == "" {
		return nil, errors.New("JWT secret not provided")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(config.JwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errExpiredToken
		}

		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errInvalidToken
	}

	if claims.Type != tokenType {
		return nil, errTokenType
	}

	return claims, nil
}

// IssueToken signs a token of tokenType for claims, expiring after the
// configured TTL for that type.
func IssueToken(config AuthConfig, claims Claims, tokenType string, now time.Time) (string, time.Duration, error) {
	if config.JwtSecret == "" {
		return "", 0, errors.New("JWT secret not provided")
	}

	ttl := config.AccessTokenTTL
	if tokenType == TokenTypeRefresh {
		ttl = config.RefreshTokenTTL
	}

	claims.Type = tokenType
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JwtSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, ttl, nil
}

// GetIdentity extracts the caller from Gin context
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}

	identity, ok := v.(Identity)

	return identity, ok
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func unauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	request.AbortWithError(c, http.StatusUnauthorized, "unauthorized", err.Error())
}
