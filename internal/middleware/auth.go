package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/yashas-13/inv-123/internal/apierror"
	"github.com/yashas-13/inv-123/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey    = "claims"
	APIKeyHeader = "X-API-Key"

	// apiKeyUsername identifies requests authenticated by the shared key.
	apiKeyUsername = "api-key"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	StoreID  *string `json:"store_id,omitempty"`
	// TokenType is "access" or "refresh".
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Authenticate accepts either a Bearer access token or, when apiKey is not
// empty, the X-API-Key header. Key holders act with the manufacturer role.
func Authenticate(secret, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(APIKeyHeader); key != "" {
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid API key"))
				return
			}
			c.Set(ClaimsKey, &JWTClaims{Username: apiKeyUsername, Role: model.RoleArivu})
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid || claims.TokenType != model.TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireStoreAccess lets manufacturer roles through and restricts store
// users to the store named by the path parameter.
func RequireStoreAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Insufficient permissions"))
			return
		}
		switch claims.Role {
		case model.RoleAdmin, model.RoleArivu:
			c.Next()
			return
		case model.RoleStore:
			if claims.StoreID != nil && *claims.StoreID == c.Param(param) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Access to this store is not allowed"))
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
