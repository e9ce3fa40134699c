package middleware

import (
	"net/http"
	"strings"

	"giftlink/backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	EmailKey  = "email"
)

// NewJWTMiddleware rejects requests without a valid bearer token. On success
// the token claims are stored on the context under ClaimsKey, UserIDKey
// and EmailKey.
func NewJWTMiddleware(t *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "Authorization token missing",
				"requestID": requestID,
			})
			return
		}

		claims, err := t.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "Invalid or expired token",
				"requestID": requestID,
			})

			zap.L().Debug("JWT verification failed", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// NewOptionalJWTMiddleware attaches the token claims when a valid bearer
// token is sent and lets anonymous requests through otherwise.
func NewOptionalJWTMiddleware(t *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := t.Parse(tokenStr); err == nil {
				setClaims(c, claims)
			}
		}

		c.Next()
	}
}

// GetClaims returns the claims attached by one of the JWT middlewares
func GetClaims(c *gin.Context) (*security.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}

	claims, ok := v.(*security.Claims)
	return claims, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")

	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}

	tokenStr = strings.TrimSpace(tokenStr)
	return tokenStr, tokenStr != ""
}

func setClaims(c *gin.Context, claims *security.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.UserID)
	c.Set(EmailKey, claims.Email)
}
