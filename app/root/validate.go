package root

import (
	"net/http"

	"giftlink/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Validate echoes the identity of a valid token
func Validate(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":    claims.UserID,
		"email":     claims.Email,
		"firstName": claims.FirstName,
		"lastName":  claims.LastName,
	})
}
