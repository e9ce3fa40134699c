package user

import (
	"giftlink/backend/internal/model"

	"github.com/gin-gonic/gin"
)

// authResponse is the body returned by every endpoint that issues a token.
// The password hash never leaves the server.
func authResponse(token string, u *model.User) gin.H {
	return gin.H{
		"token": token,
		"user": gin.H{
			"id":        u.ID,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"email":     u.Email,
			"name":      u.FullName(),
		},
	}
}
