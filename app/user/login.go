package user

import (
	"errors"
	"net/http"
	"strings"

	"giftlink/backend/internal"
	"giftlink/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Email = strings.ToLower(strings.TrimSpace(data.Email))

	if data.Email == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Email and password are required.",
			"requestID": requestID,
		})
		return
	}

	// Unknown emails and wrong passwords get the exact same response so
	// the endpoint can't be used to find out who has an account
	invalidCredentials := func() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message":   "Invalid email or password.",
			"requestID": requestID,
		})
	}

	user, err := d.Users.ByEmail(c.Request.Context(), data.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			invalidCredentials()
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error logging in user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := d.Hasher.Verify(data.Password, user.PasswordHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error logging in user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		invalidCredentials()
		return
	}

	token, err := d.Tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error logging in user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("User logged in successfully", zap.String("email", user.Email), zap.String("requestID", requestID))

	c.JSON(http.StatusOK, authResponse(token, user))
}
