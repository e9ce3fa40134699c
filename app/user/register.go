package user

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"giftlink/backend/internal"
	"giftlink/backend/internal/model"
	"giftlink/backend/internal/store"
	"giftlink/backend/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.FirstName = strings.TrimSpace(data.FirstName)
	data.LastName = strings.TrimSpace(data.LastName)
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))

	if data.FirstName == "" || data.LastName == "" || data.Email == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "All fields are required.",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   err.Error(),
			"requestID": requestID,
		})
		return
	}

	if len(data.Password) > validators.MaxPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   validators.ErrPasswordTooLong.Error(),
			"requestID": requestID,
		})
		return
	}

	_, err := d.Users.ByEmail(c.Request.Context(), data.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"message":   "User with this email already exists.",
			"requestID": requestID,
		})
		return
	}

	if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error registering user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	hash, err := d.Hasher.Hash(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error registering user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := &model.User{
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := d.Users.Create(c.Request.Context(), user); err != nil {
		// Someone registered the same email between the check and the insert
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{
				"message":   "User with this email already exists.",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error registering user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := d.Tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error registering user",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("User registered successfully", zap.String("email", user.Email), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, authResponse(token, user))
}
