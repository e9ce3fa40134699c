package user

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"giftlink/backend/internal"
	"giftlink/backend/internal/store"
	"giftlink/backend/pkg/middleware"
	"giftlink/backend/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fields are pointers so a field that was sent empty can be told apart
// from one that wasn't sent at all
type updateBody struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Name      *string `json:"name"`
	Password  *string `json:"password"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (b *updateBody) validate() []fieldError {
	var errs []fieldError

	if b.FirstName != nil && *b.FirstName == "" {
		errs = append(errs, fieldError{"firstName", "First name cannot be empty"})
	}

	if b.LastName != nil && *b.LastName == "" {
		errs = append(errs, fieldError{"lastName", "Last name cannot be empty"})
	}

	if b.Name != nil && *b.Name == "" {
		errs = append(errs, fieldError{"name", "Name cannot be empty"})
	}

	if b.Password != nil {
		switch err := validators.PasswordValidator(*b.Password); {
		case errors.Is(err, validators.ErrPasswordTooLong):
			errs = append(errs, fieldError{"password", "Password must be at most 72 characters"})
		case err != nil:
			errs = append(errs, fieldError{"password", "Password must be at least 6 characters"})
		}
	}

	return errs
}

// UserUpdate edits the name and/or password of the authenticated user. The
// Email header has to match the email inside the token.
func UserUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	ctx := c.Request.Context()

	var data updateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if errs := data.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors":    errs,
			"requestID": requestID,
		})

		zap.L().Debug("Validation errors in update request", zap.Any("errors", errs), zap.String("requestID", requestID))
		return
	}

	email := strings.ToLower(strings.TrimSpace(c.GetHeader("Email")))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Email not found in the request headers",
			"requestID": requestID,
		})
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok || strings.ToLower(claims.Email) != email {
		c.JSON(http.StatusForbidden, gin.H{
			"message":   "Email header does not match authenticated user",
			"requestID": requestID,
		})
		return
	}

	existing, err := d.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message":   "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	upd := store.UserUpdate{}

	if data.FirstName != nil {
		if v := strings.TrimSpace(*data.FirstName); v != "" {
			upd.FirstName = &v
		}
	}

	if data.LastName != nil {
		if v := strings.TrimSpace(*data.LastName); v != "" {
			upd.LastName = &v
		}
	}

	// A full name wins over the separate fields
	if data.Name != nil {
		if first, last, err := validators.SplitFullName(*data.Name); err == nil {
			upd.FirstName = &first
			upd.LastName = &last
		}
	}

	if data.Password != nil {
		hash, err := d.Hasher.Hash(*data.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message":   "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		upd.PasswordHash = &hash
	}

	if upd.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "No fields provided for update.",
			"requestID": requestID,
		})
		return
	}

	upd.UpdatedAt = time.Now()

	if err := d.Users.Update(ctx, existing.ID, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message":   "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Failed to update user profile",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	updated, err := d.Users.ByID(ctx, existing.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Failed to load updated user profile",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := d.Tokens.Issue(updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("User profile updated", zap.String("email", updated.Email), zap.String("requestID", requestID))

	c.JSON(http.StatusOK, authResponse(token, updated))
}
