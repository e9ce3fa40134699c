package gift

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"giftlink/backend/internal"
	"giftlink/backend/internal/model"
	"giftlink/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createBody struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
	AgeDays     int     `json:"age_days"`
	AgeYears    float64 `json:"age_years"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	DateAdded   int64   `json:"date_added"`
}

// GiftCreate stores a new gift. When the caller is authenticated the gift
// is stamped with their user ID.
func GiftCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data createBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Gift name is required",
			"requestID": requestID,
		})
		return
	}

	if data.AgeDays < 0 || data.AgeYears < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Gift age can't be negative",
			"requestID": requestID,
		})
		return
	}

	now := time.Now()
	if data.DateAdded == 0 {
		data.DateAdded = now.Unix()
	}

	gift := &model.Gift{
		AppID:       strings.TrimSpace(data.ID),
		Name:        data.Name,
		Category:    data.Category,
		Condition:   data.Condition,
		AgeDays:     data.AgeDays,
		AgeYears:    data.AgeYears,
		Description: data.Description,
		Image:       data.Image,
		DateAdded:   data.DateAdded,
		CreatedBy:   c.GetString("userID"),
		CreatedAt:   now,
	}

	if err := d.Gifts.Create(c.Request.Context(), gift); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{
				"message":   "Gift already exists",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error creating gift",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create gift", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gift)
}
