package gift

import (
	"errors"
	"net/http"

	"giftlink/backend/internal"
	"giftlink/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func GiftFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	giftID := c.Param("id")
	if giftID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "No gift ID provided",
			"requestID": requestID,
		})
		return
	}

	gift, err := d.Gifts.ByID(c.Request.Context(), giftID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message":   "Gift not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error fetching gift",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch gift from db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gift)
}
