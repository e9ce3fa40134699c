// Package gift contains the gift listing, detail, creation and search endpoints
package gift

import (
	"net/http"

	"giftlink/backend/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func GiftList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	gifts, err := d.Gifts.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Error fetching gifts",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch gifts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gifts)
}
