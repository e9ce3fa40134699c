// Package image contains the gift image upload endpoint
package image

import (
	"errors"
	"net/http"

	"giftlink/backend/internal"
	"giftlink/backend/pkg/util"
	"giftlink/backend/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageUpload stores the multipart "image" file in object storage and
// returns its key and public URL, to be used as a gift's image
func ImageUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"message":   validators.ErrFileTooLarge.Error(),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"message":   validators.ErrNoFile.Error(),
			"requestID": requestID,
		})
		return
	}

	status, f, mime, err := validators.ImageValidator(fh, d.MaxUploadSize)
	if err != nil {
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{
				"message":   "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to validate image", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.JSON(status, gin.H{
			"message":   err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	id, err := util.NewID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate image key", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	key := "gifts/" + id + mime.Extension()

	url, err := d.Images.Upload(c.Request.Context(), key, mime.String(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload image", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key": key,
		"url": url,
	})
}
