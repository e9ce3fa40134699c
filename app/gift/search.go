package gift

import (
	"net/http"
	"strconv"
	"strings"

	"giftlink/backend/internal"
	"giftlink/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GiftSearch filters gifts by name, category, condition and maximum age.
// Every filter is optional. Only the leading integer of age_years is used, so
// "5.5" and "5yrs" both mean 5 and an age without one is ignored.
func GiftSearch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	filter := store.GiftFilter{
		Name:      strings.TrimSpace(c.Query("name")),
		Category:  c.Query("category"),
		Condition: c.Query("condition"),
	}

	if age, ok := leadingInt(c.Query("age_years")); ok {
		filter.MaxAgeYears = &age
	}

	results, err := d.Gifts.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find gifts by search query", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, results)
}

// leadingInt parses an optionally signed run of digits at the start of s,
// after any leading whitespace. Whatever follows the digits is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}
