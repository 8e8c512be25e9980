package middleware

import (
	"time"

	"parley/internal/repository"

	"github.com/gin-gonic/gin"
)

// TrackActivity records (user, client, route) hits in the activity log after
// the handler runs. Best effort; failures never affect the response.
func TrackActivity(repo *repository.ActivityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		userID := GetUserID(c)
		if userID == 0 {
			return
		}
		_ = repo.Touch(userID, GetClientName(c), c.FullPath(), time.Now())
	}
}
