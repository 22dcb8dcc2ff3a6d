package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/usecase"
)

// ActorHeader names the staff member performing a request.
const ActorHeader = "X-Actor"

// Actor stores the request's actor in its context so mutations are stamped with it.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := c.GetHeader(ActorHeader); actor != "" {
			c.Request = c.Request.WithContext(usecase.WithActor(c.Request.Context(), actor))
		}
		c.Next()
	}
}
