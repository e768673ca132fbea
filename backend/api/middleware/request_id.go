package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIdKey = "X-Request-Id"

func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIdKey, id)
		c.Header(RequestIdKey, id)
		c.Next()
	}
}
