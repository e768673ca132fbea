package middleware

import (
	"drivebox/backend/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = common.CORSAllowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	config.AllowHeaders = []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"}
	config.AllowCredentials = true
	return cors.New(config)
}
