package handler

import (
	"drivebox/backend/common"

	"github.com/gin-gonic/gin"
)

// GetStatus is the liveness probe.
func GetStatus(c *gin.Context) {
	common.RespSuccess(c, gin.H{
		"data": gin.H{
			"system_name": common.SystemName,
			"version":     common.Version,
		},
	})
}
