package route

import (
	"drivebox/backend/api/handler"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// SetRouter wires the API routes and the read-only static mount of the
// uploads directory.
func SetRouter(router *gin.Engine, fileAPI *handler.FileAPI, folderAPI *handler.FolderAPI, uploadRoot string) {
	SetAPIRouter(router, fileAPI, folderAPI)

	router.Use(static.Serve("/upload", static.LocalFile(uploadRoot, false)))
}
