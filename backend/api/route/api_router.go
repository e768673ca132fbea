package route

import (
	"drivebox/backend/api/handler"
	"drivebox/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

// SetAPIRouter mounts the JSON API under /api/v1.
func SetAPIRouter(router *gin.Engine, fileAPI *handler.FileAPI, folderAPI *handler.FolderAPI) {
	router.Use(middleware.RequestId())

	apiRouter := router.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		v1Router := apiRouter.Group("/v1")
		{
			fileRoute := v1Router.Group("/files")
			{
				fileRoute.GET("", fileAPI.GetFiles)
				fileRoute.POST("/upload", fileAPI.UploadFile)
				fileRoute.PATCH("/:id", fileAPI.UpdateFile)
				fileRoute.DELETE("/:id", fileAPI.DeleteFile)
				fileRoute.GET("/:id/download", fileAPI.DownloadFile)
			}

			v1Router.POST("/folders", folderAPI.CreateFolder)

			v1Router.GET("/status", handler.GetStatus)
		}
	}
}
