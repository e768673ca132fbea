package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"

	"drivebox/backend/api/handler"
	"drivebox/backend/api/middleware"
	"drivebox/backend/api/route"
	"drivebox/backend/common"
	"drivebox/backend/library/storage"
	"drivebox/backend/model"

	"github.com/gin-gonic/gin"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	if err := common.LoadConfigFile(); err != nil {
		common.FatalLog(err)
	}
	common.SetupGinLog()
	common.SysLog(common.SystemName + " " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := common.InitRedisClient(); err != nil {
		common.FatalLog(err)
	}

	db, err := model.InitDB()
	if err != nil {
		common.FatalLog(err)
	}
	defer func() {
		if err := model.CloseDB(db); err != nil {
			common.FatalLog(err)
		}
	}()

	disk, err := storage.NewDiskStorage(common.UploadPath)
	if err != nil {
		common.FatalLog(err)
	}

	store := model.NewFileStore(db)
	fileAPI := handler.NewFileAPI(store, disk)
	folderAPI := handler.NewFolderAPI(store)

	server := gin.Default()
	server.Use(middleware.CORS())

	route.SetRouter(server, fileAPI, folderAPI, disk.Root())
	server.NoRoute(func(c *gin.Context) {
		common.RespErrorStr(c, http.StatusNotFound, "API route not found")
	})

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)
	if err := server.Run(":" + port); err != nil {
		log.Fatal("failed to start server: " + err.Error())
	}
}
