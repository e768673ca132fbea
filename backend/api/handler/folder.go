package handler

import (
	"errors"
	"net/http"

	"drivebox/backend/common"
	apierrors "drivebox/backend/common/errors"
	"drivebox/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FolderAPI serves the /folders endpoints.
type FolderAPI struct {
	store *model.FileStore
}

func NewFolderAPI(store *model.FileStore) *FolderAPI {
	return &FolderAPI{store: store}
}

// createFolderRequest accepts parentId as any JSON scalar; the coercion
// helper below sorts out numbers and numeric strings.
type createFolderRequest struct {
	FolderName string `json:"folderName" validate:"required"`
	ParentID   any    `json:"parentId"`
}

// CreateFolder creates an objectType FOLDER entry under an optional parent.
func (api *FolderAPI) CreateFolder(c *gin.Context) {
	var payload createFolderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, "Invalid request body", apierrors.ErrInvalidParam)
		return
	}
	if err := validate.Struct(&payload); err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, "Filename cannot be empty", apierrors.ErrInvalidFilename)
		return
	}
	if msg := common.ValidateFilename(payload.FolderName); msg != "" {
		common.RespErrorCode(c, http.StatusBadRequest, msg, apierrors.ErrInvalidFilename)
		return
	}

	// A falsy parentId (absent, null, zero, empty string) creates at the
	// root level; only a real value goes through coercion. The string "0"
	// is not falsy and fails the parent check below.
	var parentID *int64
	if !falsyParentID(payload.ParentID) {
		parentValue, err := common.ConvertToNumber(payload.ParentID)
		if err != nil {
			common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInvalidParam)
			return
		}
		if parentValue != nil {
			id := int64(*parentValue)
			parentID = &id
		}
	}

	folder, err := api.store.CreateFolder(parentID, payload.FolderName)
	if err != nil {
		var parentErr *model.ParentNotFoundError
		if errors.As(err, &parentErr) {
			common.RespErrorCode(c, http.StatusBadRequest, parentErr.Error(), apierrors.ErrParentNotFound)
			return
		}
		common.SysError("failed to create folder " + payload.FolderName + ": " + err.Error())
		common.RespErrorCode(c, http.StatusInternalServerError, "Failed to create folder", apierrors.ErrInternalServer)
		return
	}

	common.RespSuccess(c, gin.H{"folder": folder})
}

func falsyParentID(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	}
	return false
}
