package handler

import (
	"errors"
	"net/http"
	"path/filepath"

	"drivebox/backend/common"
	apierrors "drivebox/backend/common/errors"
	"drivebox/backend/library/storage"
	"drivebox/backend/model"

	"github.com/gin-gonic/gin"
)

// FileAPI serves the /files endpoints. Store and storage are injected.
type FileAPI struct {
	store *model.FileStore
	disk  *storage.DiskStorage
}

func NewFileAPI(store *model.FileStore, disk *storage.DiskStorage) *FileAPI {
	return &FileAPI{store: store, disk: disk}
}

// GetFiles lists active entries filtered by parent folder and search text,
// paginated. An absent parentId, or the literal string "null", lists the
// root level.
func (api *FileAPI) GetFiles(c *gin.Context) {
	page, err := common.ConvertToNumber(c.Query("page"), common.NumberOptions{Default: common.Float64(1)})
	if err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInvalidParam)
		return
	}
	pageSize, err := common.ConvertToNumber(c.Query("pageSize"),
		common.NumberOptions{Default: common.Float64(float64(common.ItemsPerPage))})
	if err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInvalidParam)
		return
	}

	// Empty, absent and "null" all mean the root level, so "?parentId="
	// lists root instead of matching nothing.
	parentFilter := model.PatchNull[int64]()
	if raw := c.Query("parentId"); raw != "" && raw != "null" {
		parsed, err := common.ConvertToNumber(raw)
		if err != nil {
			common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInvalidParam)
			return
		}
		parentFilter = model.PatchValue(int64(*parsed))
	}

	files, total, err := api.store.List(model.ListFilesParams{
		Page:     int(*page),
		PageSize: int(*pageSize),
		ParentID: parentFilter,
		Search:   c.Query("search"),
		Status:   model.FileStatusActive,
	})
	if err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInternalServer)
		return
	}
	if files == nil {
		files = []*model.File{}
	}

	common.RespSuccess(c, gin.H{"data": files, "total": total})
}

// UpdateFile renames an entry. Renaming an id that no longer exists is a
// silent success, mirroring the delete contract.
func (api *FileAPI) UpdateFile(c *gin.Context) {
	fileID, err := common.ConvertToNumber(c.Param("id"))
	if err != nil || fileID == nil {
		common.RespErrorCode(c, http.StatusBadRequest, "No file targeted", apierrors.ErrNoFileTargeted)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	// A malformed body leaves Name empty and fails filename validation below.
	_ = c.ShouldBindJSON(&payload)

	if msg := common.ValidateFilename(payload.Name); msg != "" {
		common.RespErrorCode(c, http.StatusBadRequest, msg, apierrors.ErrInvalidFilename)
		return
	}

	if _, err := api.store.Update(int64(*fileID), model.UpdateFileInput{Name: &payload.Name}); err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInternalServer)
		return
	}
	common.RespSuccessStr(c)
}

// DeleteFile soft-deletes an entry: the row stays, default listings skip it.
func (api *FileAPI) DeleteFile(c *gin.Context) {
	fileID, err := common.ConvertToNumber(c.Param("id"))
	if err != nil || fileID == nil {
		common.RespErrorCode(c, http.StatusBadRequest, "No file selected", apierrors.ErrNoFileTargeted)
		return
	}

	if err := api.store.SoftDelete(int64(*fileID)); err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInternalServer)
		return
	}
	common.RespSuccessStr(c)
}

// UploadFile stores the uploaded bytes on disk, then records the metadata
// row. When the insert fails the orphaned file is removed best-effort.
func (api *FileAPI) UploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, "No file uploaded", apierrors.ErrNoFileUploaded)
		return
	}

	parentValue, err := common.ConvertToNumber(c.PostForm("parentId"))
	if err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), apierrors.ErrInvalidParam)
		return
	}
	var parentID *int64
	if parentValue != nil {
		id := int64(*parentValue)
		parentID = &id
	}

	if err := storage.CheckUpload(fh); err != nil {
		code := apierrors.ErrFileTypeBlocked
		if errors.Is(err, storage.ErrFileTooLarge) {
			code = apierrors.ErrFileTooLarge
		}
		common.RespErrorCode(c, http.StatusBadRequest, err.Error(), code)
		return
	}

	key, err := api.disk.Save(fh)
	if err != nil {
		common.SysError("failed to store upload " + fh.Filename + ": " + err.Error())
		common.RespErrorCode(c, http.StatusInternalServerError, "Failed to upload file", apierrors.ErrUploadFailed)
		return
	}

	size := fh.Size
	mimetype := fh.Header.Get("Content-Type")
	storedPath := filepath.ToSlash(filepath.Join(api.disk.Root(), key))

	_, err = api.store.Create(model.CreateFileInput{
		ParentID:   parentID,
		Name:       fh.Filename,
		Size:       &size,
		Mimetype:   &mimetype,
		ObjectType: model.ObjectTypeFile,
		StorageKey: &key,
	})
	if err != nil {
		if rmErr := api.disk.Remove(key); rmErr != nil {
			common.SysError("failed to clean up orphaned upload " + key + ": " + rmErr.Error())
		}
		var parentErr *model.ParentNotFoundError
		if errors.As(err, &parentErr) {
			common.RespErrorCode(c, http.StatusBadRequest, parentErr.Error(), apierrors.ErrParentNotFound)
			return
		}
		common.SysError("failed to record upload " + fh.Filename + ": " + err.Error())
		common.RespErrorCode(c, http.StatusInternalServerError, "Failed to upload file", apierrors.ErrUploadFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"file": gin.H{
			"originalname": fh.Filename,
			"filename":     key,
			"mimetype":     mimetype,
			"size":         fh.Size,
			"path":         storedPath,
		},
	})
}

// DownloadFile streams the stored bytes back under the entry's original name.
func (api *FileAPI) DownloadFile(c *gin.Context) {
	fileID, err := common.ConvertToNumber(c.Param("id"))
	if err != nil || fileID == nil {
		common.RespErrorCode(c, http.StatusBadRequest, "No file targeted", apierrors.ErrNoFileTargeted)
		return
	}

	file, err := api.store.GetByID(int64(*fileID))
	if err != nil {
		common.RespErrorCode(c, http.StatusInternalServerError, "Failed to look up file", apierrors.ErrInternalServer)
		return
	}
	if file == nil || file.StorageKey == nil {
		common.RespErrorCode(c, http.StatusNotFound, "File not found", apierrors.ErrFileNotFound)
		return
	}

	fullPath, err := api.disk.Path(*file.StorageKey)
	if err != nil {
		common.RespErrorCode(c, http.StatusBadRequest, "Invalid file path", apierrors.ErrInvalidParam)
		return
	}
	c.FileAttachment(fullPath, file.Name)
}
