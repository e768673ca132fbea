package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"drivebox/backend/common"
	"drivebox/backend/library/storage"
	"drivebox/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	store  *model.FileStore
	disk   *storage.DiskStorage
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	common.RedisEnabled = false

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api_test.db")), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.File{}))

	disk, err := storage.NewDiskStorage(t.TempDir())
	assert.NoError(t, err)

	store := model.NewFileStore(db)
	fileAPI := NewFileAPI(store, disk)
	folderAPI := NewFolderAPI(store)

	router := gin.New()
	router.GET("/api/v1/files", fileAPI.GetFiles)
	router.POST("/api/v1/files/upload", fileAPI.UploadFile)
	router.PATCH("/api/v1/files/:id", fileAPI.UpdateFile)
	router.DELETE("/api/v1/files/:id", fileAPI.DeleteFile)
	router.GET("/api/v1/files/:id/download", fileAPI.DownloadFile)
	router.POST("/api/v1/folders", folderAPI.CreateFolder)

	return &testEnv{router: router, store: store, disk: disk}
}

func (env *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func newJSONRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest(method, path, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newUploadRequest(t *testing.T, filename, mimetype, content, parentID string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if parentID != "" {
		assert.NoError(t, writer.WriteField("parentId", parentID))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", mimetype)
	part, err := writer.CreatePart(h)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/files/upload", &body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestFolderUploadListRoundTrip(t *testing.T) {
	env := setupTestEnv(t)

	// Create folder "Reports" at root.
	recorder := env.do(t, newJSONRequest(t, http.MethodPost, "/api/v1/folders",
		map[string]any{"folderName": "Reports"}))
	assert.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "success", payload["status"])
	folder := payload["folder"].(map[string]any)
	folderID := fmt.Sprintf("%.0f", folder["id"].(float64))

	// Upload q1.pdf into it.
	recorder = env.do(t, newUploadRequest(t, "q1.pdf", "application/pdf", "pdf bytes", folderID))
	assert.Equal(t, http.StatusOK, recorder.Code)
	payload = decodeBody(t, recorder)
	assert.Equal(t, "File uploaded successfully", payload["message"])
	uploaded := payload["file"].(map[string]any)
	assert.Equal(t, "q1.pdf", uploaded["originalname"])
	assert.Equal(t, "application/pdf", uploaded["mimetype"])

	// Listing the folder returns exactly that one FILE entry.
	recorder = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?parentId="+folderID, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	payload = decodeBody(t, recorder)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, float64(1), payload["total"])
	entries := payload["data"].([]any)
	assert.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "q1.pdf", entry["name"])
	assert.Equal(t, "FILE", entry["objectType"])
}

func TestGetFilesDefaultsToRootLevel(t *testing.T) {
	env := setupTestEnv(t)

	folder, err := env.store.CreateFolder(nil, "Inbox")
	assert.NoError(t, err)
	_, err = env.store.CreateFolder(&folder.ID, "Nested")
	assert.NoError(t, err)

	recorder := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(1), payload["total"])
	entry := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Inbox", entry["name"])
}

func TestGetFilesPagination(t *testing.T) {
	env := setupTestEnv(t)
	for i := 0; i < 45; i++ {
		_, err := env.store.CreateFolder(nil, fmt.Sprintf("folder-%02d", i))
		assert.NoError(t, err)
	}

	recorder := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?page=1&pageSize=20", nil))
	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(45), payload["total"])
	assert.Len(t, payload["data"].([]any), 20)

	recorder = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?page=3&pageSize=20", nil))
	payload = decodeBody(t, recorder)
	assert.Len(t, payload["data"].([]any), 5)

	// Missing pageSize is still bounded by the boundary default.
	recorder = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))
	payload = decodeBody(t, recorder)
	assert.Len(t, payload["data"].([]any), common.ItemsPerPage)
}

func TestGetFilesRejectsBadNumbers(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["message"], "invalid number format: abc")

	recorder = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?parentId=seven", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetFilesRejectsNaNPageSize(t *testing.T) {
	env := setupTestEnv(t)
	for i := 0; i < 45; i++ {
		_, err := env.store.CreateFolder(nil, fmt.Sprintf("folder-%02d", i))
		assert.NoError(t, err)
	}

	// A NaN page size must be a 400, not an unbounded listing.
	recorder := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?pageSize=NaN", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, decodeBody(t, recorder)["message"], "invalid number format: NaN")

	recorder = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?page=Inf", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetFilesEmptyParentFiltersToRoot(t *testing.T) {
	env := setupTestEnv(t)
	folder, err := env.store.CreateFolder(nil, "Top")
	assert.NoError(t, err)
	_, err = env.store.CreateFolder(&folder.ID, "Nested")
	assert.NoError(t, err)

	// "?parentId=" behaves like an absent parentId: root level only.
	recorder := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files?parentId=", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(1), payload["total"])
	entry := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Top", entry["name"])
}

func TestUpdateFileRenames(t *testing.T) {
	env := setupTestEnv(t)
	folder, err := env.store.CreateFolder(nil, "Old Name")
	assert.NoError(t, err)

	recorder := env.do(t, newJSONRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/v1/files/%d", folder.ID), map[string]any{"name": "New Name"}))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "success", decodeBody(t, recorder)["status"])

	renamed, err := env.store.GetByID(folder.ID)
	assert.NoError(t, err)
	assert.Equal(t, "New Name", renamed.Name)
}

func TestUpdateFileRejectsInvalidInput(t *testing.T) {
	env := setupTestEnv(t)
	folder, err := env.store.CreateFolder(nil, "Keep")
	assert.NoError(t, err)

	recorder := env.do(t, newJSONRequest(t, http.MethodPatch, "/api/v1/files/abc",
		map[string]any{"name": "x"}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "No file targeted", decodeBody(t, recorder)["message"])

	recorder = env.do(t, newJSONRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/v1/files/%d", folder.ID), map[string]any{"name": "bad/name"}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Filename contains invalid characters", decodeBody(t, recorder)["message"])
}

func TestUpdateFileUnknownIDIsSilentSuccess(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, newJSONRequest(t, http.MethodPatch, "/api/v1/files/999",
		map[string]any{"name": "ghost"}))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "success", decodeBody(t, recorder)["status"])
}

func TestDeleteFileSoftDeletes(t *testing.T) {
	env := setupTestEnv(t)
	folder, err := env.store.CreateFolder(nil, "Trash me")
	assert.NoError(t, err)

	recorder := env.do(t, httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/files/%d", folder.ID), nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	kept, err := env.store.GetByID(folder.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.FileStatusSoftDeleted, kept.Status)

	recorder = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))
	assert.Equal(t, float64(0), decodeBody(t, recorder)["total"])
}

func TestDeleteFileRejectsBadID(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/files/nope", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "No file selected", decodeBody(t, recorder)["message"])
}

func TestUploadRejectsMissingFile(t *testing.T) {
	env := setupTestEnv(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	assert.NoError(t, writer.WriteField("parentId", "1"))
	assert.NoError(t, writer.Close())
	req, err := http.NewRequest(http.MethodPost, "/api/v1/files/upload", &body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	recorder := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "No file uploaded", decodeBody(t, recorder)["message"])
}

func TestUploadRejectsBlockedType(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, newUploadRequest(t, "virus.exe", "application/octet-stream", "MZ", ""))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, decodeBody(t, recorder)["message"], "File type not allowed")
}

func TestUploadMissingParentLeavesNoOrphanOnDisk(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, newUploadRequest(t, "lost.pdf", "application/pdf", "pdf bytes", "999999"))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, decodeBody(t, recorder)["message"], "Parent folder with id 999999 does not exist")

	// The pre-written bytes must have been cleaned up.
	entries, err := os.ReadDir(env.disk.Root())
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadStreamsStoredBytes(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, newUploadRequest(t, "q1.pdf", "application/pdf", "pdf bytes", ""))
	assert.Equal(t, http.StatusOK, recorder.Code)

	files, _, err := env.store.List(model.ListFilesParams{Status: model.FileStatusActive})
	assert.NoError(t, err)
	assert.Len(t, files, 1)

	recorder = env.do(t, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/files/%d/download", files[0].ID), nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pdf bytes", recorder.Body.String())
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "q1.pdf")
}

func TestDownloadUnknownIDReturns404(t *testing.T) {
	env := setupTestEnv(t)

	recorder := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/files/9000/download", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
