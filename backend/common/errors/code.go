package errors

// 通用错误码
const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"
)

// 文件相关错误码
const (
	ErrNoFileTargeted  = "ERR_NO_FILE_TARGETED"
	ErrNoFileUploaded  = "ERR_NO_FILE_UPLOADED"
	ErrInvalidFilename = "ERR_INVALID_FILENAME"
	ErrFileTooLarge    = "ERR_FILE_TOO_LARGE"
	ErrFileTypeBlocked = "ERR_FILE_TYPE_BLOCKED"
	ErrParentNotFound  = "ERR_PARENT_NOT_FOUND"
	ErrFileNotFound    = "ERR_FILE_NOT_FOUND"
	ErrUploadFailed    = "ERR_UPLOAD_FAILED"
)
