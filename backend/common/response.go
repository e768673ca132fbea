package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope every JSON endpoint answers with.
// Status is "success" or "error"; Message carries the error text.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// 时间格式常量
const (
	RFC3339MilliZ = "2006-01-02T15:04:05.000Z07:00"
)

// RespSuccess 响应成功，可附带额外字段
func RespSuccess(c *gin.Context, extra gin.H) {
	payload := gin.H{"status": StatusSuccess}
	for k, v := range extra {
		payload[k] = v
	}
	c.JSON(http.StatusOK, payload)
}

// RespSuccessStr 响应成功，无额外数据
func RespSuccessStr(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{Status: StatusSuccess})
}

// RespError 响应错误，包含错误信息
func RespError(c *gin.Context, statusCode int, msg string, err error) {
	errMsg := msg
	if err != nil {
		errMsg = msg + ": " + err.Error()
	}

	c.JSON(statusCode, APIResponse{
		Status:  StatusError,
		Message: errMsg,
	})
}

// RespErrorStr 响应错误，只包含错误消息
func RespErrorStr(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, APIResponse{
		Status:  StatusError,
		Message: msg,
	})
}

// RespErrorCode 响应错误，附带机器可读的错误码
func RespErrorCode(c *gin.Context, statusCode int, msg string, code string) {
	c.JSON(statusCode, APIResponse{
		Status:  StatusError,
		Message: msg,
		Code:    code,
	})
}

// FormatTime 格式化时间为RFC3339MilliZ格式
func FormatTime(t time.Time) string {
	return t.Format(RFC3339MilliZ)
}
