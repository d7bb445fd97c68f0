package utils

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendJSONError sends the standard {success:false, message, error?} envelope and
// logs the internal error. For 5xx responses the underlying error detail is only
// included outside release mode; clients get the public message either way.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error) {
	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', path='%s'",
			statusCode, publicMsg, internalError, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', path='%s'",
			statusCode, publicMsg, c.Request.URL.Path)
	}

	response := gin.H{
		"success": false,
		"message": publicMsg,
	}
	if internalError != nil && statusCode >= http.StatusInternalServerError && gin.Mode() != gin.ReleaseMode {
		response["error"] = internalError.Error()
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// SendJSONData sends the standard {success:true, data} envelope.
func SendJSONData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// NewDocumentID 生成文档主键
func NewDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewCommentID / NewReplyID keep the original comment id shape
// (prefix_millis_hex) so ids stay sortable by creation time.
func NewCommentID() string {
	return prefixedID("c")
}

func NewReplyID() string {
	return prefixedID("r")
}

func prefixedID(prefix string) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), short)
}

// FormatDate 格式化日期
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
