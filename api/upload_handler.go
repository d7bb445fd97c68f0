package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/utils"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w-]+`)

// UploadHandler stores multipart image uploads and returns their public URLs.
// POST /api/upload, field name "files".
func (h *APIHandler) UploadHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "上传失败，请重试", err)
		return
	}

	files := form.File["files"]
	if len(files) > h.maxUploadFiles {
		utils.SendJSONError(c, http.StatusBadRequest, "上传失败，请重试", nil)
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "上传失败，请稍后再试", err)
		return
	}

	uploaded := make([]models.UploadedFile, 0, len(files))
	for _, file := range files {
		mimeType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			utils.SendJSONError(c, http.StatusBadRequest, "仅支持图片上传", nil)
			return
		}
		if file.Size > h.maxUploadSize {
			utils.SendJSONError(c, http.StatusBadRequest, "图片大小不能超过5MB", nil)
			return
		}

		storedName := storedFilename(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, storedName)); err != nil {
			utils.SendJSONError(c, http.StatusInternalServerError, "上传失败，请稍后再试", err)
			return
		}

		uploaded = append(uploaded, models.UploadedFile{
			URL:  "/uploads/" + storedName,
			Name: file.Filename,
			Size: file.Size,
			Type: mimeType,
		})
	}

	utils.SendJSONData(c, uploaded)
}

// storedFilename sanitizes the client filename and appends a unique suffix so
// concurrent uploads never collide.
func storedFilename(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" {
		base = "image"
	}
	unique := fmt.Sprintf("%d-%09d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	return fmt.Sprintf("%s-%s%s", base, unique, ext)
}
