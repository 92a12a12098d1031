package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/storage"
)

// formFile 读取 multipart 中的文件字段。required 为 false 时缺少文件返回 nil 且不报错。
// 请求体超过上限时直接返回 400。
func formFile(c *gin.Context, field string, required bool) (*multipart.FileHeader, bool) {
	file, err := c.FormFile(field)
	if err == nil {
		return file, true
	}

	if isBodyTooLarge(err) {
		respondError(c, http.StatusBadRequest, "File upload error: file too large")
		return nil, false
	}
	if errors.Is(err, http.ErrMissingFile) && !required {
		return nil, true
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		respondError(c, http.StatusBadRequest, "No file uploaded or invalid file type")
		return nil, false
	}

	respondError(c, http.StatusBadRequest, "File upload error: malformed multipart body")
	return nil, false
}

// respondUploadError 将文件保存阶段的错误映射为 HTTP 响应
func respondUploadError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		respondError(c, http.StatusBadRequest, "No file uploaded or invalid file type")
	case errors.Is(err, storage.ErrTooLarge):
		respondError(c, http.StatusBadRequest, "File upload error: file too large")
	case errors.Is(err, storage.ErrNoFile):
		respondError(c, http.StatusBadRequest, "No file uploaded or invalid file type")
	default:
		respondServerError(c, message, err)
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
