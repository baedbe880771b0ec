package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bakery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImageSize = 5 << 20 // 5 MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores product images under the configured upload directory.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler creates a new UploadHandler rooted at uploadDir.
func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// UploadProductImage accepts a multipart "image" field, validates type and
// size, and stores it under a random name so uploads never collide.
func (h *UploadHandler) UploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Image file is required (field 'image').", err.Error()))
		return
	}

	if fileHeader.Size > maxImageSize {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Image exceeds the 5MB size limit.", fmt.Sprintf("size: %d bytes", fileHeader.Size)))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Only JPEG, PNG, GIF and WebP images are accepted.", contentType))
		return
	}

	targetDir := filepath.Join(h.uploadDir, "products")
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		utils.LogError(err, "UploadProductImage: Failed to create upload directory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to store image.", "Internal error"))
		return
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(targetDir, filename)); err != nil {
		utils.LogError(err, "UploadProductImage: Failed to save uploaded file")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to store image.", "Internal error"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"url": "/uploads/products/" + filename},
		"message": "Image uploaded successfully",
	})
}
