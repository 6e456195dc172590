package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 25MB in bytes
	MaxFileSize = 25 * 1024 * 1024
)

// AllowedExtensions maps the accepted production file extensions to the
// content type they are stored with.
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".ai":   "application/postscript",
	".eps":  "application/postscript",
	".svg":  "image/svg+xml",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateOrderFile validates the uploaded file format and size
func ValidateOrderFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size <= 0 {
		return &FileUploadError{
			Code:    "EMPTY_FILE",
			Message: "Uploaded file is empty",
		}
	}
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only jpg, jpeg, png, pdf, ai, eps and svg files are allowed",
		}
	}

	return nil
}

// ContentTypeFor returns the content type a file is stored with, based on
// its extension
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := AllowedExtensions[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// BuildStorageKey builds the object key a production file is stored under:
// {folio}/{area folder}/{timestamp}-{random}{ext}
func BuildStorageKey(folio, areaFolder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s/%d-%s%s", folio, areaFolder, time.Now().Unix(), uuid.NewString()[:8], ext)
}
