package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// imageExtensions lists the archivable MIME types and their canonical extension.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// NormalizeContentType drops parameters and lowercases the media type.
func NormalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}

// ValidateImage checks the content type is an archivable image and the body is non-empty.
func ValidateImage(contentType string, sizeBytes int64) error {
	if _, ok := imageExtensions[NormalizeContentType(contentType)]; !ok {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	return nil
}

// ObjectKey builds folder/<uuid><ext>. The extension comes from the file name
// when it has one, otherwise from the content type.
func ObjectKey(folder, fileName, contentType string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = imageExtensions[NormalizeContentType(contentType)]
	}
	return path.Join(folder, uuid.NewString()+ext)
}
