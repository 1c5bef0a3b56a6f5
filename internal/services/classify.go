package services

import (
	"path/filepath"
	"strings"

	"github.com/sharein/backend/internal/models"
)

var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".mp4": true, ".avi": true, ".mov": true, ".mp3": true, ".wav": true,
}

// Classify buckets an upload into docs, sheets, media or other from its
// declared MIME type and original filename. Rules are checked in a fixed
// precedence and the first match wins; the result is assigned once at upload
// and never recomputed.
func Classify(mimeType, originalName string) models.FileType {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(filepath.Ext(originalName))

	switch {
	case mimeType == "application/pdf",
		strings.Contains(mimeType, "word"),
		strings.HasPrefix(mimeType, "text/"):
		return models.FileTypeDocs
	}
	switch ext {
	case ".doc", ".docx", ".txt", ".rtf", ".pdf":
		return models.FileTypeDocs
	}

	if strings.Contains(mimeType, "spreadsheet") || strings.Contains(mimeType, "excel") {
		return models.FileTypeSheets
	}
	switch ext {
	case ".xls", ".xlsx", ".csv":
		return models.FileTypeSheets
	}

	if strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "video/") ||
		strings.HasPrefix(mimeType, "audio/") ||
		mediaExtensions[ext] {
		return models.FileTypeMedia
	}

	return models.FileTypeOther
}
