package helpers

import (
	"path"
	"strings"

	"uid-intake-bot/internal/constants"
)

// FileExtension picks the extension from the provider path, then the original
// file name, and falls back to jpg. The result is lower case without the dot.
func FileExtension(filePath, fileName string) string {
	for _, candidate := range []string{filePath, fileName} {
		ext := strings.TrimPrefix(path.Ext(candidate), ".")
		if ext != "" {
			return strings.ToLower(ext)
		}
	}
	return constants.DefaultFileExtension
}

// ImageContentType maps an image extension to its MIME type
func ImageContentType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "heic":
		return "image/heic"
	default:
		return "image/" + strings.ToLower(ext)
	}
}

// IsImageMIME reports whether a document's MIME type is an image
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}
