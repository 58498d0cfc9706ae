package validation

import (
	"path/filepath"
	"strings"
)

// ValidateFolderName accepts free-text folder names but rejects empty input
// and names that could escape into path or header contexts.
func ValidateFolderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00\r\n") {
		return false
	}
	return true
}

// AllowedImageExt reports whether a file name carries a supported raster
// image extension.
func AllowedImageExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
