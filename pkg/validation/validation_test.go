package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFolderName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "roll 1", true},
		{"unicode", "Straße-Scan", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"path separator", "a/b", false},
		{"backslash", "a\\b", false},
		{"null byte", "a\x00b", false},
		{"newline", "a\nb", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateFolderName(tt.input))
		})
	}
}

func TestAllowedImageExt(t *testing.T) {
	assert.True(t, AllowedImageExt("frame.png"))
	assert.True(t, AllowedImageExt("FRAME.JPG"))
	assert.True(t, AllowedImageExt("scan.jpeg"))
	assert.True(t, AllowedImageExt("scan.webp"))
	assert.False(t, AllowedImageExt("notes.txt"))
	assert.False(t, AllowedImageExt("archive.zip"))
	assert.False(t, AllowedImageExt("noext"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "frame.png", SanitizeString("  frame.png  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
}
