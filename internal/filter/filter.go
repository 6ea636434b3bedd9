// Package filter decides which files in the image directory are images.
package filter

import (
	"path/filepath"
	"strings"
)

// DefaultImageExtensions returns the extensions accepted when none are configured.
func DefaultImageExtensions() []string {
	return []string{
		".jpg",
		".jpeg",
		".png",
	}
}

// ExtensionFilter accepts files whose extension is on an allow-list.
type ExtensionFilter struct {
	extensions []string
}

// NewExtensionFilter creates a filter for the given extensions.
// If extensions is nil or empty, the default image extensions are used.
// A missing leading dot is added, so "png" and ".png" are equivalent.
func NewExtensionFilter(extensions []string) *ExtensionFilter {
	if len(extensions) == 0 {
		extensions = DefaultImageExtensions()
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &ExtensionFilter{
		extensions: normalized,
	}
}

// Accepts reports whether the file's extension is on the allow-list.
// Only the base name is considered and matching ignores case, so
// "photo.JPEG" is accepted whenever ".jpeg" is listed.
func (f *ExtensionFilter) Accepts(path string) bool {
	ext := filepath.Ext(filepath.Base(path))
	if ext == "" {
		return false
	}
	for _, allowed := range f.extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// Extensions returns a copy of the allow-list.
func (f *ExtensionFilter) Extensions() []string {
	result := make([]string, len(f.extensions))
	copy(result, f.extensions)
	return result
}
