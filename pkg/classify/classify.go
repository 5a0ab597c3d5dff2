// Package classify maps upload metadata (MIME type, filename) to the coarse
// attachment categories the chat pipeline understands, and produces the capped
// text previews shown for text uploads.
package classify

import (
	"mime"
	"path/filepath"
	"strings"
)

// Category is the coarse attachment class used by the content mapper.
type Category string

const (
	CategoryImage Category = "image"
	CategoryText  Category = "text"
	CategoryOther Category = "other"
)

// PreviewLimit caps the number of characters kept in a text preview.
const PreviewLimit = 8000

const previewMarker = "\n… [truncated]"

var mimeExtMap = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".json": "application/json",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".xml":  "application/xml",
	".html": "text/html",
}

var mimeAliasMap = map[string]string{
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/x-png": "image/png",
}

// NormalizeMIME fixes messy or aliased MIME types and falls back to the file
// extension when the declared type is empty or malformed.
func NormalizeMIME(name, m string) string {
	strip := func(s string) string {
		if i := strings.IndexByte(s, ';'); i >= 0 {
			return strings.TrimSpace(s[:i])
		}
		return strings.TrimSpace(s)
	}

	fromExt := func() string {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			return ""
		}
		if mt, ok := mimeExtMap[ext]; ok {
			return mt
		}
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strip(mt)
		}
		return ""
	}

	raw := strings.ToLower(strings.TrimSpace(m))
	if raw == "" {
		return fromExt()
	}
	raw = strip(raw)

	if normalized, ok := mimeAliasMap[raw]; ok {
		return normalized
	}

	// Malformed MIME -> trust the extension instead.
	if !strings.Contains(raw, "/") || strings.HasSuffix(raw, "/") {
		if via := fromExt(); via != "" {
			return via
		}
	}

	return raw
}

// IsTextMIME reports whether the MIME type carries inlineable text.
func IsTextMIME(m string) bool {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return false
	}
	if strings.HasPrefix(m, "text/") {
		return true
	}
	switch m {
	case "application/json",
		"application/xml",
		"application/x-yaml",
		"application/yaml",
		"application/javascript",
		"application/x-ndjson":
		return true
	default:
		return false
	}
}

// IsTextLike reports whether an attachment should be treated as text, judged
// by its declared MIME type or, failing that, its filename extension.
func IsTextLike(mimeType, name string) bool {
	return IsTextMIME(NormalizeMIME(name, mimeType))
}

// Classify buckets an upload into image, text, or other.
func Classify(mimeType, name string) Category {
	mt := NormalizeMIME(name, mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	case IsTextMIME(mt):
		return CategoryText
	default:
		return CategoryOther
	}
}

// TextPreview returns the first PreviewLimit characters of s, appending a
// truncation marker when content was cut.
func TextPreview(s string) string {
	if len(s) <= PreviewLimit {
		return s
	}
	cut := s[:PreviewLimit]
	// Avoid splitting a multi-byte rune at the boundary.
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return cut + previewMarker
}
