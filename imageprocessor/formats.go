package imageprocessor

import (
	"path/filepath"
	"strings"
)

// FormatType names a decodable design export format
type FormatType string

const (
	FormatUnknown FormatType = "unknown"
	FormatJPEG    FormatType = "jpeg"
	FormatPNG     FormatType = "png"
	FormatGIF     FormatType = "gif"
	FormatTIFF    FormatType = "tiff"
	FormatBMP     FormatType = "bmp"
	FormatWEBP    FormatType = "webp"
)

var formatExtensions = map[string]FormatType{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".bmp":  FormatBMP,
	".webp": FormatWEBP,
}

// GetFileFormat maps the extension of path to a format, ignoring case
func GetFileFormat(path string) FormatType {
	if format, ok := formatExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}
	return FormatUnknown
}

// IsImageFile reports whether path has a design image extension
func IsImageFile(path string) bool {
	return GetFileFormat(path) != FormatUnknown
}

// IsGeneratedCrop reports whether path is a band or column crop written by a Segmenter
func IsGeneratedCrop(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, marker := range []string{rowSuffix, columnSuffix} {
		idx := strings.LastIndex(base, marker)
		if idx < 0 {
			continue
		}
		digits := base[idx+len(marker):]
		if digits != "" && strings.Trim(digits, "0123456789") == "" {
			return true
		}
	}
	return false
}
