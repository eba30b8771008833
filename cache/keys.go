package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// LayoutKeyOpts are the parameters that change a section's layout rows
type LayoutKeyOpts struct {
	// Name is the image file name crops are derived from
	Name      string `json:"name"`
	OutDir    string `json:"out_dir"`
	MinHeight int    `json:"min_height"`
	MinWidth  int    `json:"min_width"`
	Precise   bool   `json:"precise"`
	Backend   string `json:"backend"`
}

// LayoutKey identifies the layout rows computed for one image content hash
func LayoutKey(contentHash string, opts LayoutKeyOpts) string {
	if abs, err := filepath.Abs(opts.OutDir); err == nil {
		opts.OutDir = abs
	}
	return hashKey("layout", contentHash, opts)
}

// PaletteKey identifies the design DNA extracted from one image content hash
func PaletteKey(contentHash string, quantized bool) string {
	return hashKey("palette", contentHash, quantized)
}

// hashKey generates prefix:sha256(json(parts))
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}
