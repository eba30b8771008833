package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"layoutdna/imageprocessor"
	"layoutdna/logging"
)

// CollectImages walks folder and returns every design image in lexical order.
// Crops produced by a previous run are skipped.
func CollectImages(folder string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == folder {
				return err
			}
			logging.LogWarning("Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !imageprocessor.IsImageFile(path) || imageprocessor.IsGeneratedCrop(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", folder, err)
	}

	sort.Strings(paths)
	return paths, nil
}
