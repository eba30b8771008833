package imageprocessor

import (
	"fmt"
	"image"
	"os"
	"sync"
)

// DefaultMaxPixels bounds the decoded area of one input. A full landing
// page captured at 2x is around 50M pixels.
const DefaultMaxPixels = 120_000_000

// ImageLoaderRegistry picks a loader by file format. Images whose header
// announces more than MaxPixels pixels are refused before decoding.
type ImageLoaderRegistry struct {
	MaxPixels int

	mu       sync.RWMutex
	loaders  map[FormatType]ImageLoader
	fallback ImageLoader
}

// NewImageLoaderRegistry registers the standard and WebP loaders
func NewImageLoaderRegistry() *ImageLoaderRegistry {
	standard := StandardImageLoader{}
	r := &ImageLoaderRegistry{
		MaxPixels: DefaultMaxPixels,
		loaders:   make(map[FormatType]ImageLoader),
		fallback:  standard,
	}
	for _, format := range []FormatType{FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatTIFF} {
		r.loaders[format] = standard
	}
	r.loaders[FormatWEBP] = WebPImageLoader{}
	return r
}

// Register replaces the loader used for format
func (r *ImageLoaderRegistry) Register(format FormatType, loader ImageLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[format] = loader
}

// Loader returns the loader for path; unknown extensions get the standard
// loader, which sniffs the content
func (r *ImageLoaderRegistry) Loader(path string) ImageLoader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if loader, ok := r.loaders[GetFileFormat(path)]; ok {
		return loader
	}
	return r.fallback
}

// Supports reports whether a loader is registered for the format of path
func (r *ImageLoaderRegistry) Supports(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.loaders[GetFileFormat(path)]
	return ok
}

// LoadImage decodes path with the matching loader
func (r *ImageLoaderRegistry) LoadImage(path string) (image.Image, error) {
	if err := r.checkArea(path); err != nil {
		return nil, err
	}

	img, err := r.Loader(path).LoadImage(path)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return img, nil
}

func (r *ImageLoaderRegistry) checkArea(path string) error {
	if r.MaxPixels <= 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return newImageLoadError("cannot open", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		// Unknown header: the loader reports the real decode error
		return nil
	}
	if cfg.Width*cfg.Height > r.MaxPixels {
		return fmt.Errorf("%s is %dx%d, above the %d pixel limit", path, cfg.Width, cfg.Height, r.MaxPixels)
	}
	return nil
}
