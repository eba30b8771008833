package imageprocessor

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images with a zero-area bounds rectangle
var ErrEmptyImage = errors.New("image has no pixels")

// ImageLoader decodes one image file
type ImageLoader interface {
	LoadImage(path string) (image.Image, error)
}

// StandardImageLoader decodes png, jpeg, gif, bmp and tiff through imaging,
// applying the EXIF orientation of phone screenshots
type StandardImageLoader struct{}

// LoadImage decodes path
func (StandardImageLoader) LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, newImageLoadError("cannot decode", path, err)
	}
	return img, nil
}

// WebPImageLoader decodes WebP exports
type WebPImageLoader struct{}

// LoadImage decodes path
func (WebPImageLoader) LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newImageLoadError("cannot open", path, err)
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		return nil, newImageLoadError("cannot decode WebP", path, err)
	}
	return img, nil
}

func newImageLoadError(message, path string, err error) error {
	return fmt.Errorf("%s %s: %w", message, path, err)
}
