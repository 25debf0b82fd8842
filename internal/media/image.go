package media

import (
	"image"

	"image-resizer/internal/filesystem"
	"image-resizer/internal/logging"

	"github.com/disintegration/imaging"
)

// GetImageDimensions returns image dimensions without fully decoding the image
func GetImageDimensions(path string) (Dimensions, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return Dimensions{}, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, err
	}

	return Dimensions{Width: config.Width, Height: config.Height}, nil
}

// ProbeDimensions returns the dimensions of the image as the codecs see it.
// JPEGs are decoded with EXIF auto-orientation so a rotated photo reports
// its displayed size; other formats only need their header.
func ProbeDimensions(path string) (Dimensions, error) {
	if DetectMimeType(path) != "image/jpeg" {
		return GetImageDimensions(path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Dimensions{}, err
	}
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}, nil
}
