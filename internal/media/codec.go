package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"image-resizer/internal/logging"
	"image-resizer/internal/metrics"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDimensionMismatch is returned when the decoded source no longer yields
// the dimensions a derived file was named after, for example because the
// recorded original size is stale.
var ErrDimensionMismatch = errors.New("resize dimensions mismatch")

// ImageCodec performs the pixel work for the resolver.
type ImageCodec interface {
	// ResizeDimensions returns the output size of resizing a srcW×srcH image
	// to target, or false when no smaller image can be produced.
	ResizeDimensions(srcW, srcH int, target Dimensions, crop CropSpec) (Dimensions, bool)

	// ResizeAndSave resizes source to target and writes the result beside
	// it as CachePath(source, suffix), returning that path. want is the
	// size ResizeDimensions reported for the recorded original; when the
	// decoded source produces anything else nothing is written and the
	// error wraps ErrDimensionMismatch.
	ResizeAndSave(ctx context.Context, source string, target, want Dimensions, crop CropSpec, suffix string) (string, error)

	// DetectMimeType returns the MIME type of the file at path, or "" when
	// it cannot be determined.
	DetectMimeType(path string) string
}

// ImagingCodec is a pure-Go codec built on github.com/disintegration/imaging.
type ImagingCodec struct {
	// JPEGQuality is used when the output is a JPEG. Zero means 82.
	JPEGQuality int
}

// NewImagingCodec returns an ImagingCodec with default settings.
func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{JPEGQuality: 82}
}

// Name identifies the codec in metrics and logs.
func (c *ImagingCodec) Name() string {
	return "imaging"
}

func (c *ImagingCodec) ResizeDimensions(srcW, srcH int, target Dimensions, crop CropSpec) (Dimensions, bool) {
	g, ok := ResizeGeometry(srcW, srcH, target.Width, target.Height, crop)
	if !ok {
		return Dimensions{}, false
	}
	return g.Dst(), true
}

func (c *ImagingCodec) ResizeAndSave(ctx context.Context, source string, target, want Dimensions, crop CropSpec, suffix string) (string, error) {
	start := time.Now()
	dest := CachePath(source, suffix)

	path, err := c.resizeAndSave(ctx, source, dest, target, want, crop)
	recordResize(c.Name(), start, path, err)
	return path, err
}

func (c *ImagingCodec) resizeAndSave(ctx context.Context, source, dest string, target, want Dimensions, crop CropSpec) (string, error) {
	format, err := imaging.FormatFromFilename(dest)
	if err != nil {
		return "", fmt.Errorf("unsupported output format for %s: %w", filepath.Base(dest), err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	logging.Debug("Opening image: %s", source)
	src, err := imaging.Open(source, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	b := src.Bounds()
	g, ok := ResizeGeometry(b.Dx(), b.Dy(), target.Width, target.Height, crop)
	if !ok {
		return "", fmt.Errorf("cannot resize %dx%d to %dx%d", b.Dx(), b.Dy(), target.Width, target.Height)
	}
	if err := checkDst(g, want); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var img image.Image = src
	if g.CropW != b.Dx() || g.CropH != b.Dy() {
		img = imaging.Crop(img, image.Rect(g.SrcX, g.SrcY, g.SrcX+g.CropW, g.SrcY+g.CropH))
	}
	img = imaging.Resize(img, g.Width, g.Height, imaging.Lanczos)

	quality := c.JPEGQuality
	if quality <= 0 {
		quality = 82
	}

	if err := writeAtomic(dest, func(f *os.File) error {
		return imaging.Encode(f, img, format, imaging.JPEGQuality(quality))
	}); err != nil {
		return "", err
	}

	logging.Debug("Resized %s to %dx%d: %s", filepath.Base(source), g.Width, g.Height, dest)
	return dest, nil
}

func (c *ImagingCodec) DetectMimeType(path string) string {
	return DetectMimeType(path)
}

func checkDst(g Geometry, want Dimensions) error {
	if dst := g.Dst(); dst != want {
		return fmt.Errorf("%w: source gives %dx%d, expected %dx%d",
			ErrDimensionMismatch, dst.Width, dst.Height, want.Width, want.Height)
	}
	return nil
}

// writeAtomic writes dest through a temporary file in the same directory so
// a concurrent cache lookup never sees a partial image.
func writeAtomic(dest string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".resize-*"+filepath.Ext(dest))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		logging.Warn("failed to chmod %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move resized image into place: %w", err)
	}
	return nil
}

func recordResize(codec string, start time.Time, path string, err error) {
	metrics.CodecResizeDuration.WithLabelValues(codec).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CodecResizeTotal.WithLabelValues(codec, "error").Inc()
		return
	}
	metrics.CodecResizeTotal.WithLabelValues(codec, "success").Inc()
	if info, statErr := os.Stat(path); statErr == nil {
		metrics.CodecOutputBytes.WithLabelValues(codec).Observe(float64(info.Size()))
	}
}
