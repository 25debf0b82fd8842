package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"image-resizer/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogSettings maps the application log level to the libvips level and a
// handler that forwards messages at or above it.
func vipsLogSettings(appLevel logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	var minLevel vips.LogLevel
	switch appLevel {
	case logging.LevelDebug:
		minLevel = vips.LogLevelInfo
	case logging.LevelInfo:
		minLevel = vips.LogLevelWarning
	case logging.LevelWarn:
		minLevel = vips.LogLevelError
	default:
		minLevel = vips.LogLevelCritical
	}

	return minLevel, func(domain string, level vips.LogLevel, msg string) {
		if level > minLevel {
			return
		}
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}
}

// InitVips initializes the libvips library
// This should be called once at startup
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Logging must be configured before Startup to take effect
	level, handler := vipsLogSettings(logging.GetLevel())
	vips.LoggingSettings(handler, level)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// VipsCodec resizes with libvips. It handles formats the pure-Go codec
// cannot write (WebP, HEIF, AVIF) and uses far less memory on large
// sources. InitVips must have been called.
type VipsCodec struct {
	// JPEGQuality is used when the output is a JPEG. Zero means 82.
	JPEGQuality int
}

// NewVipsCodec returns a VipsCodec with default settings.
func NewVipsCodec() *VipsCodec {
	return &VipsCodec{JPEGQuality: 82}
}

// Name identifies the codec in metrics and logs.
func (c *VipsCodec) Name() string {
	return "vips"
}

func (c *VipsCodec) ResizeDimensions(srcW, srcH int, target Dimensions, crop CropSpec) (Dimensions, bool) {
	g, ok := ResizeGeometry(srcW, srcH, target.Width, target.Height, crop)
	if !ok {
		return Dimensions{}, false
	}
	return g.Dst(), true
}

func (c *VipsCodec) ResizeAndSave(ctx context.Context, source string, target, want Dimensions, crop CropSpec, suffix string) (string, error) {
	start := time.Now()
	dest := CachePath(source, suffix)

	path, err := c.resizeAndSave(ctx, source, dest, target, want, crop)
	recordResize(c.Name(), start, path, err)
	return path, err
}

func (c *VipsCodec) resizeAndSave(ctx context.Context, source, dest string, target, want Dimensions, crop CropSpec) (string, error) {
	if !IsVipsAvailable() {
		return "", fmt.Errorf("libvips not available")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref, err := vips.LoadImageFromFile(source, vips.NewImportParams())
	if err != nil {
		return "", fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	if err := ref.AutoRotate(); err != nil {
		return "", fmt.Errorf("vips auto-rotate failed: %w", err)
	}

	origWidth, origHeight := ref.Width(), ref.Height()
	g, ok := ResizeGeometry(origWidth, origHeight, target.Width, target.Height, crop)
	if !ok {
		return "", fmt.Errorf("cannot resize %dx%d to %dx%d", origWidth, origHeight, target.Width, target.Height)
	}
	if err := checkDst(g, want); err != nil {
		return "", err
	}

	logging.Debug("Vips loaded %s: %dx%d, cropping %dx%d+%d+%d, resizing to %dx%d",
		filepath.Base(source), origWidth, origHeight, g.CropW, g.CropH, g.SrcX, g.SrcY, g.Width, g.Height)

	if g.CropW != origWidth || g.CropH != origHeight {
		if err := ref.ExtractArea(g.SrcX, g.SrcY, g.CropW, g.CropH); err != nil {
			return "", fmt.Errorf("vips crop failed: %w", err)
		}
	}

	// SizeForce hits the calculated dimensions exactly instead of letting
	// libvips round the aspect ratio on its own
	if err := ref.ThumbnailWithSize(g.Width, g.Height, vips.InterestingNone, vips.SizeForce); err != nil {
		return "", fmt.Errorf("vips resize failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var data []byte
	if ref.Format() == vips.ImageTypeJPEG {
		quality := c.JPEGQuality
		if quality <= 0 {
			quality = 82
		}
		data, _, err = ref.ExportJpeg(&vips.JpegExportParams{
			Quality:        quality,
			StripMetadata:  true,
			OptimizeCoding: true,
		})
	} else {
		data, _, err = ref.ExportNative()
	}
	if err != nil {
		return "", fmt.Errorf("vips export failed: %w", err)
	}

	if err := writeAtomic(dest, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return "", err
	}

	return dest, nil
}

func (c *VipsCodec) DetectMimeType(path string) string {
	return DetectMimeType(path)
}
