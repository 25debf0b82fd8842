package media

import (
	"context"
	"path/filepath"
	"testing"

	"image-resizer/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

// NOTE: govips doesn't support stopping and restarting vips in the same process.
// Once vips.Shutdown() is called, vips.Startup() cannot be called again, so
// nothing in this package's tests calls ShutdownVips.

func requireVips(t *testing.T) {
	t.Helper()
	if !IsVipsAvailable() {
		if err := InitVips(); err != nil {
			t.Skipf("libvips not available in test environment: %v", err)
		}
	}
}

func TestInitVipsIdempotency(t *testing.T) {
	requireVips(t)

	if err := InitVips(); err != nil {
		t.Errorf("Second InitVips() call failed: %v", err)
	}
	if !IsVipsAvailable() {
		t.Error("After successful InitVips, IsVipsAvailable should return true")
	}
}

func TestVipsLogSettings(t *testing.T) {
	tests := []struct {
		level logging.LogLevel
		want  vips.LogLevel
	}{
		{level: logging.LevelDebug, want: vips.LogLevelInfo},
		{level: logging.LevelInfo, want: vips.LogLevelWarning},
		{level: logging.LevelWarn, want: vips.LogLevelError},
		{level: logging.LevelError, want: vips.LogLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got, handler := vipsLogSettings(tt.level)
			if got != tt.want {
				t.Errorf("vipsLogSettings(%v) level = %v, want %v", tt.level, got, tt.want)
			}
			// Must not panic for any level
			handler("test", vips.LogLevelDebug, "debug message")
			handler("test", vips.LogLevelCritical, "critical message")
		})
	}
}

func TestVipsCodecResizeAndSave(t *testing.T) {
	requireVips(t)

	tests := []struct {
		name   string
		format string
		srcW   int
		srcH   int
		target Dimensions
		crop   CropSpec
	}{
		{name: "Center crop JPEG", format: "jpg", srcW: 2000, srcH: 1500, target: Dimensions{Width: 400, Height: 300}, crop: AnchoredCrop("center-center")},
		{name: "Square crop PNG", format: "png", srcW: 640, srcH: 480, target: Dimensions{Width: 150, Height: 150}, crop: FillCrop},
		{name: "Fit JPEG", format: "jpg", srcW: 1200, srcH: 800, target: Dimensions{Width: 500, Height: 500}, crop: NoCrop},
		{name: "Anchored crop", format: "jpg", srcW: 1001, srcH: 667, target: Dimensions{Width: 300, Height: 300}, crop: AnchoredCrop("right-bottom")},
	}

	codec := NewVipsCodec()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := filepath.Join(t.TempDir(), "photo."+tt.format)
			createTestImage(t, source, tt.srcW, tt.srcH, tt.format)

			dims, ok := codec.ResizeDimensions(tt.srcW, tt.srcH, tt.target, tt.crop)
			if !ok {
				t.Fatalf("ResizeDimensions not resizable")
			}

			path, err := codec.ResizeAndSave(context.Background(), source, tt.target, dims, tt.crop, Suffix(dims, tt.crop, false))
			if err != nil {
				t.Fatalf("ResizeAndSave() error: %v", err)
			}

			got, err := GetImageDimensions(path)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			if got != dims {
				t.Errorf("output = %dx%d, want %dx%d", got.Width, got.Height, dims.Width, dims.Height)
			}
			if mime := codec.DetectMimeType(path); mime != DetectMimeType(source) {
				t.Errorf("output MIME = %q, want %q", mime, DetectMimeType(source))
			}
		})
	}
}
