package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"image-resizer/internal/logging"
	"image-resizer/internal/media"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Codec names accepted by IMAGE_CODEC.
const (
	CodecImaging = "imaging"
	CodecVips    = "vips"
)

// Config holds all application configuration
type Config struct {
	UploadsDir    string
	UploadsURL    string
	DatabaseDir   string
	SizePrefix    string
	RetinaEnabled bool
	Codec         string
	MetricsFile   string

	// Presets maps named sizes to their dimensions
	Presets map[string]media.SizeRequest

	// Derived paths
	DatabasePath string
}

// ResolverConfig returns the resolver settings described by c.
func (c *Config) ResolverConfig() media.ResolverConfig {
	rc := media.DefaultResolverConfig()
	rc.NamePrefix = c.SizePrefix
	rc.RetinaEnabled = c.RetinaEnabled
	rc.Presets = c.Presets
	return rc
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	logSystemInfo()

	uploadsDir := getEnv("UPLOADS_DIR", "/uploads")
	uploadsURL := strings.TrimRight(getEnv("UPLOADS_URL", "http://localhost/uploads"), "/")
	databaseDir := getEnv("DATABASE_DIR", "/database")
	sizePrefix := getEnv("SIZE_PREFIX", media.DefaultNamePrefix)
	retinaEnabled := getEnvBool("RETINA_ENABLED", false)
	codec := strings.ToLower(getEnv("IMAGE_CODEC", CodecImaging))
	sizesFile := getEnv("IMAGE_SIZES_FILE", "")
	sizesEnv := getEnv("IMAGE_SIZES", "")
	metricsFile := getEnv("METRICS_FILE", "")

	logging.Debug("Configuration:")
	logging.Debug("  UPLOADS_DIR:       %s", uploadsDir)
	logging.Debug("  UPLOADS_URL:       %s", uploadsURL)
	logging.Debug("  DATABASE_DIR:      %s", databaseDir)
	logging.Debug("  SIZE_PREFIX:       %s", sizePrefix)
	logging.Debug("  RETINA_ENABLED:    %v", retinaEnabled)
	logging.Debug("  IMAGE_CODEC:       %s", codec)
	logging.Debug("  IMAGE_SIZES_FILE:  %s", sizesFile)
	logging.Debug("  METRICS_FILE:      %s", metricsFile)
	logging.Debug("  LOG_LEVEL:         %s", logging.GetLevel())

	if codec != CodecImaging && codec != CodecVips {
		return nil, fmt.Errorf("invalid IMAGE_CODEC %q (want %s or %s)", codec, CodecImaging, CodecVips)
	}
	if strings.ContainsAny(sizePrefix, "/\\") {
		return nil, fmt.Errorf("invalid SIZE_PREFIX %q", sizePrefix)
	}

	presets, err := LoadPresets(sizesFile, sizesEnv)
	if err != nil {
		return nil, err
	}
	logging.Debug("  Sizes:             %s", presetNames(presets))

	uploadsDir, err = filepath.Abs(uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploads directory path: %w", err)
	}

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	// Uploads may be mounted later or read-only; derived sizes then fail
	// per request and fall back to originals
	if info, err := os.Stat(uploadsDir); err != nil || !info.IsDir() {
		logging.Warn("Uploads directory %s is not available", uploadsDir)
	}

	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}

	return &Config{
		UploadsDir:    uploadsDir,
		UploadsURL:    uploadsURL,
		DatabaseDir:   databaseDir,
		SizePrefix:    sizePrefix,
		RetinaEnabled: retinaEnabled,
		Codec:         codec,
		MetricsFile:   metricsFile,
		Presets:       presets,
		DatabasePath:  filepath.Join(databaseDir, "attachments.db"),
	}, nil
}

// UploadURL returns the public URL of a file below the uploads directory.
func (c *Config) UploadURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(c.UploadsDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the uploads directory %s", path, c.UploadsDir)
	}
	return c.UploadsURL + "/" + filepath.ToSlash(rel), nil
}

// Helper functions

func logSystemInfo() {
	if !logging.IsDebugEnabled() {
		return
	}
	logging.Debug("image-resizer %s (commit %s, built %s)", Version, Commit, BuildTime)
	logging.Debug("  Go version:      %s", runtime.Version())
	logging.Debug("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Debug("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))
	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
}

func ensureDirectory(path, name string) error {
	logging.Debug("Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("  [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
