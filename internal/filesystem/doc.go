/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Upload directories are frequently NFS mounts shared between the web tier and
the resizer. The resizer decides whether a derived image is already cached
by stat'ing its expected path, so a transient ESTALE must not be mistaken for
a cache miss that triggers a needless resize.

# Key Features

  - Automatic retry with exponential backoff for NFS ESTALE errors (errno 116)
  - Configurable retry attempts (default: 3) and backoff timings
  - Transparent fallback to standard os operations for non-NFS errors
  - Per-volume metric labels through VolumeResolver

# Usage

	info, err := filesystem.StatWithRetry("/uploads/2024/05/photo.jpg", filesystem.DefaultRetryConfig())

	if filesystem.FileExists(cachePath, filesystem.DefaultRetryConfig()) {
	    // serve cached file
	}

Configure volume labels once at startup:

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
	    "uploads":  cfg.UploadsDir,
	    "database": cfg.DatabaseDir,
	}))
*/
package filesystem
