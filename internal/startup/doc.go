// Package startup loads configuration and build information.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - UPLOADS_DIR: Directory holding uploaded originals (default: /uploads)
//   - UPLOADS_URL: Public URL of UPLOADS_DIR (default: http://localhost/uploads)
//   - DATABASE_DIR: Directory for the attachment database (default: /database)
//   - SIZE_PREFIX: Prefix of generated size names (default: nova)
//   - RETINA_ENABLED: Also produce @2x companions (default: false)
//   - IMAGE_CODEC: imaging or vips (default: imaging)
//   - IMAGE_SIZES: Named sizes as "name=WxH[xANCHOR],..."
//   - IMAGE_SIZES_FILE: YAML file of named sizes
//   - METRICS_FILE: Write a Prometheus textfile snapshot here on exit
//   - RESIZE_WORKERS: Worker count for warm runs (read by package workers)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// # Named sizes
//
// Four sizes are always defined (thumbnail, medium, medium_large, large).
// IMAGE_SIZES_FILE entries replace or extend them, and IMAGE_SIZES entries
// replace both:
//
//	sizes:
//	  card:
//	    size: 400x300xleft-top
//	  banner:
//	    width: 1200
//	    height: 400
//	    crop: center-top
//
// An entry given by width/height without crop is scaled to fit, never
// cropped.
//
// # Directory Setup
//
// The database directory is created if missing and must be writable. A
// missing uploads directory only logs a warning.
package startup
