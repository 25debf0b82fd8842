// Package main provides the image-resizer maintenance command.
//
// The command records uploaded images in the attachment database and
// produces resized variants beside them on disk, the same variants a web
// front end gets from the resolver on demand:
//
//	image-resizer register /uploads/2024/05/photo.jpg
//	image-resizer resolve 12 300x200xcenter-center
//	image-resizer resolve 12 thumbnail --retina
//	image-resizer sizes 12
//	image-resizer warm medium --rate=20
//
// Results are printed as JSON on stdout, indented when stdout is a
// terminal. Logs go to stderr. A resolve that yields neither a resized nor
// the original image exits with status 1.
//
// # Warm runs
//
// warm resolves one size for every registered attachment on a worker pool
// (RESIZE_WORKERS, default one per CPU). Workers pause while the heap is
// near the memory limit derived from MEMORY_LIMIT. --rate=N caps how many
// attachments are handed out per second, to spare a shared uploads volume.
//
// # Metrics
//
// When METRICS_FILE is set the Prometheus registry is written there on
// exit, in the format read by the node exporter's textfile collector.
//
// See package startup for the full list of environment variables.
package main
