// Package metrics provides Prometheus instrumentation for the image resizer.
//
// All metrics are prefixed with "image_resizer_" and registered on the
// default registry through promauto, so importing the package is enough to
// make them available to any gatherer.
//
// # Metric Categories
//
// ## Resolver Metrics
//
// Track how thumbnail requests were answered:
//   - ResolverRequestsTotal: Counter of requests by outcome and retina flag
//   - ResolverFallbacksTotal: Counter of original-image fallbacks and skips by reason
//   - ResolverDuration: Histogram of resolve duration by outcome
//   - ThumbnailCacheHits / ThumbnailCacheMisses: Disk cache effectiveness
//   - RetinaCompanionsTotal: Opportunistic retina attempts by status
//   - SizeMetadataWritesTotal: Size metadata updates by status
//
// ## Codec Metrics
//
//   - CodecResizeTotal: Resize operations by codec and status
//   - CodecResizeDuration: Resize and save duration by codec
//   - CodecOutputBytes: Size of files produced by codec
//
// ## Database Metrics
//
//   - DBQueryTotal / DBQueryDuration: Query counts and latency by operation
//   - DBTransactionDuration: Transaction latency by commit/rollback
//   - DBConnectionsOpen: Open connections gauge
//
// ## Filesystem Metrics
//
// NFS resilience for cache lookups on network-mounted upload directories:
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures
//   - FilesystemStaleErrors, FilesystemRetryDuration
//
// ## Memory and Batch Metrics
//
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses: Worker backpressure
//   - WarmAttachmentsTotal: Warm run results by outcome
//   - WarmRunDuration: Duration of the last warm run
//
// # Exporting
//
// The image-resizer command is a short-lived process, so rather than
// serving /metrics it writes a snapshot in the node_exporter textfile format
// when METRICS_FILE is set:
//
//	prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
package metrics
