package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolver metrics
var (
	ResolverRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_resolver_requests_total",
			Help: "Total number of thumbnail resolve requests by outcome",
		},
		[]string{"outcome", "retina"}, // outcome: "resized", "cached", "original", "skipped"
	)

	ResolverFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_resolver_fallbacks_total",
			Help: "Total number of requests that degraded to the original image or were skipped, by reason",
		},
		[]string{"reason"},
	)

	ResolverDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_resizer_resolver_duration_seconds",
			Help:    "Thumbnail resolve duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_resizer_thumbnail_cache_hits_total",
			Help: "Total number of resized images served from the disk cache",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_resizer_thumbnail_cache_misses_total",
			Help: "Total number of resized images not found in the disk cache",
		},
	)

	RetinaCompanionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_retina_companions_total",
			Help: "Total number of opportunistic retina companion attempts",
		},
		[]string{"status"}, // "success", "skipped"
	)

	SizeMetadataWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_size_metadata_writes_total",
			Help: "Total number of size metadata updates by status",
		},
		[]string{"status"}, // "written", "unchanged", "absent", "error"
	)
)

// Codec metrics
var (
	CodecResizeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_codec_resize_total",
			Help: "Total number of resize operations by codec and status",
		},
		[]string{"codec", "status"},
	)

	CodecResizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_resizer_codec_resize_duration_seconds",
			Help:    "Resize and save duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"codec"},
	)

	CodecOutputBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_resizer_codec_output_bytes",
			Help:    "Size of resized files written to disk",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"codec"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_resizer_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_resizer_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"type"}, // "commit", "rollback"
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_resizer_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after stale NFS handles",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors encountered",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_resizer_filesystem_retry_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)
)

// Memory and batch metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_resizer_memory_usage_ratio",
			Help: "Go heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_resizer_memory_paused",
			Help: "Whether resize workers are paused for memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_resizer_memory_gc_pauses_total",
			Help: "Total number of times workers were paused and a GC forced",
		},
	)

	WarmAttachmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resizer_warm_attachments_total",
			Help: "Attachments processed by warm runs by outcome",
		},
		[]string{"outcome"},
	)

	WarmRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_resizer_warm_run_duration_seconds",
			Help: "Duration of the last warm run",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "image_resizer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version", "codec"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion, codec string) {
	AppInfo.WithLabelValues(version, commit, goVersion, codec).Set(1)
}
