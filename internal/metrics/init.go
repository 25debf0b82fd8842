package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is present in the first snapshot.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, outcome := range []string{"resized", "cached", "original", "skipped"} {
		for _, retina := range []string{"true", "false"} {
			ResolverRequestsTotal.WithLabelValues(outcome, retina)
		}
		ResolverDuration.WithLabelValues(outcome)
	}

	for _, reason := range []string{"invalid_request", "not_resizable", "retina_inexact",
		"source_unavailable", "codec_failure"} {
		ResolverFallbacksTotal.WithLabelValues(reason)
	}

	for _, status := range []string{"success", "skipped"} {
		RetinaCompanionsTotal.WithLabelValues(status)
	}

	for _, status := range []string{"written", "unchanged", "absent", "error"} {
		SizeMetadataWritesTotal.WithLabelValues(status)
	}

	for _, codec := range []string{"imaging", "vips"} {
		CodecResizeTotal.WithLabelValues(codec, "success")
		CodecResizeTotal.WithLabelValues(codec, "error")
		CodecResizeDuration.WithLabelValues(codec)
		CodecOutputBytes.WithLabelValues(codec)
	}

	volumes := []string{"uploads", "database", "unknown"}
	for _, op := range []string{"stat", "open"} {
		for _, vol := range volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}

	for _, op := range []string{"initialize_schema", "insert_attachment", "get_attachment",
		"list_attachments", "get_size_metadata", "put_size_metadata"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, outcome := range []string{"resized", "cached", "original", "skipped"} {
		WarmAttachmentsTotal.WithLabelValues(outcome)
	}

	for _, t := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(t)
	}
}
