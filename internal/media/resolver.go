package media

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"strconv"
	"time"

	"image-resizer/internal/filesystem"
	"image-resizer/internal/logging"
	"image-resizer/internal/metrics"
)

// DefaultNamePrefix prefixes generated intermediate size names.
const DefaultNamePrefix = "nova"

// ResolverConfig configures a ThumbnailResolver.
type ResolverConfig struct {
	// NamePrefix is prepended to generated size names: "nova" gives
	// "nova_300x200-center-center".
	NamePrefix string

	// RetinaEnabled makes every non-retina resolve also try to produce a
	// companion at exactly double the resolution.
	RetinaEnabled bool

	// Presets maps named sizes to their dimensions.
	Presets map[string]SizeRequest

	// Retry controls cache lookups on network filesystems.
	Retry filesystem.RetryConfig
}

// DefaultResolverConfig returns the configuration used when nothing is set.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		NamePrefix: DefaultNamePrefix,
		Presets:    map[string]SizeRequest{},
		Retry:      filesystem.DefaultRetryConfig(),
	}
}

// ThumbnailResolver returns resized variants of attachments, producing them
// on first use and reusing the file on disk afterwards.
//
// A resolver holds no mutable state; concurrent resolves of the same size
// may both resize, and since they write identical files the race is benign.
type ThumbnailResolver struct {
	store  MediaStore
	codec  ImageCodec
	config ResolverConfig
}

// NewThumbnailResolver creates a resolver over store and codec.
func NewThumbnailResolver(store MediaStore, codec ImageCodec, config ResolverConfig) *ThumbnailResolver {
	if config.Presets == nil {
		config.Presets = map[string]SizeRequest{}
	}
	logging.Debug("ThumbnailResolver: prefix=%q retina=%v presets=%d",
		config.NamePrefix, config.RetinaEnabled, len(config.Presets))
	return &ThumbnailResolver{
		store:  store,
		codec:  codec,
		config: config,
	}
}

// Resolve returns the image to render for attachment id at the requested
// size. The outcome is never an error in the exceptional sense: failures
// degrade to the original image, or to StatusSkipped when there is nothing
// sensible to show. Retina requests never fall back to the original.
func (r *ThumbnailResolver) Resolve(ctx context.Context, id int64, req SizeRequest, retina bool) Outcome {
	start := time.Now()
	out := r.resolve(ctx, id, req, retina)
	recordOutcome(out, retina, start)
	return out
}

func (r *ThumbnailResolver) resolve(ctx context.Context, id int64, req SizeRequest, retina bool) Outcome {
	if id <= 0 {
		return skipped(fmt.Errorf("%w: missing attachment id", ErrInvalidRequest))
	}

	size, err := req.Normalize(r.config.Presets)
	if err != nil {
		logging.Debug("Attachment %d: %v", id, err)
		return skipped(err)
	}
	return r.resolveSize(ctx, id, size, retina)
}

func (r *ThumbnailResolver) resolveSize(ctx context.Context, id int64, size NormalizedSize, retina bool) Outcome {
	orig, err := r.store.Original(ctx, id)
	if err != nil {
		return skipped(fmt.Errorf("%w: attachment %d: %v", ErrSourceUnavailable, id, err))
	}

	source, err := r.store.SourcePath(ctx, id)
	if err != nil {
		return skipped(fmt.Errorf("%w: attachment %d: %v", ErrSourceUnavailable, id, err))
	}
	if source == "" {
		return skipped(fmt.Errorf("%w: attachment %d has no file", ErrSourceUnavailable, id))
	}

	target := Dimensions{Width: size.Width, Height: size.Height}
	dims, ok := r.codec.ResizeDimensions(orig.Width, orig.Height, target, size.Crop)
	if !ok || dims.Width > orig.Width || dims.Height > orig.Height ||
		(dims.Width == orig.Width && dims.Height == orig.Height) {
		logging.Debug("Attachment %d: %dx%d is not smaller than original %dx%d",
			id, size.Width, size.Height, orig.Width, orig.Height)
		if retina {
			return skipped(ErrNotResizable)
		}
		return original(orig, ErrNotResizable)
	}

	if retina && dims != target {
		logging.Debug("Attachment %d: retina %dx%d only reaches %dx%d",
			id, target.Width, target.Height, dims.Width, dims.Height)
		return skipped(ErrRetinaInexact)
	}

	suffix := Suffix(dims, size.Crop, retina)
	sizeName := SizeName(size.Name, r.config.NamePrefix, suffix)
	cachePath := CachePath(source, suffix)

	if filesystem.FileExists(cachePath, r.config.Retry) {
		metrics.ThumbnailCacheHits.Inc()
		logging.Debug("Thumbnail cache hit: %s", cachePath)

		thumb := &Thumbnail{
			URL:      SiblingURL(orig.URL, filepath.Base(cachePath)),
			Width:    dims.Width,
			Height:   dims.Height,
			SizeName: sizeName,
		}
		thumb.RetinaURL = r.retinaCompanion(ctx, id, dims, size.Crop, retina)
		return Outcome{Status: StatusCached, Thumbnail: thumb}
	}

	metrics.ThumbnailCacheMisses.Inc()
	logging.Debug("Thumbnail generating: attachment %d as %s", id, suffix)

	newPath, err := r.codec.ResizeAndSave(ctx, source, target, dims, size.Crop, suffix)
	if err != nil {
		logging.Warn("Failed to resize attachment %d to %s: %v", id, suffix, err)
		err = fmt.Errorf("%w: %v", ErrCodecFailure, err)
		if retina {
			return skipped(err)
		}
		return original(orig, err)
	}

	thumb := &Thumbnail{
		URL:      SiblingURL(orig.URL, filepath.Base(newPath)),
		Width:    dims.Width,
		Height:   dims.Height,
		SizeName: sizeName,
	}
	thumb.RetinaURL = r.retinaCompanion(ctx, id, dims, size.Crop, retina)

	r.updateSizeMetadata(ctx, id, sizeName, newPath, dims)

	return Outcome{Status: StatusResized, Thumbnail: thumb}
}

// retinaCompanion tries to produce the @2x variant of a 1x image and returns
// its URL, or "" when retina is disabled, the current call is itself a
// retina call, or the doubled size cannot be produced exactly.
func (r *ThumbnailResolver) retinaCompanion(ctx context.Context, id int64, dims Dimensions, crop CropSpec, retina bool) string {
	if retina || !r.config.RetinaEnabled {
		return ""
	}

	start := time.Now()
	out := r.resolveSize(ctx, id, NormalizedSize{Width: dims.Width * 2, Height: dims.Height * 2, Crop: crop}, true)
	recordOutcome(out, true, start)
	if !out.OK() {
		metrics.RetinaCompanionsTotal.WithLabelValues("skipped").Inc()
		logging.Debug("Attachment %d: no retina companion for %dx%d: %v", id, dims.Width, dims.Height, out.Err)
		return ""
	}

	metrics.RetinaCompanionsTotal.WithLabelValues("success").Inc()
	return out.Thumbnail.URL
}

// updateSizeMetadata records a freshly written file under name unless an
// entry with the same dimensions is already there. Failures are logged and
// otherwise ignored.
func (r *ThumbnailResolver) updateSizeMetadata(ctx context.Context, id int64, name, path string, dims Dimensions) {
	sizes, err := r.store.SizeMetadata(ctx, id)
	if errors.Is(err, ErrNoMetadata) {
		metrics.SizeMetadataWritesTotal.WithLabelValues("absent").Inc()
		logging.Debug("Attachment %d has no size metadata, not recording %s", id, name)
		return
	}
	if err != nil {
		metrics.SizeMetadataWritesTotal.WithLabelValues("error").Inc()
		logging.Warn("Failed to read size metadata for attachment %d: %v", id, err)
		return
	}

	if existing, ok := sizes[name]; ok && existing.Width == dims.Width && existing.Height == dims.Height {
		metrics.SizeMetadataWritesTotal.WithLabelValues("unchanged").Inc()
		return
	}

	updated := maps.Clone(sizes)
	if updated == nil {
		updated = SizeMetadata{}
	}
	updated[name] = SizeMetadataEntry{
		File:      filepath.Base(path),
		Width:     dims.Width,
		Height:    dims.Height,
		MimeType:  r.codec.DetectMimeType(path),
		Generated: true,
	}

	if err := r.store.PutSizeMetadata(ctx, id, updated); err != nil {
		metrics.SizeMetadataWritesTotal.WithLabelValues("error").Inc()
		logging.Warn("Failed to save size metadata for attachment %d: %v", id, err)
		return
	}

	metrics.SizeMetadataWritesTotal.WithLabelValues("written").Inc()
	logging.Debug("Recorded size %s (%dx%d) for attachment %d", name, dims.Width, dims.Height, id)
}

func recordOutcome(out Outcome, retina bool, start time.Time) {
	status := out.Status.String()
	metrics.ResolverRequestsTotal.WithLabelValues(status, strconv.FormatBool(retina)).Inc()
	metrics.ResolverDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if out.Err != nil {
		metrics.ResolverFallbacksTotal.WithLabelValues(reasonLabel(out.Err)).Inc()
	}
}
