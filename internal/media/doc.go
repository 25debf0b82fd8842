// Package media produces resized variants of uploaded images and caches
// them beside the original file.
//
// The ThumbnailResolver is the entry point. Given an attachment id and a
// SizeRequest it:
//   - normalizes the request (named preset, "WxHxANCHOR" string or explicit numbers)
//   - asks the ImageCodec which dimensions are achievable
//   - looks for "{name}-{suffix}{ext}" on disk and reuses it when present
//   - otherwise resizes, records the new size in the MediaStore and returns it
//
// Failures never surface as errors. An Outcome falls back to the original
// image, or is skipped when nothing sensible can be shown; Outcome.Err
// carries the reason.
//
// Two codecs are provided: ImagingCodec (pure Go) and VipsCodec (libvips,
// requires InitVips).
package media
