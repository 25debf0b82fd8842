package media

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a MediaStore for unknown attachments or
	// attachments without a file on disk.
	ErrNotFound = errors.New("attachment not found")

	// ErrNoMetadata is returned by a MediaStore when an attachment has no
	// size metadata record at all.
	ErrNoMetadata = errors.New("attachment has no size metadata")
)

// Image is a full-size attachment as served to clients.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SizeMetadataEntry records one derived image of an attachment.
// Generated marks entries written by the resolver rather than at upload.
type SizeMetadataEntry struct {
	File      string `json:"file"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MimeType  string `json:"mime-type"`
	Generated bool   `json:"generated"`
}

// SizeMetadata maps intermediate size names to derived images.
type SizeMetadata map[string]SizeMetadataEntry

// MediaStore resolves attachments and persists their size metadata.
//
// Implementations must keep each attachment's derived files in the same
// directory as its source file, and the last path segment of Original's URL
// must be the source file's base name. The resolver derives public URLs by
// swapping that segment.
type MediaStore interface {
	// Original returns the full-size image, or ErrNotFound.
	Original(ctx context.Context, id int64) (Image, error)

	// SourcePath returns the absolute path of the uploaded file, or ErrNotFound.
	SourcePath(ctx context.Context, id int64) (string, error)

	// SizeMetadata returns the attachment's sizes, or ErrNoMetadata.
	SizeMetadata(ctx context.Context, id int64) (SizeMetadata, error)

	// PutSizeMetadata replaces the attachment's sizes.
	PutSizeMetadata(ctx context.Context, id int64, sizes SizeMetadata) error
}
