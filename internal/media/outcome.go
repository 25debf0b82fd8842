package media

import "errors"

// Reasons a request did not produce a resized image.
var (
	ErrInvalidRequest    = errors.New("invalid size request")
	ErrNotResizable      = errors.New("target is not smaller than the original")
	ErrRetinaInexact     = errors.New("retina size cannot be produced exactly")
	ErrSourceUnavailable = errors.New("attachment source unavailable")
	ErrCodecFailure      = errors.New("image codec failure")
)

// Thumbnail is the image a caller should render.
type Thumbnail struct {
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	RetinaURL string `json:"retina,omitempty"`
	SizeName  string `json:"intermediate_size,omitempty"`
}

// Status tags how a request was answered.
type Status int

const (
	// StatusSkipped means there is nothing to render; Err says why.
	StatusSkipped Status = iota
	// StatusResized means a new file was produced.
	StatusResized
	// StatusCached means an existing derived file was reused.
	StatusCached
	// StatusOriginal means the full-size image is returned; Err says why.
	StatusOriginal
)

// String returns the metric label for the status.
func (s Status) String() string {
	switch s {
	case StatusResized:
		return "resized"
	case StatusCached:
		return "cached"
	case StatusOriginal:
		return "original"
	default:
		return "skipped"
	}
}

// Outcome is the result of a resolve. Thumbnail is nil only when Status is
// StatusSkipped.
type Outcome struct {
	Status    Status
	Thumbnail *Thumbnail
	Err       error
}

// OK reports whether the outcome carries an image to render.
func (o Outcome) OK() bool {
	return o.Thumbnail != nil
}

func skipped(err error) Outcome {
	return Outcome{Status: StatusSkipped, Err: err}
}

func original(img Image, reason error) Outcome {
	return Outcome{
		Status:    StatusOriginal,
		Thumbnail: &Thumbnail{URL: img.URL, Width: img.Width, Height: img.Height},
		Err:       reason,
	}
}

// reasonLabel maps a failure to its metric label.
func reasonLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrNotResizable):
		return "not_resizable"
	case errors.Is(err, ErrRetinaInexact):
		return "retina_inexact"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrCodecFailure):
		return "codec_failure"
	default:
		return "unknown"
	}
}
