package media

import "strings"

// Horizontal and vertical crop anchor names.
const (
	AnchorLeft   = "left"
	AnchorCenter = "center"
	AnchorRight  = "right"
	AnchorTop    = "top"
	AnchorBottom = "bottom"
)

// DefaultCropAnchor is applied to explicit size requests that carry no crop.
const DefaultCropAnchor = "center-center"

// CropSpec describes how a resize treats aspect ratio differences.
// With Enabled unset the image is scaled to fit inside the target box.
// With Enabled set it is cropped to fill the box, keeping the region named
// by Anchor ("horiz-vert"); an empty or unrecognized anchor crops around the
// center.
type CropSpec struct {
	Enabled bool
	Anchor  string
}

// NoCrop scales to fit without cropping.
var NoCrop = CropSpec{}

// FillCrop crops to fill without a named anchor.
var FillCrop = CropSpec{Enabled: true}

// AnchoredCrop crops to fill, keeping the region named by anchor.
func AnchoredCrop(anchor string) CropSpec {
	return CropSpec{Enabled: true, Anchor: anchor}
}

// ParseCrop interprets a crop value as found in size requests and preset
// files. Empty input yields fallback.
func ParseCrop(value string, fallback CropSpec) CropSpec {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return fallback
	case "true", "1", "yes":
		return FillCrop
	case "false", "0", "no":
		return NoCrop
	}
	return AnchoredCrop(v)
}

// Named reports whether the anchor is one of the nine valid
// {left,center,right}-{top,center,bottom} combinations.
func (c CropSpec) Named() bool {
	if !c.Enabled {
		return false
	}
	_, _, ok := splitAnchor(c.Anchor)
	return ok
}

// Axes returns the horizontal and vertical anchor, defaulting to center for
// anything that is not a valid named anchor.
func (c CropSpec) Axes() (string, string) {
	x, y, ok := splitAnchor(c.Anchor)
	if !ok {
		return AnchorCenter, AnchorCenter
	}
	return x, y
}

// String renders the crop the way it appears in dimension strings.
func (c CropSpec) String() string {
	switch {
	case !c.Enabled:
		return "false"
	case c.Anchor == "":
		return "true"
	default:
		return c.Anchor
	}
}

func splitAnchor(anchor string) (string, string, bool) {
	x, y, found := strings.Cut(anchor, "-")
	if !found {
		return "", "", false
	}
	switch x {
	case AnchorLeft, AnchorCenter, AnchorRight:
	default:
		return "", "", false
	}
	switch y {
	case AnchorTop, AnchorCenter, AnchorBottom:
	default:
		return "", "", false
	}
	return x, y, true
}
