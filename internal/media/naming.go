package media

import (
	"path/filepath"
	"strconv"
	"strings"
)

// RetinaMarker is appended to the suffix of double-density files.
const RetinaMarker = "@2x"

// Suffix builds the file name suffix for a derived image from its achieved
// dimensions. Retina files are named after their 1x base, so dims are halved
// and RetinaMarker appended. A valid named anchor is appended after the
// dimensions; unanchored or unrecognized crops add nothing.
func Suffix(dims Dimensions, crop CropSpec, retina bool) string {
	w, h := dims.Width, dims.Height
	if retina {
		w, h = w/2, h/2
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(w))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(h))
	if crop.Named() {
		b.WriteByte('-')
		b.WriteString(crop.Anchor)
	}
	if retina {
		b.WriteString(RetinaMarker)
	}
	return b.String()
}

// CachePath returns where the derived file for suffix lives: beside the
// source, named {base}-{suffix}{ext}.
func CachePath(source, suffix string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(filepath.Base(source), ext)
	return filepath.Join(filepath.Dir(source), base+"-"+suffix+ext)
}

// SiblingURL replaces the last path segment of rawURL with name. Derived
// files are stored in the source's directory, so the original URL with its
// file name swapped is the derived file's URL. Any query string or fragment
// on the original is dropped.
func SiblingURL(rawURL, name string) string {
	u := rawURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return name
	}
	return u[:i+1] + name
}

// SizeName returns the intermediate size name a derived image is recorded
// under: the caller's name when one was given, otherwise prefix_suffix.
func SizeName(name, prefix, suffix string) string {
	if name != "" {
		return name
	}
	if prefix == "" {
		return suffix
	}
	return prefix + "_" + suffix
}
