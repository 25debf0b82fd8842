package media

import (
	"fmt"
	"strings"
)

// SizeRequest asks for a derived image. It takes one of three forms:
//
//   - a dimension string in Spec: "W", "WxH" or "WxHxANCHOR"
//   - a named preset: Name set, Spec empty and no explicit dimensions
//   - explicit dimensions: Width/Height/Crop, optionally registered under Name
type SizeRequest struct {
	Name   string
	Spec   string
	Width  int
	Height int
	Crop   string
}

// NormalizedSize is a size request reduced to concrete numbers.
// Name is the caller-supplied intermediate size name, if any.
type NormalizedSize struct {
	Width  int
	Height int
	Crop   CropSpec
	Name   string
}

// DimensionString builds a request from a dimension string.
func DimensionString(spec string) SizeRequest {
	return SizeRequest{Spec: spec}
}

// Preset refers to a size registered by name.
func Preset(name string) SizeRequest {
	return SizeRequest{Name: name}
}

// Explicit builds a request from explicit numbers.
func Explicit(width, height int, crop CropSpec) SizeRequest {
	return SizeRequest{Width: width, Height: height, Crop: crop.String()}
}

func (r SizeRequest) isPreset() bool {
	return r.Spec == "" && r.Name != "" && r.Width == 0 && r.Height == 0
}

// Normalize reduces the request to (width, height, crop). Presets are looked
// up in presets; the preset name becomes the size name.
func (r SizeRequest) Normalize(presets map[string]SizeRequest) (NormalizedSize, error) {
	switch {
	case r.Spec != "":
		size, err := ParseDimensions(r.Spec)
		if err != nil {
			return NormalizedSize{}, err
		}
		size.Name = r.Name
		return size, nil

	case r.isPreset():
		preset, ok := presets[r.Name]
		if !ok {
			return NormalizedSize{}, fmt.Errorf("%w: unknown size %q", ErrInvalidRequest, r.Name)
		}
		if preset.isPreset() {
			return NormalizedSize{}, fmt.Errorf("%w: size %q has no dimensions", ErrInvalidRequest, r.Name)
		}
		size, err := preset.Normalize(nil)
		if err != nil {
			return NormalizedSize{}, err
		}
		size.Name = r.Name
		return size, nil

	case r.Width == 0 && r.Height == 0 && r.Name == "" && r.Crop == "":
		return NormalizedSize{}, fmt.Errorf("%w: empty size", ErrInvalidRequest)
	}

	return NormalizedSize{
		Width:  nonNegative(r.Width),
		Height: nonNegative(r.Height),
		Crop:   ParseCrop(r.Crop, AnchoredCrop(DefaultCropAnchor)),
		Name:   r.Name,
	}, nil
}

// ParseDimensions parses "W", "WxH" or "WxHxANCHOR". Dimension strings
// always crop to fill; a third token names the anchor and is kept verbatim
// even when it is not a valid anchor.
func ParseDimensions(spec string) (NormalizedSize, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return NormalizedSize{}, fmt.Errorf("%w: empty dimension string", ErrInvalidRequest)
	}

	parts := strings.Split(spec, "x")
	switch len(parts) {
	case 1:
		w := atoiLenient(parts[0])
		return NormalizedSize{Width: w, Height: w, Crop: FillCrop}, nil
	case 2:
		return NormalizedSize{
			Width:  atoiLenient(parts[0]),
			Height: atoiLenient(parts[1]),
			Crop:   FillCrop,
		}, nil
	case 3:
		return NormalizedSize{
			Width:  atoiLenient(parts[0]),
			Height: atoiLenient(parts[1]),
			Crop:   AnchoredCrop(strings.ToLower(strings.TrimSpace(parts[2]))),
		}, nil
	}

	return NormalizedSize{}, fmt.Errorf("%w: %q has %d parts", ErrInvalidRequest, spec, len(parts))
}

// atoiLenient reads the leading decimal digits of s, ignoring surrounding
// whitespace and anything after the digits. Signs and non-numeric input
// yield 0.
func atoiLenient(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		if n > maxDimension {
			return maxDimension
		}
	}
	return n
}

// maxDimension caps parsed sizes so absurd inputs can't overflow later
// arithmetic; no codec can produce images this large anyway.
const maxDimension = 1 << 20

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxDimension {
		return maxDimension
	}
	return n
}
