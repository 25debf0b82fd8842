package media

import "math"

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Geometry describes a resize: the source region to keep and the size it is
// scaled to.
type Geometry struct {
	SrcX, SrcY    int
	CropW, CropH  int
	Width, Height int
}

// Dst returns the output dimensions of the resize.
func (g Geometry) Dst() Dimensions {
	return Dimensions{Width: g.Width, Height: g.Height}
}

// ResizeGeometry computes the crop box and output size for resizing a
// srcW×srcH image to dstW×dstH. A zero target dimension is derived from the
// other one. It returns false when the input is degenerate or when the
// result would be the same size as or larger than the source.
//
// With crop disabled the output is the largest size that fits inside the
// target while keeping the aspect ratio. With crop enabled the target is
// clamped to the source and the source is cropped around crop's anchor so
// that the output exactly fills it.
func ResizeGeometry(srcW, srcH, dstW, dstH int, crop CropSpec) (Geometry, bool) {
	if srcW <= 0 || srcH <= 0 {
		return Geometry{}, false
	}
	if dstW <= 0 && dstH <= 0 {
		return Geometry{}, false
	}

	var g Geometry

	if crop.Enabled {
		aspect := float64(srcW) / float64(srcH)

		newW := min(dstW, srcW)
		newH := min(dstH, srcH)
		if newW <= 0 {
			newW = roundInt(float64(newH) * aspect)
		}
		if newH <= 0 {
			newH = roundInt(float64(newW) / aspect)
		}

		ratio := math.Max(float64(newW)/float64(srcW), float64(newH)/float64(srcH))
		cropW := roundInt(float64(newW) / ratio)
		cropH := roundInt(float64(newH) / ratio)

		x, y := crop.Axes()

		switch x {
		case AnchorLeft:
			g.SrcX = 0
		case AnchorRight:
			g.SrcX = srcW - cropW
		default:
			g.SrcX = (srcW - cropW) / 2
		}

		switch y {
		case AnchorTop:
			g.SrcY = 0
		case AnchorBottom:
			g.SrcY = srcH - cropH
		default:
			g.SrcY = (srcH - cropH) / 2
		}

		g.CropW, g.CropH = cropW, cropH
		g.Width, g.Height = newW, newH
	} else {
		g.CropW, g.CropH = srcW, srcH
		g.Width, g.Height = ConstrainDimensions(srcW, srcH, dstW, dstH)
	}

	// Same size or larger is not a resize, unless the caller asked for
	// exactly one of the source's own dimensions.
	if g.Width >= srcW && g.Height >= srcH && dstW != srcW && dstH != srcH {
		return Geometry{}, false
	}

	return g, true
}

// ConstrainDimensions scales w×h down proportionally so it fits inside
// maxW×maxH. A zero limit leaves that axis unconstrained.
func ConstrainDimensions(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 && maxH <= 0 {
		return w, h
	}

	widthRatio, heightRatio := 1.0, 1.0
	didWidth, didHeight := false, false

	if maxW > 0 && w > 0 && w > maxW {
		widthRatio = float64(maxW) / float64(w)
		didWidth = true
	}
	if maxH > 0 && h > 0 && h > maxH {
		heightRatio = float64(maxH) / float64(h)
		didHeight = true
	}

	smaller := math.Min(widthRatio, heightRatio)
	larger := math.Max(widthRatio, heightRatio)

	ratio := larger
	if (maxW > 0 && roundInt(float64(w)*larger) > maxW) || (maxH > 0 && roundInt(float64(h)*larger) > maxH) {
		ratio = smaller
	}

	newW := max(1, roundInt(float64(w)*ratio))
	newH := max(1, roundInt(float64(h)*ratio))

	// Rounding can push the unconstrained axis one pixel past the limit on
	// the constrained one; pin the constrained axis to its limit.
	if didWidth && newW == maxW-1 {
		newW = maxW
	}
	if didHeight && newH == maxH-1 {
		newH = maxH
	}

	return newW, newH
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
