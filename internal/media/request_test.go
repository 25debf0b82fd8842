package media

import (
	"errors"
	"testing"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		wantWidth  int
		wantHeight int
		wantCrop   CropSpec
		wantNamed  bool
	}{
		{
			name:       "Single value is square fill crop",
			spec:       "150",
			wantWidth:  150,
			wantHeight: 150,
			wantCrop:   FillCrop,
		},
		{
			name:       "Width and height",
			spec:       "300x200",
			wantWidth:  300,
			wantHeight: 200,
			wantCrop:   FillCrop,
		},
		{
			name:       "Valid anchor",
			spec:       "300x200xcenter-top",
			wantWidth:  300,
			wantHeight: 200,
			wantCrop:   AnchoredCrop("center-top"),
			wantNamed:  true,
		},
		{
			name:       "Anchor is case insensitive",
			spec:       "300x200xLeft-Bottom",
			wantWidth:  300,
			wantHeight: 200,
			wantCrop:   AnchoredCrop("left-bottom"),
			wantNamed:  true,
		},
		{
			name:       "Invalid anchor passes through unnamed",
			spec:       "300x200xmiddle",
			wantWidth:  300,
			wantHeight: 200,
			wantCrop:   AnchoredCrop("middle"),
		},
		{
			name:       "Non-numeric coerces to zero",
			spec:       "abcx200",
			wantWidth:  0,
			wantHeight: 200,
			wantCrop:   FillCrop,
		},
		{
			name:       "Leading digits are kept",
			spec:       "120pxx80",
			wantWidth:  120,
			wantHeight: 80,
			wantCrop:   FillCrop,
		},
		{
			name:       "Negative coerces to zero",
			spec:       "-5x40",
			wantWidth:  0,
			wantHeight: 40,
			wantCrop:   FillCrop,
		},
		{
			name:       "Surrounding whitespace",
			spec:       " 64 ",
			wantWidth:  64,
			wantHeight: 64,
			wantCrop:   FillCrop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, err := ParseDimensions(tt.spec)
			if err != nil {
				t.Fatalf("ParseDimensions(%q) error: %v", tt.spec, err)
			}
			if size.Width != tt.wantWidth || size.Height != tt.wantHeight {
				t.Errorf("ParseDimensions(%q) = %dx%d, want %dx%d",
					tt.spec, size.Width, size.Height, tt.wantWidth, tt.wantHeight)
			}
			if size.Crop != tt.wantCrop {
				t.Errorf("Crop = %+v, want %+v", size.Crop, tt.wantCrop)
			}
			if size.Crop.Named() != tt.wantNamed {
				t.Errorf("Crop.Named() = %v, want %v", size.Crop.Named(), tt.wantNamed)
			}
		})
	}
}

func TestParseDimensionsInvalid(t *testing.T) {
	for _, spec := range []string{"", "   ", "1x2x3x4", "300x200xcenter-topxextra"} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseDimensions(spec)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("ParseDimensions(%q) error = %v, want ErrInvalidRequest", spec, err)
			}
		})
	}
}

func TestSizeRequestNormalize(t *testing.T) {
	presets := map[string]SizeRequest{
		"thumbnail": DimensionString("150x150xcenter-center"),
		"hero":      {Width: 1200, Height: 600, Crop: "center-top"},
		"fit":       {Width: 800, Crop: "false"},
	}

	tests := []struct {
		name    string
		req     SizeRequest
		want    NormalizedSize
		wantErr bool
	}{
		{
			name: "Dimension string",
			req:  DimensionString("300x200"),
			want: NormalizedSize{Width: 300, Height: 200, Crop: FillCrop},
		},
		{
			name: "Dimension string keeps caller name",
			req:  SizeRequest{Name: "card", Spec: "300x200"},
			want: NormalizedSize{Width: 300, Height: 200, Crop: FillCrop, Name: "card"},
		},
		{
			name: "Explicit defaults to center-center",
			req:  SizeRequest{Width: 300, Height: 200},
			want: NormalizedSize{Width: 300, Height: 200, Crop: AnchoredCrop("center-center")},
		},
		{
			name: "Explicit with name",
			req:  SizeRequest{Name: "card", Width: 300, Height: 200, Crop: "left-top"},
			want: NormalizedSize{Width: 300, Height: 200, Crop: AnchoredCrop("left-top"), Name: "card"},
		},
		{
			name: "Explicit without crop",
			req:  Explicit(640, 0, NoCrop),
			want: NormalizedSize{Width: 640, Crop: NoCrop},
		},
		{
			name: "Explicit unanchored crop round trips",
			req:  Explicit(200, 200, FillCrop),
			want: NormalizedSize{Width: 200, Height: 200, Crop: FillCrop},
		},
		{
			name: "Explicit negatives clamp to zero",
			req:  SizeRequest{Width: -10, Height: 50},
			want: NormalizedSize{Width: 0, Height: 50, Crop: AnchoredCrop("center-center")},
		},
		{
			name: "Preset from dimension string",
			req:  Preset("thumbnail"),
			want: NormalizedSize{Width: 150, Height: 150, Crop: AnchoredCrop("center-center"), Name: "thumbnail"},
		},
		{
			name: "Preset from explicit struct",
			req:  Preset("hero"),
			want: NormalizedSize{Width: 1200, Height: 600, Crop: AnchoredCrop("center-top"), Name: "hero"},
		},
		{
			name: "Preset without crop",
			req:  Preset("fit"),
			want: NormalizedSize{Width: 800, Crop: NoCrop, Name: "fit"},
		},
		{
			name:    "Unknown preset",
			req:     Preset("poster"),
			wantErr: true,
		},
		{
			name:    "Empty request",
			req:     SizeRequest{},
			wantErr: true,
		},
		{
			name:    "Malformed dimension string",
			req:     DimensionString("1x2x3x4"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Normalize(presets)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("Normalize() error = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseCrop(t *testing.T) {
	tests := []struct {
		value string
		want  CropSpec
	}{
		{"", AnchoredCrop(DefaultCropAnchor)},
		{"true", FillCrop},
		{"1", FillCrop},
		{"false", NoCrop},
		{"0", NoCrop},
		{"right-bottom", AnchoredCrop("right-bottom")},
		{" Center-Center ", AnchoredCrop("center-center")},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := ParseCrop(tt.value, AnchoredCrop(DefaultCropAnchor)); got != tt.want {
				t.Errorf("ParseCrop(%q) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCropSpecNamed(t *testing.T) {
	valid := []string{
		"left-top", "center-top", "right-top",
		"left-center", "center-center", "right-center",
		"left-bottom", "center-bottom", "right-bottom",
	}
	for _, anchor := range valid {
		if !AnchoredCrop(anchor).Named() {
			t.Errorf("AnchoredCrop(%q).Named() = false, want true", anchor)
		}
	}

	invalid := []string{"", "top-left", "center", "middle-center", "left-top-extra"}
	for _, anchor := range invalid {
		if AnchoredCrop(anchor).Named() {
			t.Errorf("AnchoredCrop(%q).Named() = true, want false", anchor)
		}
	}

	if (CropSpec{Anchor: "center-center"}).Named() {
		t.Error("disabled crop must not be named")
	}
}

func TestCropSpecAxes(t *testing.T) {
	x, y := AnchoredCrop("right-bottom").Axes()
	if x != AnchorRight || y != AnchorBottom {
		t.Errorf("Axes() = %s,%s, want right,bottom", x, y)
	}

	x, y = AnchoredCrop("nonsense").Axes()
	if x != AnchorCenter || y != AnchorCenter {
		t.Errorf("invalid anchor Axes() = %s,%s, want center,center", x, y)
	}
}
