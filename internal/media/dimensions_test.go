package media

import "testing"

func TestResizeGeometryCrop(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
		crop       CropSpec
		want       Geometry
	}{
		{
			name: "Square from landscape, centered",
			srcW: 1000, srcH: 500,
			dstW: 200, dstH: 200,
			crop: FillCrop,
			want: Geometry{SrcX: 250, SrcY: 0, CropW: 500, CropH: 500, Width: 200, Height: 200},
		},
		{
			name: "Square from landscape, left anchor",
			srcW: 1000, srcH: 500,
			dstW: 200, dstH: 200,
			crop: AnchoredCrop("left-center"),
			want: Geometry{SrcX: 0, SrcY: 0, CropW: 500, CropH: 500, Width: 200, Height: 200},
		},
		{
			name: "Square from landscape, right anchor",
			srcW: 1000, srcH: 500,
			dstW: 200, dstH: 200,
			crop: AnchoredCrop("right-top"),
			want: Geometry{SrcX: 500, SrcY: 0, CropW: 500, CropH: 500, Width: 200, Height: 200},
		},
		{
			name: "Banner from portrait, bottom anchor",
			srcW: 600, srcH: 900,
			dstW: 300, dstH: 100,
			crop: AnchoredCrop("center-bottom"),
			want: Geometry{SrcX: 0, SrcY: 700, CropW: 600, CropH: 200, Width: 300, Height: 100},
		},
		{
			name: "Target clamped to source on one axis",
			srcW: 1000, srcH: 1000,
			dstW: 2000, dstH: 500,
			crop: FillCrop,
			want: Geometry{SrcX: 0, SrcY: 250, CropW: 1000, CropH: 500, Width: 1000, Height: 500},
		},
		{
			name: "Zero height derived from aspect",
			srcW: 1000, srcH: 500,
			dstW: 400, dstH: 0,
			crop: FillCrop,
			want: Geometry{SrcX: 0, SrcY: 0, CropW: 1000, CropH: 500, Width: 400, Height: 200},
		},
		{
			name: "Invalid anchor crops around center",
			srcW: 1000, srcH: 500,
			dstW: 200, dstH: 200,
			crop: AnchoredCrop("middle"),
			want: Geometry{SrcX: 250, SrcY: 0, CropW: 500, CropH: 500, Width: 200, Height: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResizeGeometry(tt.srcW, tt.srcH, tt.dstW, tt.dstH, tt.crop)
			if !ok {
				t.Fatal("ResizeGeometry() reported not resizable")
			}
			if got != tt.want {
				t.Errorf("ResizeGeometry() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResizeGeometryFit(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
		wantW      int
		wantH      int
	}{
		{name: "Landscape into box", srcW: 1600, srcH: 900, dstW: 800, dstH: 800, wantW: 800, wantH: 450},
		{name: "Portrait into box", srcW: 900, srcH: 1600, dstW: 800, dstH: 800, wantW: 450, wantH: 800},
		{name: "Width only", srcW: 1000, srcH: 750, dstW: 300, dstH: 0, wantW: 300, wantH: 225},
		{name: "Height only", srcW: 1000, srcH: 750, dstW: 0, dstH: 150, wantW: 200, wantH: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := ResizeGeometry(tt.srcW, tt.srcH, tt.dstW, tt.dstH, NoCrop)
			if !ok {
				t.Fatal("ResizeGeometry() reported not resizable")
			}
			if g.Width != tt.wantW || g.Height != tt.wantH {
				t.Errorf("ResizeGeometry() = %dx%d, want %dx%d", g.Width, g.Height, tt.wantW, tt.wantH)
			}
			if g.CropW != tt.srcW || g.CropH != tt.srcH || g.SrcX != 0 || g.SrcY != 0 {
				t.Errorf("fit resize must keep the whole source, got %+v", g)
			}
		})
	}
}

func TestResizeGeometryNotResizable(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
		crop       CropSpec
	}{
		{name: "Zero source", srcW: 0, srcH: 100, dstW: 50, dstH: 50, crop: FillCrop},
		{name: "Zero target", srcW: 100, srcH: 100, dstW: 0, dstH: 0, crop: FillCrop},
		{name: "Crop larger than source", srcW: 1000, srcH: 1000, dstW: 2000, dstH: 2000, crop: FillCrop},
		{name: "Fit larger than source", srcW: 640, srcH: 480, dstW: 1024, dstH: 1024, crop: NoCrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g, ok := ResizeGeometry(tt.srcW, tt.srcH, tt.dstW, tt.dstH, tt.crop); ok {
				t.Errorf("ResizeGeometry() = %+v, want not resizable", g)
			}
		})
	}
}

func TestResizeGeometrySameSizeRequested(t *testing.T) {
	// Asking for exactly the source size is reported, and the resolver
	// turns it into an original-image fallback
	g, ok := ResizeGeometry(800, 600, 800, 600, FillCrop)
	if !ok {
		t.Fatal("ResizeGeometry() reported not resizable")
	}
	if g.Width != 800 || g.Height != 600 {
		t.Errorf("ResizeGeometry() = %dx%d, want 800x600", g.Width, g.Height)
	}
}

func TestConstrainDimensions(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{name: "No limits", w: 640, h: 480, wantW: 640, wantH: 480},
		{name: "Already fits", w: 640, h: 480, maxW: 1000, maxH: 1000, wantW: 640, wantH: 480},
		{name: "Width bound", w: 2000, h: 1000, maxW: 500, maxH: 500, wantW: 500, wantH: 250},
		{name: "Height bound", w: 1000, h: 2000, maxW: 500, maxH: 500, wantW: 250, wantH: 500},
		{name: "Minimum one pixel", w: 10000, h: 10, maxW: 100, wantW: 100, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ConstrainDimensions(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ConstrainDimensions() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
