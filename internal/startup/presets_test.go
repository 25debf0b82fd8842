package startup

import (
	"os"
	"path/filepath"
	"testing"

	"image-resizer/internal/media"
)

func TestParsePresetList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{name: "Empty", input: "", want: map[string]string{}},
		{
			name:  "Several sizes",
			input: "thumb=150, card = 400x300xleft-top ,,hero=1600x600",
			want:  map[string]string{"thumb": "150", "card": "400x300xleft-top", "hero": "1600x600"},
		},
		{name: "Missing spec", input: "thumb=", wantErr: true},
		{name: "Missing name", input: "=150", wantErr: true},
		{name: "No separator", input: "thumb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePresetList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePresetList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePresetList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for name, spec := range tt.want {
				if got[name].Spec != spec {
					t.Errorf("%s = %+v, want spec %q", name, got[name], spec)
				}
			}
		})
	}
}

func writeSizesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sizes.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write sizes file: %v", err)
	}
	return path
}

func TestLoadPresetsFromFile(t *testing.T) {
	path := writeSizesFile(t, `
sizes:
  card:
    size: 400x300xleft-top
  banner:
    width: 1200
    height: 400
    crop: center-top
  portrait:
    width: 600
    crop: false
  square:
    width: 200
    height: 200
    crop: true
  medium:
    width: 320
    height: 320
`)

	presets, err := LoadPresets(path, "")
	if err != nil {
		t.Fatalf("LoadPresets() error: %v", err)
	}

	tests := []struct {
		name string
		want media.NormalizedSize
	}{
		{name: "card", want: media.NormalizedSize{Width: 400, Height: 300, Crop: media.AnchoredCrop("left-top")}},
		{name: "banner", want: media.NormalizedSize{Width: 1200, Height: 400, Crop: media.AnchoredCrop("center-top")}},
		{name: "portrait", want: media.NormalizedSize{Width: 600, Crop: media.NoCrop}},
		{name: "square", want: media.NormalizedSize{Width: 200, Height: 200, Crop: media.FillCrop}},
		{name: "medium", want: media.NormalizedSize{Width: 320, Height: 320, Crop: media.NoCrop}},
		{name: "thumbnail", want: media.NormalizedSize{Width: 150, Height: 150, Crop: media.FillCrop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := media.Preset(tt.name).Normalize(presets)
			if err != nil {
				t.Fatalf("Normalize(%s) error: %v", tt.name, err)
			}
			tt.want.Name = tt.name
			if got != tt.want {
				t.Errorf("Normalize(%s) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoadPresetsEnvOverridesFile(t *testing.T) {
	path := writeSizesFile(t, "sizes:\n  card:\n    size: 400x300\n")

	presets, err := LoadPresets(path, "card=500x500")
	if err != nil {
		t.Fatalf("LoadPresets() error: %v", err)
	}
	if presets["card"].Spec != "500x500" {
		t.Errorf("card = %+v, want env definition", presets["card"])
	}
}

func TestLoadPresetsErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  string
	}{
		{name: "Invalid YAML", file: "sizes: [unclosed"},
		{name: "Invalid dimension string", file: "sizes:\n  bad:\n    size: 1x2x3x4\n"},
		{name: "Invalid env entry", env: "bad=1x2x3x4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.file != "" {
				path = writeSizesFile(t, tt.file)
			}
			if _, err := LoadPresets(path, tt.env); err == nil {
				t.Error("LoadPresets() expected error")
			}
		})
	}
}
