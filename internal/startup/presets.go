package startup

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"image-resizer/internal/media"

	"gopkg.in/yaml.v3"
)

// DefaultPresets returns the sizes available when none are configured.
func DefaultPresets() map[string]media.SizeRequest {
	return map[string]media.SizeRequest{
		"thumbnail":    media.Explicit(150, 150, media.FillCrop),
		"medium":       media.Explicit(300, 300, media.NoCrop),
		"medium_large": media.Explicit(768, 0, media.NoCrop),
		"large":        media.Explicit(1024, 1024, media.NoCrop),
	}
}

// presetFile is the layout of IMAGE_SIZES_FILE:
//
//	sizes:
//	  thumbnail:
//	    size: 150x150xcenter-center
//	  medium:
//	    width: 300
//	    height: 300
//	    crop: false
type presetFile struct {
	Sizes map[string]presetEntry `yaml:"sizes"`
}

type presetEntry struct {
	Size   string `yaml:"size"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Crop is a boolean or an anchor name; omitted means no crop
	Crop any `yaml:"crop"`
}

// LoadPresets builds the named size table. It starts from DefaultPresets,
// applies the YAML file at path (if any), then the "name=WxH[xANCHOR],..."
// list in env. Later definitions replace earlier ones of the same name.
func LoadPresets(path, env string) (map[string]media.SizeRequest, error) {
	presets := DefaultPresets()

	if path != "" {
		fromFile, err := readPresetFile(path)
		if err != nil {
			return nil, err
		}
		for name, req := range fromFile {
			presets[name] = req
		}
	}

	fromEnv, err := ParsePresetList(env)
	if err != nil {
		return nil, err
	}
	for name, req := range fromEnv {
		presets[name] = req
	}

	for name, req := range presets {
		if _, err := req.Normalize(nil); err != nil {
			return nil, fmt.Errorf("size %q: %w", name, err)
		}
	}

	return presets, nil
}

// ParsePresetList parses "name=spec,name=spec" where spec is a dimension
// string such as "150x150" or "300x200xleft-top". Dimension strings always
// crop to fill.
func ParsePresetList(s string) (map[string]media.SizeRequest, error) {
	presets := map[string]media.SizeRequest{}
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, spec, ok := strings.Cut(item, "=")
		name, spec = strings.TrimSpace(name), strings.TrimSpace(spec)
		if !ok || name == "" || spec == "" {
			return nil, fmt.Errorf("invalid IMAGE_SIZES entry %q (want name=WxH)", item)
		}
		presets[name] = media.DimensionString(spec)
	}
	return presets, nil
}

func readPresetFile(path string) (map[string]media.SizeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sizes file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sizes file %s: %w", path, err)
	}

	presets := make(map[string]media.SizeRequest, len(file.Sizes))
	for name, entry := range file.Sizes {
		if entry.Size != "" {
			presets[name] = media.DimensionString(entry.Size)
			continue
		}
		crop := "false"
		if entry.Crop != nil {
			crop = fmt.Sprint(entry.Crop)
		}
		presets[name] = media.SizeRequest{Width: entry.Width, Height: entry.Height, Crop: crop}
	}
	return presets, nil
}

func presetNames(presets map[string]media.SizeRequest) string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
