package media

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"image-resizer/internal/filesystem"
	"image-resizer/internal/logging"
)

var formatMimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"heif": "image/heif",
	"avif": "image/avif",
	"jxl":  "image/jxl",
}

// DetectMimeType sniffs the file's magic bytes and falls back to its
// extension. It returns "" when neither identifies an image type.
func DetectMimeType(path string) string {
	format, err := detectFileType(path)
	if err != nil {
		logging.Debug("Could not detect file type for %s: %v", path, err)
	}
	if t, ok := formatMimeTypes[format]; ok {
		return t
	}

	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t, _, _ = strings.Cut(t, ";"); strings.HasPrefix(t, "image/") {
		return t
	}
	return ""
}

func detectFileType(filePath string) (string, error) {
	file, err := filesystem.OpenWithRetry(filePath, filesystem.DefaultRetryConfig())
	if err != nil {
		return "", err
	}
	defer file.Close()

	header := make([]byte, 32)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return sniffFormat(header[:n]), nil
}

// sniffFormat identifies an image format from its leading bytes.
func sniffFormat(header []byte) string {
	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return "jpeg"

	case len(header) >= 8 && header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47:
		return "png"

	case len(header) >= 4 && header[0] == 0x47 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x38:
		return "gif"

	case len(header) >= 12 && header[0] == 0x52 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x46 &&
		header[8] == 0x57 && header[9] == 0x45 && header[10] == 0x42 && header[11] == 0x50:
		return "webp"

	case len(header) >= 2 && header[0] == 0x42 && header[1] == 0x4D:
		return "bmp"

	case len(header) >= 4 && ((header[0] == 0x49 && header[1] == 0x49 && header[2] == 0x2A && header[3] == 0x00) ||
		(header[0] == 0x4D && header[1] == 0x4D && header[2] == 0x00 && header[3] == 0x2A)):
		return "tiff"

	case len(header) >= 12 && header[4] == 0x66 && header[5] == 0x74 && header[6] == 0x79 && header[7] == 0x70:
		switch string(header[8:12]) {
		case "heic", "heix", "hevc", "hevx", "mif1", "msf1":
			return "heif"
		case "avif", "avis":
			return "avif"
		}
		return "unknown"

	case len(header) >= 2 && header[0] == 0xFF && header[1] == 0x0A:
		return "jxl"

	case len(header) >= 12 && header[0] == 0x00 && header[1] == 0x00 && header[2] == 0x00 && header[3] == 0x0C &&
		header[4] == 0x4A && header[5] == 0x58 && header[6] == 0x4C && header[7] == 0x20:
		return "jxl"
	}

	return "unknown"
}
