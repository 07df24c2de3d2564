package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
	"golang.org/x/text/unicode/norm"
)

// ErrDecode is returned (wrapped) whenever file content cannot be turned
// into a PixelBuffer: empty input, unknown container, or corrupt data.
var ErrDecode = errors.New("imageutil: cannot decode image")

// LoadImage reads the complete file at path and decodes it.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Paths are passed to the OS as raw bytes, so any characters work. If the
// path does not exist as given, its NFC and NFD forms are tried in turn.
func LoadImage(path string) (*PixelBuffer, error) {
	data, err := readFileNormalized(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	buf, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

func readFileNormalized(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	for _, form := range []norm.Form{norm.NFC, norm.NFD} {
		alt := form.String(path)
		if alt == path {
			continue
		}
		if altData, altErr := os.ReadFile(alt); altErr == nil {
			return altData, nil
		}
	}
	return nil, err
}

// Decode parses an encoded image held in memory. It never panics: empty
// input, unsupported formats and codec failures all return an error
// wrapping ErrDecode.
func Decode(data []byte) (buf *PixelBuffer, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: decoder panic: %v", ErrDecode, r)
		}
	}()

	img, format, decErr := image.Decode(bytes.NewReader(data))
	if decErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, decErr)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s image has no pixels", ErrDecode, format)
	}

	return FromImage(img), nil
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif, bmp).
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := encodeByExt(f, img, path); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func encodeByExt(f *os.File, img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		// Default to PNG
		return png.Encode(f, img)
	}
}
