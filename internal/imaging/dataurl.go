// Package imaging turns photo sources into adjusted rasters and back.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	dimaging "github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var ErrNotDataURL = errors.New("not a base64 data URL")

// DecodeSource decodes a photo src, which is either a data URL or a path on
// disk. EXIF orientation is applied for file sources.
func DecodeSource(src string) (image.Image, error) {
	if strings.HasPrefix(src, "data:") {
		return DecodeDataURL(src)
	}
	img, err := dimaging.Open(src, dimaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open photo %s: %w", filepath.Base(src), err)
	}
	return img, nil
}

// DecodeDataURL decodes data:<mime>;base64,<payload>.
func DecodeDataURL(url string) (image.Image, error) {
	_, payload, err := splitDataURL(url)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	img, err := dimaging.Decode(bytes.NewReader(raw), dimaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func splitDataURL(url string) (mime, payload string, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", "", ErrNotDataURL
	}
	return strings.TrimSuffix(header, ";base64"), payload, nil
}

// EncodeJPEG writes img as a JPEG of the given quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return dimaging.Encode(w, img, dimaging.JPEG, dimaging.JPEGQuality(quality))
}

// EncodeDataURL returns img as a JPEG data URL.
func EncodeDataURL(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img, quality); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

var extMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// FileDataURL reads an image file and returns it as a data URL without
// re-encoding. The file must decode as an image.
func FileDataURL(path string) (string, error) {
	mime, ok := extMIME[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("decode photo %s: %w", filepath.Base(path), err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
