package common

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
)

const (
	dataURLPrefix = "data:image/"
	pngDataURL    = "data:image/png;base64,"

	// MaxImageRefSize bounds an encoded tile reference.
	MaxImageRefSize = 1 << 20
)

var (
	ErrEmptyImageRef    = errors.New("empty image reference")
	ErrImageRefTooLarge = errors.New("image reference too large")
)

// EncodePNG encodes img as a PNG data URL.
func EncodePNG(img image.Image) (string, error) {
	b, err := PNGBytes(img)
	if err != nil {
		return "", err
	}
	return pngDataURL + base64.StdEncoding.EncodeToString(b), nil
}

func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps already-encoded image bytes of the given format ("png",
// "jpeg", "gif").
func DataURL(format string, b []byte) string {
	return dataURLPrefix + format + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// DecodeImage decodes a tile reference: a data URL or a bare base64
// payload of at most MaxImageRefSize bytes.
func DecodeImage(ref string) (image.Image, error) {
	if len(ref) > MaxImageRefSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageRefTooLarge, len(ref))
	}
	raw, err := DataURLBytes(ref)
	if err != nil {
		return nil, err
	}
	return DecodeImageBytes(raw)
}

// DataURLBytes returns the encoded image bytes inside a data URL or bare
// base64 payload. Unlike DecodeImage it has no size limit, so it also serves
// whole-map renders.
func DataURLBytes(ref string) ([]byte, error) {
	if ref == "" {
		return nil, ErrEmptyImageRef
	}
	payload := ref
	if strings.HasPrefix(ref, dataURLPrefix) {
		i := strings.Index(ref, ",")
		if i < 0 {
			return nil, fmt.Errorf("decode image: malformed data url")
		}
		payload = ref[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image base64: %w", err)
	}
	return raw, nil
}

// DecodeImageBytes decodes a PNG, JPEG or GIF.
func DecodeImageBytes(b []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
