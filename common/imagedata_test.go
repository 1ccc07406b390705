package common

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestEncodeDecodePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	ref, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if !strings.HasPrefix(ref, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.40s", ref)
	}
	img, err := DecodeImage(ref)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds: want %v, got %v", src.Bounds(), img.Bounds())
	}
	if got := color.RGBAModel.Convert(img.At(2, 1)); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("pixel: got %v", got)
	}

	// bare base64 without the data URL header
	bare := strings.TrimPrefix(ref, "data:image/png;base64,")
	if _, err := DecodeImage(bare); err != nil {
		t.Fatalf("bare payload: %v", err)
	}
}

func TestDecodeImageErrors(t *testing.T) {
	huge := "data:image/png;base64," + strings.Repeat("A", MaxImageRefSize)
	cases := []struct {
		name string
		ref  string
		want error
	}{
		{"empty", "", ErrEmptyImageRef},
		{"too_large", huge, ErrImageRefTooLarge},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := DecodeImage(c.ref); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if _, err := DecodeImage("data:image/png;base64" + "AAAA"); err == nil {
		t.Fatalf("malformed data url should fail")
	}
	if _, err := DecodeImage(base64.StdEncoding.EncodeToString([]byte("not an image"))); err == nil {
		t.Fatalf("garbage payload should fail")
	}
}

func TestDataURLBytesHasNoLimit(t *testing.T) {
	payload := make([]byte, MaxImageRefSize)
	b, err := DataURLBytes(DataURL("png", payload))
	if err != nil {
		t.Fatalf("DataURLBytes: %v", err)
	}
	if len(b) != len(payload) {
		t.Fatalf("want %d bytes, got %d", len(payload), len(b))
	}
}
