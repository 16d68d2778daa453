package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

func TestEncodePNG(t *testing.T) {
	// An alpha-only magnitude map: zero RGB with varying alpha
	px := []pixel.RGBA{{A: 0}, {A: 128}, {A: 255}, {A: 7}}
	buf, err := pixel.FromPixels(2, 2, px)
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}

	enc, err := EncodePNG(buf)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 2 || enc.Height != 2 || enc.MimeType != "image/png" {
		t.Errorf("metadata: got %dx%d %s", enc.Width, enc.Height, enc.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T, want *image.NRGBA", img)
	}
	if got := pixel.FromImage(nrgba).Samples(); !bytes.Equal(got, buf.Samples()) {
		t.Errorf("samples: got %v, want %v", got, buf.Samples())
	}
}

func TestEncodePNG_Nil(t *testing.T) {
	if _, err := EncodePNG(nil); err == nil {
		t.Error("EncodePNG should fail for nil buffer")
	}
}
