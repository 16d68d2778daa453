package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// EncodedImage is a PNG ready to be returned to an MCP client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes buf as a base64 PNG. Samples are written unpremultiplied,
// so alpha-only magnitude maps keep their zero RGB.
func EncodePNG(buf *pixel.Buffer) (*EncodedImage, error) {
	if buf == nil {
		return nil, fmt.Errorf("nothing to encode")
	}

	var out bytes.Buffer
	if err := png.Encode(&out, buf.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       buf.Width(),
		Height:      buf.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
		MimeType:    "image/png",
	}, nil
}
