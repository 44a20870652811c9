package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// jpegQuality is fixed so the re-encode is byte-deterministic for a given
// input; the fingerprint depends on it.
const jpegQuality = 90

// NormalizeJPEG decodes b (JPEG, PNG or GIF) and re-encodes it as a
// baseline JPEG. All fingerprinting and inference runs on the normalized
// bytes, so the same image uploaded in a different container format
// collides to the same digest when the conversion is byte-identical.
func NormalizeJPEG(b []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	// Already a JPEG: keep the original bytes so re-uploads of the same
	// file hash identically instead of drifting through a decode/encode
	// round trip.
	if format == "jpeg" {
		return b, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("could not encode image as JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
